package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const gitMetadataEntryNameConstant = ".git"

// DiscoverCheckouts walks roots and returns every directory holding a .git entry, sorted and
// deduplicated. The walk does not descend into a discovered checkout, so nested submodules are
// not reported. Unreadable directories are skipped.
func DiscoverCheckouts(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var checkouts []string

	for _, root := range roots {
		walkError := filepath.WalkDir(filepath.Clean(root), func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil || !directoryEntry.IsDir() {
				return nil
			}
			if _, statError := os.Lstat(filepath.Join(path, gitMetadataEntryNameConstant)); statError != nil {
				return nil
			}

			if _, alreadySeen := seen[path]; !alreadySeen {
				seen[path] = struct{}{}
				checkouts = append(checkouts, path)
			}
			return fs.SkipDir
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(checkouts)
	return checkouts, nil
}
