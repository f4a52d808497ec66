// Package pathutils resolves user-supplied checkout paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant           = "~"
	forwardSlashSeparatorConstant = "/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// PathResolver expands a leading ~ to the user's home directory and anchors relative
// paths to a base directory. The home directory is looked up once, on first use.
type PathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	lookupGuard           sync.Once
}

// NewPathResolver constructs a PathResolver using the operating system home lookup.
func NewPathResolver() *PathResolver {
	return NewPathResolverWithProvider(os.UserHomeDir)
}

// NewPathResolverWithProvider constructs a PathResolver with a custom home lookup.
func NewPathResolverWithProvider(provider HomeDirectoryProvider) *PathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &PathResolver{homeDirectoryProvider: provider}
}

// ExpandHome replaces "~" and a leading "~/" with the home directory. Other inputs,
// including "~user" forms, are returned unchanged.
func (resolver *PathResolver) ExpandHome(candidatePath string) string {
	if resolver == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && !strings.HasPrefix(remainder, forwardSlashSeparatorConstant) && !strings.HasPrefix(remainder, string(os.PathSeparator)) {
		return candidatePath
	}

	homeDirectory := resolver.lookupHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

// Resolve expands the home shortcut and joins relative results onto baseDirectory.
func (resolver *PathResolver) Resolve(baseDirectory string, candidatePath string) string {
	expandedPath := resolver.ExpandHome(strings.TrimSpace(candidatePath))
	if filepath.IsAbs(expandedPath) {
		return filepath.Clean(expandedPath)
	}
	return filepath.Join(baseDirectory, expandedPath)
}

func (resolver *PathResolver) lookupHomeDirectory() string {
	resolver.lookupGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
