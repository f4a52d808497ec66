package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repokeeper/internal/gitrepo"
	pathutils "github.com/temirov/repokeeper/internal/utils/path"
)

const (
	manifestPathRequiredMessageConstant      = "workspace manifest path must be provided"
	manifestEmptyMessageConstant             = "workspace manifest must define at least one repository or submodule"
	manifestLoadErrorTemplateConstant        = "failed to load workspace manifest: %w"
	manifestParseErrorTemplateConstant       = "failed to parse workspace manifest: %w"
	repositoryRemoteMissingTemplateConstant  = "workspace repository %d missing remote"
	repositoryPathUnresolvedTemplateConstant = "workspace repository %d has no path and none could be derived from remote %s: %w"
	submoduleRemoteMissingTemplateConstant   = "workspace submodule %d missing remote"
	submodulePathMissingTemplateConstant     = "workspace submodule %d missing path"
	submodulePathAbsoluteTemplateConstant    = "workspace submodule %d path %s must be relative to its parent"
	protocolUnsupportedTemplateConstant      = "workspace manifest protocol %q is not supported"
	remoteRewriteErrorTemplateConstant       = "failed to rewrite remote %s: %w"
	defaultSubmoduleParentConstant           = "."
	jsonManifestExtensionConstant            = ".json"
	jsoncManifestExtensionConstant           = ".jsonc"
)

// FileReader reads manifest files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Manifest lists the checkouts a workspace converges. A non-empty Protocol
// rewrites every parseable remote to that protocol.
type Manifest struct {
	Protocol     gitrepo.RemoteProtocol `yaml:"protocol" json:"protocol"`
	Repositories []RepositoryEntry      `yaml:"repositories" json:"repositories"`
	Submodules   []SubmoduleEntry       `yaml:"submodules" json:"submodules"`
}

// RepositoryEntry describes a standalone checkout.
type RepositoryEntry struct {
	Path   string `yaml:"path" json:"path"`
	Remote string `yaml:"remote" json:"remote"`
}

// SubmoduleEntry describes a submodule nested in a parent checkout.
type SubmoduleEntry struct {
	Parent string `yaml:"parent" json:"parent"`
	Remote string `yaml:"remote" json:"remote"`
	Path   string `yaml:"path" json:"path"`
	Name   string `yaml:"name" json:"name"`
	Commit string `yaml:"commit" json:"commit"`
}

// LoadManifest reads and validates the manifest at manifestPath. Files ending in .json or
// .jsonc are decoded as JSON with comments allowed; anything else is YAML. Repository paths
// and submodule parents may start with ~; relative ones are resolved against the manifest's directory.
func LoadManifest(fileReader FileReader, manifestPath string) (Manifest, error) {
	trimmedPath := strings.TrimSpace(manifestPath)
	if len(trimmedPath) == 0 {
		return Manifest{}, errors.New(manifestPathRequiredMessageConstant)
	}

	contentBytes, readError := fileReader.ReadFile(trimmedPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestLoadErrorTemplateConstant, readError)
	}

	parseManifest := ParseManifest
	switch strings.ToLower(filepath.Ext(trimmedPath)) {
	case jsonManifestExtensionConstant, jsoncManifestExtensionConstant:
		parseManifest = ParseJSONManifest
	}

	manifest, parseError := parseManifest(contentBytes)
	if parseError != nil {
		return Manifest{}, parseError
	}

	absoluteManifestPath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		return Manifest{}, fmt.Errorf(manifestLoadErrorTemplateConstant, absoluteError)
	}
	manifest.resolve(filepath.Dir(absoluteManifestPath))
	return manifest, nil
}

// ParseManifest decodes and validates manifest content without resolving paths.
func ParseManifest(content []byte) (Manifest, error) {
	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(content, &manifest); unmarshalError != nil {
		return Manifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}
	if validationError := manifest.normalize(); validationError != nil {
		return Manifest{}, validationError
	}
	return manifest, nil
}

// ParseJSONManifest decodes and validates JSON manifest content, tolerating comments and
// trailing commas, without resolving paths.
func ParseJSONManifest(content []byte) (Manifest, error) {
	var manifest Manifest
	if unmarshalError := json.Unmarshal(jsonc.ToJSON(content), &manifest); unmarshalError != nil {
		return Manifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}
	if validationError := manifest.normalize(); validationError != nil {
		return Manifest{}, validationError
	}
	return manifest, nil
}

func (manifest *Manifest) normalize() error {
	if len(manifest.Repositories) == 0 && len(manifest.Submodules) == 0 {
		return errors.New(manifestEmptyMessageConstant)
	}

	manifest.Protocol = gitrepo.RemoteProtocol(strings.ToLower(strings.TrimSpace(string(manifest.Protocol))))
	switch manifest.Protocol {
	case "", gitrepo.RemoteProtocolSSH, gitrepo.RemoteProtocolHTTPS, gitrepo.RemoteProtocolHTTP:
	default:
		return fmt.Errorf(protocolUnsupportedTemplateConstant, manifest.Protocol)
	}

	for entryIndex := range manifest.Repositories {
		entry := &manifest.Repositories[entryIndex]
		entry.Remote = strings.TrimSpace(entry.Remote)
		entry.Path = strings.TrimSpace(entry.Path)
		if len(entry.Remote) == 0 {
			return fmt.Errorf(repositoryRemoteMissingTemplateConstant, entryIndex)
		}
		if len(entry.Path) == 0 {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(entry.Remote)
			if parseError != nil {
				return fmt.Errorf(repositoryPathUnresolvedTemplateConstant, entryIndex, entry.Remote, parseError)
			}
			entry.Path = filepath.Join(filepath.FromSlash(parsedRemote.Owner), parsedRemote.Repository)
		}
		rewrittenRemote, rewriteError := rewriteRemote(entry.Remote, manifest.Protocol)
		if rewriteError != nil {
			return rewriteError
		}
		entry.Remote = rewrittenRemote
	}

	for entryIndex := range manifest.Submodules {
		entry := &manifest.Submodules[entryIndex]
		entry.Parent = strings.TrimSpace(entry.Parent)
		entry.Remote = strings.TrimSpace(entry.Remote)
		entry.Path = strings.TrimSpace(entry.Path)
		entry.Name = strings.TrimSpace(entry.Name)
		entry.Commit = strings.TrimSpace(entry.Commit)
		if len(entry.Parent) == 0 {
			entry.Parent = defaultSubmoduleParentConstant
		}
		if len(entry.Remote) == 0 {
			return fmt.Errorf(submoduleRemoteMissingTemplateConstant, entryIndex)
		}
		if len(entry.Path) == 0 {
			return fmt.Errorf(submodulePathMissingTemplateConstant, entryIndex)
		}
		if filepath.IsAbs(entry.Path) {
			return fmt.Errorf(submodulePathAbsoluteTemplateConstant, entryIndex, entry.Path)
		}
		rewrittenRemote, rewriteError := rewriteRemote(entry.Remote, manifest.Protocol)
		if rewriteError != nil {
			return rewriteError
		}
		entry.Remote = rewrittenRemote
	}

	return nil
}

func (manifest *Manifest) resolve(baseDirectory string) {
	resolver := pathutils.NewPathResolver()
	for entryIndex := range manifest.Repositories {
		manifest.Repositories[entryIndex].Path = resolver.Resolve(baseDirectory, manifest.Repositories[entryIndex].Path)
	}
	for entryIndex := range manifest.Submodules {
		manifest.Submodules[entryIndex].Parent = resolver.Resolve(baseDirectory, manifest.Submodules[entryIndex].Parent)
	}
}

// rewriteRemote converts remote to protocol. Remotes that are not host/owner/repository
// URLs, such as local paths, are left untouched.
func rewriteRemote(remote string, protocol gitrepo.RemoteProtocol) (string, error) {
	if len(protocol) == 0 {
		return remote, nil
	}
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remote)
	if parseError != nil {
		return remote, nil
	}
	if parsedRemote.Protocol == protocol {
		return remote, nil
	}
	parsedRemote.Protocol = protocol
	formattedRemote, formatError := gitrepo.FormatRemoteURL(parsedRemote)
	if formatError != nil {
		return "", fmt.Errorf(remoteRewriteErrorTemplateConstant, remote, formatError)
	}
	return formattedRemote, nil
}
