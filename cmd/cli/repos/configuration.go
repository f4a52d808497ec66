package repos

import "strings"

const (
	updateConfigurationKeyConstant    = "update"
	syncConfigurationKeyConstant      = "sync"
	submoduleConfigurationKeyConstant = "submodule"
	configurationParentKeyConstant    = "parent"
	configurationRemoteURLKeyConstant = "remote_url"
	configurationManifestKeyConstant  = "manifest"
	configurationDryRunKeyConstant    = "dry_run"
	defaultManifestFileNameConstant   = "repokeeper.yaml"
	defaultSubmoduleParentConstant    = "."
)

// ToolsConfiguration captures configuration of the repository commands.
type ToolsConfiguration struct {
	Update    UpdateConfiguration    `mapstructure:"update"`
	Sync      SyncConfiguration      `mapstructure:"sync"`
	Submodule SubmoduleConfiguration `mapstructure:"submodule"`
}

// UpdateConfiguration describes configuration values for update.
type UpdateConfiguration struct {
	RemoteURL string `mapstructure:"remote_url"`
}

// SyncConfiguration describes configuration values for sync.
type SyncConfiguration struct {
	Manifest string `mapstructure:"manifest"`
	DryRun   bool   `mapstructure:"dry_run"`
}

// SubmoduleConfiguration describes configuration values for the submodule commands.
type SubmoduleConfiguration struct {
	Parent string `mapstructure:"parent"`
}

// DefaultToolsConfiguration returns baseline configuration values for repository commands.
func DefaultToolsConfiguration() ToolsConfiguration {
	return ToolsConfiguration{
		Sync:      SyncConfiguration{Manifest: defaultManifestFileNameConstant},
		Submodule: SubmoduleConfiguration{Parent: defaultSubmoduleParentConstant},
	}
}

// DefaultConfigurationValues flattens DefaultToolsConfiguration into viper keys under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultToolsConfiguration()
	trimmedPrefix := strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	qualify := func(keys ...string) string {
		if len(trimmedPrefix) == 0 {
			return strings.Join(keys, ".")
		}
		return trimmedPrefix + "." + strings.Join(keys, ".")
	}

	return map[string]any{
		qualify(updateConfigurationKeyConstant, configurationRemoteURLKeyConstant): defaults.Update.RemoteURL,
		qualify(syncConfigurationKeyConstant, configurationManifestKeyConstant):    defaults.Sync.Manifest,
		qualify(syncConfigurationKeyConstant, configurationDryRunKeyConstant):      defaults.Sync.DryRun,
		qualify(submoduleConfigurationKeyConstant, configurationParentKeyConstant): defaults.Submodule.Parent,
	}
}
