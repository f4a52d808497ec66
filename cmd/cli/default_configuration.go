package cli

import _ "embed"

// repokeeperDefaultConfiguration holds the log defaults and the tools.* values
// that configuration files and REPOKEEPER_* variables override.
//
//go:embed default_config.yaml
var repokeeperDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in repokeeper configuration
// together with its viper format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), repokeeperDefaultConfiguration...), configurationTypeConstant
}
