package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/repokeeper/cmd/cli"
	"github.com/temirov/repokeeper/cmd/cli/repos"
	"github.com/temirov/repokeeper/internal/utils"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: warn\n  log_format: structured\ntools:\n  update:\n    remote_url: https://github.com/example/configured.git\n  submodule:\n    parent: checkouts/parent\n"
	testLogLevelEnvironmentConstant   = "REPOKEEPER_COMMON_LOG_LEVEL"
	testAbsentCheckoutNameConstant    = "absent"
)

type applicationHarness struct {
	application *cli.Application
	output      *bytes.Buffer
	logOutput   *bytes.Buffer
}

func newApplicationHarness(testInstance *testing.T) applicationHarness {
	testInstance.Helper()

	isolatedHome := testInstance.TempDir()
	testInstance.Setenv("HOME", isolatedHome)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(isolatedHome, ".config"))
	testInstance.Setenv(testLogLevelEnvironmentConstant, "")
	testInstance.Chdir(testInstance.TempDir())

	logOutput := &bytes.Buffer{}
	application := cli.NewApplicationWithLoggerFactory(utils.NewLoggerFactoryWithDestination(zapcore.AddSync(logOutput)))
	output := &bytes.Buffer{}
	application.RootCommand().SetOut(output)
	application.RootCommand().SetErr(output)

	return applicationHarness{application: application, output: output, logOutput: logOutput}
}

func (harness applicationHarness) execute(arguments ...string) error {
	harness.application.RootCommand().SetArgs(arguments)
	return harness.application.Execute()
}

func TestApplicationEmbeddedDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))
	require.Equal(testInstance, string(utils.LogLevelInfo), configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatConsole), configuration.Common.LogFormat)

	var toolsConfiguration repos.ToolsConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "mapstructure", Result: &toolsConfiguration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(viperInstance.GetStringMap("tools")))
	require.Equal(testInstance, repos.DefaultToolsConfiguration(), toolsConfiguration)
}

func TestApplicationLoadsConfigurationLayers(testInstance *testing.T) {
	testCases := []struct {
		name              string
		environmentLevel  string
		flagArguments     []string
		expectedLogLevel  string
		expectedLogFormat string
	}{
		{name: "configuration_file", expectedLogLevel: "warn", expectedLogFormat: "structured"},
		{name: "environment_override", environmentLevel: "error", expectedLogLevel: "error", expectedLogFormat: "structured"},
		{name: "flag_override", environmentLevel: "error", flagArguments: []string{"--log-level", "DEBUG", "--log-format", "console"}, expectedLogLevel: "debug", expectedLogFormat: "console"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newApplicationHarness(testInstance)
			configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
			require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o600))
			testInstance.Setenv(testLogLevelEnvironmentConstant, testCase.environmentLevel)

			absentCheckout := filepath.Join(testInstance.TempDir(), testAbsentCheckoutNameConstant)
			arguments := append([]string{"--config", configurationPath}, testCase.flagArguments...)
			arguments = append(arguments, "status", absentCheckout)
			require.NoError(testInstance, harness.execute(arguments...))

			configuration := harness.application.Configuration()
			require.Equal(testInstance, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedLogFormat, configuration.Common.LogFormat)
			require.Equal(testInstance, "https://github.com/example/configured.git", configuration.Tools.Update.RemoteURL)
			require.Equal(testInstance, "checkouts/parent", configuration.Tools.Submodule.Parent)
			require.Equal(testInstance, "repokeeper.yaml", configuration.Tools.Sync.Manifest)
			require.Equal(testInstance, "STALE "+absentCheckout+"\n", harness.output.String())
		})
	}
}

func TestApplicationRejectsInvalidLogFormat(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	executionError := harness.execute("--log-format", "xml", "status")
	require.ErrorContains(testInstance, executionError, `unsupported value "xml"`)
}

func TestApplicationRejectsMissingConfigurationFile(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	executionError := harness.execute("--config", filepath.Join(testInstance.TempDir(), "missing.yaml"), "status")
	require.ErrorContains(testInstance, executionError, "unable to load configuration")
}

func TestApplicationDebugLoggingReportsConfiguration(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	require.NoError(testInstance, harness.execute("--log-level", "debug", "--log-format", "structured", "status", filepath.Join(testInstance.TempDir(), testAbsentCheckoutNameConstant)))
	require.Contains(testInstance, harness.logOutput.String(), "configuration initialized")
	require.Contains(testInstance, harness.logOutput.String(), `"log_level":"debug"`)
}

func TestApplicationRegistersCommands(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)

	registeredCommands := map[string]bool{}
	for _, command := range harness.application.RootCommand().Commands() {
		registeredCommands[command.Name()] = true
	}
	for _, expectedCommand := range []string{"status", "update", "log", "submodule", "sync"} {
		require.True(testInstance, registeredCommands[expectedCommand], expectedCommand)
	}
}

func TestApplicationVersionFlag(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance)
	require.NoError(testInstance, harness.execute("--version"))
	require.True(testInstance, strings.HasPrefix(harness.output.String(), "repokeeper version: "))
}
