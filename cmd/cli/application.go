package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/cmd/cli/repos"
	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/ui"
	"github.com/temirov/repokeeper/internal/utils"
	"github.com/temirov/repokeeper/internal/utils/flags"
)

const (
	applicationNameConstant                 = "repokeeper"
	applicationShortDescriptionConstant     = "Keep local git checkouts and submodules in sync with their remotes"
	applicationLongDescriptionConstant      = "repokeeper checks local checkouts against their upstream branch and converges checkouts and submodules idempotently through the git CLI."
	applicationVersionTemplateConstant      = "{{.Name}} version: {{.Version}}\n"
	developmentVersionConstant              = "(devel)"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant           = "tools"
	environmentPrefixConstant               = "REPOKEEPER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  repos.ToolsConfiguration       `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	commandEventsObserver  execshell.CommandEventObserver
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      *flags.ChoiceValue
	logFormatFlagValue     *flags.ChoiceValue
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return NewApplicationWithLoggerFactory(utils.NewLoggerFactory())
}

// NewApplicationWithLoggerFactory assembles the application with a custom logger factory.
func NewApplicationWithLoggerFactory(loggerFactory *utils.LoggerFactory) *Application {
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderSettings{
		Name:              configurationNameConstant,
		Type:              configurationTypeConstant,
		EnvironmentPrefix: environmentPrefixConstant,
		SearchPaths:       utils.DefaultSearchPaths(applicationNameConstant),
	})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          loggerFactory,
		logger:                 zap.NewNop(),
		logLevelFlagValue:      flags.NewChoiceValue(string(utils.LogLevelInfo), utils.SupportedLogLevels()),
		logFormatFlagValue:     flags.NewChoiceValue(string(utils.LogFormatStructured), utils.SupportedLogFormats()),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(applicationVersionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().Var(application.logLevelFlagValue, logLevelFlagNameConstant, application.logLevelFlagValue.Usage(logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().Var(application.logFormatFlagValue, logFormatFlagNameConstant, application.logFormatFlagValue.Usage(logFormatFlagUsageConstant))

	serviceDependencies := repos.ServiceDependencies{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		CommandEventsObserverProvider: func() execshell.CommandEventObserver {
			return application.commandEventsObserver
		},
	}

	statusBuilder := repos.StatusCommandBuilder{ServiceDependencies: serviceDependencies}
	statusCommand, statusBuildError := statusBuilder.Build()
	if statusBuildError == nil {
		cobraCommand.AddCommand(statusCommand)
	}

	updateBuilder := repos.UpdateCommandBuilder{
		ServiceDependencies: serviceDependencies,
		ConfigurationProvider: func() repos.UpdateConfiguration {
			return application.configuration.Tools.Update
		},
	}
	updateCommand, updateBuildError := updateBuilder.Build()
	if updateBuildError == nil {
		cobraCommand.AddCommand(updateCommand)
	}

	logBuilder := repos.LogCommandBuilder{ServiceDependencies: serviceDependencies}
	logCommand, logBuildError := logBuilder.Build()
	if logBuildError == nil {
		cobraCommand.AddCommand(logCommand)
	}

	submoduleBuilder := repos.SubmoduleCommandGroupBuilder{
		ServiceDependencies: serviceDependencies,
		ConfigurationProvider: func() repos.SubmoduleConfiguration {
			return application.configuration.Tools.Submodule
		},
	}
	submoduleCommand, submoduleBuildError := submoduleBuilder.Build()
	if submoduleBuildError == nil {
		cobraCommand.AddCommand(submoduleCommand)
	}

	syncBuilder := repos.SyncCommandBuilder{
		ServiceDependencies: serviceDependencies,
		ConfigurationProvider: func() repos.SyncConfiguration {
			return application.configuration.Tools.Sync
		},
	}
	syncCommand, syncBuildError := syncBuilder.Build()
	if syncBuildError == nil {
		cobraCommand.AddCommand(syncCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the Cobra root command, for example to set arguments and output streams.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Configuration returns the configuration resolved by the last command run.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(toolsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue.String()
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue.String()
	}

	logLevel, logLevelError := utils.ParseLogLevel(application.configuration.Common.LogLevel)
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(logLevel, logFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.commandEventsObserver = ui.NewConsoleCommandEventLogger(loggerOutputs.HumanReadableLogger)

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(logLevel)),
		zap.String(configurationLogFormatFieldConstant, string(logFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext, contextError := application.buildCommandContext(command.Context())
		if contextError != nil {
			return contextError
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) buildCommandContext(parentContext context.Context) (context.Context, error) {
	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(parentContext, application.configurationMetadata.ConfigFileUsed)
	if _, available := application.commandContextAccessor.WorkingDirectory(updatedContext); available {
		return updatedContext, nil
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return nil, fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return application.commandContextAccessor.WithWorkingDirectory(updatedContext, workingDirectory), nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveApplicationVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
