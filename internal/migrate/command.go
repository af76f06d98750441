package migrate

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/repo-migrate/internal/execshell"
	"github.com/temirov/repo-migrate/internal/utils"
	pathutils "github.com/temirov/repo-migrate/internal/utils/path"
	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	commandUseConstant              = "migrate"
	commandShortDescriptionConstant = "Migrate repositories between GitHub organizations"
	commandLongDescriptionConstant  = "migrate reads an ordered CSV inventory and runs one gh gei migrate-repo invocation per row, streaming each migration's output live, writing per-item logs, and recording a tabular run report."

	inventoryFlagNameConstant          = "csv"
	inventoryFlagUsageConstant         = "Path to the CSV inventory listing repositories to migrate."
	logsDirectoryFlagNameConstant      = "logs-dir"
	logsDirectoryFlagUsageConstant     = "Directory receiving one log file per migrated repository."
	reportFlagNameConstant             = "report"
	reportFlagUsageConstant            = "Path of the CSV run report written at the end of the run."
	errorLogFlagNameConstant           = "error-log"
	errorLogFlagUsageConstant          = "Path of the append-only error log for failed migrations."
	sourceOrganizationFlagNameConstant = "source-org"
	sourceOrganizationFlagUsage        = "GitHub organization repositories are migrated from."
	targetOrganizationFlagNameConstant = "target-org"
	targetOrganizationFlagUsage        = "GitHub organization repositories are migrated to."
	targetAPIURLFlagNameConstant       = "target-api-url"
	targetAPIURLFlagUsageConstant      = "API endpoint of the migration target."
	heartbeatIntervalFlagNameConstant  = "heartbeat-interval"
	heartbeatIntervalFlagUsageConstant = "Interval between still-in-progress console lines while a migration runs (0 disables)."

	workItemsLoadedTemplateConstant  = "[INFO] Loaded %d repo(s) from %s\n"
	executorCreationErrorTemplate    = "unable to construct streaming executor: %w"
	errorLoggerCreationErrorTemplate = "unable to open error log %s: %w"
	serviceCreationErrorTemplate     = "unable to construct migration service: %w"
	inventoryLoadErrorTemplate       = "unable to load repository inventory: %w"
	runStartingMessageConstant       = "migration run starting"
	logFieldWorkItemCountConstant    = "work_items"
	logFieldInventoryPathConstant    = "inventory_path"
	logFieldTargetAPIURLConstant     = "target_api_url"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() Configuration
	Executor              CommandStreamer
	ErrorLogger           *zap.Logger
	ConsoleWriter         io.Writer
}

// Build constructs the migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runMigrate,
	}

	command.Flags().String(inventoryFlagNameConstant, "", inventoryFlagUsageConstant)
	command.Flags().String(logsDirectoryFlagNameConstant, "", logsDirectoryFlagUsageConstant)
	command.Flags().String(reportFlagNameConstant, "", reportFlagUsageConstant)
	command.Flags().String(errorLogFlagNameConstant, "", errorLogFlagUsageConstant)
	command.Flags().String(sourceOrganizationFlagNameConstant, "", sourceOrganizationFlagUsage)
	command.Flags().String(targetOrganizationFlagNameConstant, "", targetOrganizationFlagUsage)
	command.Flags().String(targetAPIURLFlagNameConstant, "", targetAPIURLFlagUsageConstant)
	command.Flags().Duration(heartbeatIntervalFlagNameConstant, defaultHeartbeatIntervalConstant, heartbeatIntervalFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runMigrate(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	configuration := builder.resolveConfiguration()
	applyFlagOverrides(&configuration, command.Flags())
	expandConfigurationPaths(&configuration)

	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}

	workItems, loadError := worklist.NewLoader().LoadFromFile(configuration.InventoryPath)
	if loadError != nil {
		return fmt.Errorf(inventoryLoadErrorTemplate, loadError)
	}

	consoleWriter := builder.resolveConsoleWriter()
	fmt.Fprintf(consoleWriter, workItemsLoadedTemplateConstant, len(workItems), configuration.InventoryPath)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplate, executorError)
	}

	errorLogger, errorLoggerCleanup, errorLoggerError := builder.resolveErrorLogger(configuration)
	if errorLoggerError != nil {
		return fmt.Errorf(errorLoggerCreationErrorTemplate, configuration.ErrorLogPath, errorLoggerError)
	}
	defer errorLoggerCleanup()

	service, serviceError := NewService(ServiceDependencies{
		Logger:        logger,
		ErrorLogger:   errorLogger,
		Executor:      executor,
		ConsoleWriter: consoleWriter,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplate, serviceError)
	}

	runIdentifier := uuid.NewString()
	logger.Info(
		runStartingMessageConstant,
		zap.String(logFieldRunIdentifierConstant, runIdentifier),
		zap.Int(logFieldWorkItemCountConstant, len(workItems)),
		zap.String(logFieldInventoryPathConstant, configuration.InventoryPath),
		zap.String(logFieldTargetAPIURLConstant, configuration.TargetAPIURL),
	)

	_, executionError := service.Execute(command.Context(), MigrationOptions{
		Configuration: configuration,
		WorkItems:     workItems,
		RunIdentifier: runIdentifier,
	})

	return executionError
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider != nil {
		return builder.ConfigurationProvider()
	}
	return Configuration{}
}

func (builder *CommandBuilder) resolveConsoleWriter() io.Writer {
	if builder.ConsoleWriter != nil {
		return builder.ConsoleWriter
	}
	return utils.NewFlushingWriter(os.Stdout)
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandStreamer, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}
	return execshell.NewStreamingExecutor(logger)
}

func (builder *CommandBuilder) resolveErrorLogger(configuration Configuration) (*zap.Logger, func(), error) {
	if builder.ErrorLogger != nil {
		return builder.ErrorLogger, func() {}, nil
	}

	errorLogger, creationError := utils.NewLoggerFactory().CreateFileLogger(utils.LogLevelError, configuration.ErrorLogPath)
	if creationError != nil {
		return nil, nil, creationError
	}

	return errorLogger, func() { _ = errorLogger.Sync() }, nil
}

func expandConfigurationPaths(configuration *Configuration) {
	homeExpander := pathutils.NewHomeExpander()
	configuration.InventoryPath = homeExpander.Expand(configuration.InventoryPath)
	configuration.LogsDirectory = homeExpander.Expand(configuration.LogsDirectory)
	configuration.ReportPath = homeExpander.Expand(configuration.ReportPath)
	configuration.ErrorLogPath = homeExpander.Expand(configuration.ErrorLogPath)
}

func applyFlagOverrides(configuration *Configuration, flagSet *pflag.FlagSet) {
	if flagSet == nil {
		return
	}

	if flagSet.Changed(inventoryFlagNameConstant) {
		configuration.InventoryPath, _ = flagSet.GetString(inventoryFlagNameConstant)
	}
	if flagSet.Changed(logsDirectoryFlagNameConstant) {
		configuration.LogsDirectory, _ = flagSet.GetString(logsDirectoryFlagNameConstant)
	}
	if flagSet.Changed(reportFlagNameConstant) {
		configuration.ReportPath, _ = flagSet.GetString(reportFlagNameConstant)
	}
	if flagSet.Changed(errorLogFlagNameConstant) {
		configuration.ErrorLogPath, _ = flagSet.GetString(errorLogFlagNameConstant)
	}
	if flagSet.Changed(sourceOrganizationFlagNameConstant) {
		configuration.SourceOrganization, _ = flagSet.GetString(sourceOrganizationFlagNameConstant)
	}
	if flagSet.Changed(targetOrganizationFlagNameConstant) {
		configuration.TargetOrganization, _ = flagSet.GetString(targetOrganizationFlagNameConstant)
	}
	if flagSet.Changed(targetAPIURLFlagNameConstant) {
		configuration.TargetAPIURL, _ = flagSet.GetString(targetAPIURLFlagNameConstant)
	}
	if flagSet.Changed(heartbeatIntervalFlagNameConstant) {
		configuration.HeartbeatInterval, _ = flagSet.GetDuration(heartbeatIntervalFlagNameConstant)
	}
}
