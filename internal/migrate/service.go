package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/repo-migrate/internal/execshell"
	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	githubCLICommandNameConstant       = "gh"
	geiSubcommandNameConstant          = "gei"
	migrateRepoSubcommandNameConstant  = "migrate-repo"
	sourceOrganizationFlagConstant     = "--github-source-org"
	sourceRepositoryFlagConstant       = "--source-repo"
	targetOrganizationFlagConstant     = "--github-target-org"
	targetRepositoryFlagConstant       = "--target-repo"
	targetAPIURLFlagConstant           = "--target-api-url"
	sourceTokenEnvironmentNameConstant = "GH_SOURCE_PAT"
	targetTokenEnvironmentNameConstant = "GH_PAT"

	consolePrefixTemplateConstant     = "[%s -> %s] "
	startingMigrationTemplateConstant = "\nStarting migration: %s/%s -> %s/%s\n"
	logOpenWarningTemplateConstant    = "[WARN] Could not open log file for %s -> %s: %v\n"
	itemSummaryTemplateConstant       = "[%s] %s -> %s (%d/%d) in %.2fs\n"
	runSummaryTemplateConstant        = "\nAll migrations finished. %d/%d repos processed.\n"
	reportLocationTemplateConstant    = "Details -> %s\n"
	errorLogLocationTemplateConstant  = "Errors  -> %s\n"
	itemLogsLocationTemplateConstant  = "Per-repo logs -> %s\n"
	noWorkItemsMessageConstant        = "[INFO] No repositories found in inventory. Nothing to do.\n"

	executorMissingMessageConstant      = "streaming executor not configured"
	consoleWriterMissingMessageConstant = "console writer not configured"

	errorLogEntryMessageConstant       = "migration failed"
	itemLogOpenWarnMessageConstant     = "per-item log file could not be opened"
	itemLogCloseWarnMessageConstant    = "per-item log file could not be closed"
	commandLaunchErrorMessageConstant  = "migration command could not be launched"
	itemOutcomeRecordedMessageConstant = "item outcome recorded"
	runCancelledMessageConstant        = "migration run cancelled"
	logFieldRunIdentifierConstant      = "run_id"
	logFieldSourceRepositoryConstant   = "source_repo"
	logFieldTargetRepositoryConstant   = "target_repo"
	logFieldCapturedOutputConstant     = "captured_output"
	logFieldStatusConstant             = "status"
	logFieldDurationSecondsConstant    = "duration_seconds"
	logFieldProcessedItemCountConstant = "processed_items"
	logFieldRemainingItemCountConstant = "remaining_items"
)

var (
	errExecutorMissing      = errors.New(executorMissingMessageConstant)
	errConsoleWriterMissing = errors.New(consoleWriterMissingMessageConstant)
)

// CommandStreamer runs one external command and streams its merged output to observers.
type CommandStreamer interface {
	Run(executionContext context.Context, command execshell.ShellCommand, observers ...execshell.OutputLineObserver) (execshell.ExecutionResult, error)
}

// ServiceDependencies describes required collaborators for the migration orchestrator.
type ServiceDependencies struct {
	Logger        *zap.Logger
	ErrorLogger   *zap.Logger
	Executor      CommandStreamer
	ConsoleWriter io.Writer
	Clock         func() time.Time
}

// MigrationOptions configures one orchestrated migration run.
type MigrationOptions struct {
	Configuration Configuration
	WorkItems     []worklist.WorkItem
	RunIdentifier string
}

// Service drives the serialized migration loop over the supplied work items.
//
// Items run strictly one at a time in input order; the remote migration is the
// bottleneck, so nothing is parallelized across items. Outcome i is always
// fully recorded before item i+1 starts.
type Service struct {
	logger        *zap.Logger
	errorLogger   *zap.Logger
	executor      CommandStreamer
	consoleWriter io.Writer
	clock         func() time.Time
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, errExecutorMissing
	}
	if dependencies.ConsoleWriter == nil {
		return nil, errConsoleWriterMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	errorLogger := dependencies.ErrorLogger
	if errorLogger == nil {
		errorLogger = zap.NewNop()
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		logger:        logger,
		errorLogger:   errorLogger,
		executor:      dependencies.Executor,
		consoleWriter: dependencies.ConsoleWriter,
		clock:         clock,
	}, nil
}

// Execute processes every work item in order and writes the run report.
//
// Per-item failures never abort the batch. Cancellation terminates the
// in-flight child process, records that item as failed, skips the remaining
// items, and still writes the report for everything processed so far.
func (service *Service) Execute(executionContext context.Context, options MigrationOptions) (RunSummary, error) {
	runSummary := RunSummary{TotalItems: len(options.WorkItems)}

	if runSummary.TotalItems == 0 {
		fmt.Fprint(service.consoleWriter, noWorkItemsMessageConstant)
		return runSummary, nil
	}

	heartbeatMonitor := NewHeartbeatMonitor(service.consoleWriter, options.Configuration.HeartbeatInterval)

	for _, workItem := range options.WorkItems {
		if executionContext.Err() != nil {
			runSummary.Cancelled = true
			break
		}

		outcome := service.processWorkItem(executionContext, options, workItem, heartbeatMonitor, len(runSummary.Outcomes))
		runSummary.Outcomes = append(runSummary.Outcomes, outcome)
		runSummary.CompletedItems++

		if !outcome.Success {
			service.errorLogger.Error(
				errorLogEntryMessageConstant,
				zap.String(logFieldRunIdentifierConstant, options.RunIdentifier),
				zap.String(logFieldSourceRepositoryConstant, workItem.SourceName),
				zap.String(logFieldTargetRepositoryConstant, workItem.TargetName),
				zap.String(logFieldCapturedOutputConstant, outcome.CapturedOutput),
			)
		}

		if executionContext.Err() != nil {
			runSummary.Cancelled = true
			break
		}
	}

	if runSummary.Cancelled {
		service.logger.Warn(
			runCancelledMessageConstant,
			zap.String(logFieldRunIdentifierConstant, options.RunIdentifier),
			zap.Int(logFieldProcessedItemCountConstant, runSummary.CompletedItems),
			zap.Int(logFieldRemainingItemCountConstant, runSummary.TotalItems-runSummary.CompletedItems),
		)
	}

	reportWriter := NewReportWriter(options.Configuration.SourceOrganization, options.Configuration.TargetOrganization)
	if reportError := reportWriter.WriteFile(options.Configuration.ReportPath, runSummary.Outcomes); reportError != nil {
		return runSummary, reportError
	}

	fmt.Fprintf(service.consoleWriter, runSummaryTemplateConstant, runSummary.CompletedItems, runSummary.TotalItems)
	fmt.Fprintf(service.consoleWriter, reportLocationTemplateConstant, options.Configuration.ReportPath)
	fmt.Fprintf(service.consoleWriter, errorLogLocationTemplateConstant, options.Configuration.ErrorLogPath)
	fmt.Fprintf(service.consoleWriter, itemLogsLocationTemplateConstant, options.Configuration.LogsDirectory)

	return runSummary, nil
}

func (service *Service) processWorkItem(executionContext context.Context, options MigrationOptions, workItem worklist.WorkItem, heartbeatMonitor *HeartbeatMonitor, processedCount int) ExecutionOutcome {
	configuration := options.Configuration

	fmt.Fprintf(
		service.consoleWriter,
		startingMigrationTemplateConstant,
		configuration.SourceOrganization,
		workItem.SourceName,
		configuration.TargetOrganization,
		workItem.TargetName,
	)

	consolePrefix := fmt.Sprintf(consolePrefixTemplateConstant, workItem.SourceName, workItem.TargetName)
	logFilePath := ItemLogPath(configuration.LogsDirectory, workItem)

	observers := []execshell.OutputLineObserver{
		execshell.NewPrefixedWriterLineObserver(service.consoleWriter, consolePrefix),
	}

	itemLog, itemLogError := OpenItemLogFile(configuration.LogsDirectory, workItem)
	if itemLogError != nil {
		fmt.Fprintf(service.consoleWriter, logOpenWarningTemplateConstant, workItem.SourceName, workItem.TargetName, itemLogError)
		service.logger.Warn(itemLogOpenWarnMessageConstant, zap.Error(itemLogError))
	} else {
		observers = append(observers, itemLog)
	}
	defer func() {
		if closeError := itemLog.Close(); closeError != nil {
			service.logger.Warn(itemLogCloseWarnMessageConstant, zap.Error(closeError))
		}
	}()

	migrationCommand := buildMigrationCommand(configuration, workItem)

	stopHeartbeat := heartbeatMonitor.Start(consolePrefix)

	startTime := service.clock()
	executionResult, runError := service.executor.Run(executionContext, migrationCommand, observers...)
	stopHeartbeat()
	endTime := service.clock()

	capturedOutput := executionResult.CombinedOutput
	success := runError == nil && executionResult.Successful()
	if runError != nil {
		capturedOutput += runError.Error() + "\n"
		service.logger.Error(commandLaunchErrorMessageConstant, zap.Error(runError))
	}

	outcome := NewExecutionOutcome(workItem, success, capturedOutput, startTime, endTime, logFilePath)

	fmt.Fprintf(
		service.consoleWriter,
		itemSummaryTemplateConstant,
		outcome.StatusLabel(),
		workItem.SourceName,
		workItem.TargetName,
		processedCount+1,
		len(options.WorkItems),
		outcome.DurationSeconds,
	)

	service.logger.Info(
		itemOutcomeRecordedMessageConstant,
		zap.String(logFieldRunIdentifierConstant, options.RunIdentifier),
		zap.String(logFieldSourceRepositoryConstant, workItem.SourceName),
		zap.String(logFieldTargetRepositoryConstant, workItem.TargetName),
		zap.String(logFieldStatusConstant, outcome.StatusLabel()),
		zap.Float64(logFieldDurationSecondsConstant, outcome.DurationSeconds),
	)

	return outcome
}

func buildMigrationCommand(configuration Configuration, workItem worklist.WorkItem) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandName(githubCLICommandNameConstant),
		Details: execshell.CommandDetails{
			Arguments: []string{
				geiSubcommandNameConstant,
				migrateRepoSubcommandNameConstant,
				sourceOrganizationFlagConstant, configuration.SourceOrganization,
				sourceRepositoryFlagConstant, workItem.SourceName,
				targetOrganizationFlagConstant, configuration.TargetOrganization,
				targetRepositoryFlagConstant, workItem.TargetName,
				targetAPIURLFlagConstant, configuration.TargetAPIURL,
			},
			EnvironmentVariables: map[string]string{
				sourceTokenEnvironmentNameConstant: configuration.SourceToken,
				targetTokenEnvironmentNameConstant: configuration.TargetToken,
			},
		},
	}
}
