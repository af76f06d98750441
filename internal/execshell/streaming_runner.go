package execshell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	commandStartErrorTemplateConstant      = "unable to launch %s: %w"
	loggerNotConfiguredMessageConstant     = "logger not configured"
	abortedOutputMarkerConstant            = "[ABORTED] Interrupted by user."
	abortedAccumulatorSuffixConstant       = "\n" + abortedOutputMarkerConstant + "\n"
	outputLineSuffixConstant               = "\n"
	abortedExitCodeConstant                = -1
	pipeReleaseWaitDelayConstant           = 10 * time.Second
	scannerInitialBufferSizeConstant       = 64 * 1024
	scannerMaximumTokenSizeConstant        = 1024 * 1024
	commandStartedDebugMessageConstant     = "launching command"
	commandCompletedDebugMessageConstant   = "command completed"
	commandAbortedWarnMessageConstant      = "command aborted by cancellation"
	outputScannerWarnMessageConstant       = "command output stream ended unexpectedly"
	logFieldCommandConstant                = "command"
	logFieldExitCodeConstant               = "exit_code"
)

// AbortedOutputMarker is the literal line appended to captured output and logs when a run is cancelled.
const AbortedOutputMarker = abortedOutputMarkerConstant

// ErrLoggerNotConfigured reports executor construction without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// StreamingExecutor launches external commands and streams their merged output line by line.
type StreamingExecutor struct {
	logger *zap.Logger
}

// NewStreamingExecutor constructs a StreamingExecutor backed by os/exec.
func NewStreamingExecutor(logger *zap.Logger) (*StreamingExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	return &StreamingExecutor{logger: logger}, nil
}

// Run executes the supplied command, delivering each merged output line to every observer.
//
// Standard error is merged into standard output so observers see the full
// interaction as a single ordered stream. The call blocks until the child
// process exits. When the context is cancelled the child process is
// terminated, the abort marker line is appended to the captured output and
// forwarded to observers, and the result reports Aborted.
//
// A nonzero exit code is not an error: it is reported through
// ExecutionResult.ExitCode. The returned error is reserved for failures to
// launch or supervise the process at all.
func (executor *StreamingExecutor) Run(executionContext context.Context, command ShellCommand, observers ...OutputLineObserver) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)
	executable.WaitDelay = pipeReleaseWaitDelayConstant

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	pipeReadEnd, pipeWriteEnd, pipeError := os.Pipe()
	if pipeError != nil {
		return ExecutionResult{}, pipeError
	}
	executable.Stdout = pipeWriteEnd
	executable.Stderr = pipeWriteEnd

	// Closing the read end alongside the kill unblocks the line scanner even
	// when orphaned grandchildren keep the write end open.
	executable.Cancel = func() error {
		killError := executable.Process.Kill()
		closePipeFile(pipeReadEnd)
		return killError
	}

	executor.logger.Debug(commandStartedDebugMessageConstant, zap.String(logFieldCommandConstant, command.String()))

	startError := executable.Start()
	closePipeFile(pipeWriteEnd)
	if startError != nil {
		closePipeFile(pipeReadEnd)
		return ExecutionResult{}, fmt.Errorf(commandStartErrorTemplateConstant, command.String(), startError)
	}

	var outputAccumulator strings.Builder

	lineScanner := bufio.NewScanner(pipeReadEnd)
	lineScanner.Buffer(make([]byte, scannerInitialBufferSizeConstant), scannerMaximumTokenSizeConstant)
	for lineScanner.Scan() {
		outputLine := lineScanner.Text()
		outputAccumulator.WriteString(outputLine)
		outputAccumulator.WriteString(outputLineSuffixConstant)
		deliverOutputLine(observers, outputLine)
	}
	if scanError := lineScanner.Err(); scanError != nil && executionContext.Err() == nil {
		executor.logger.Warn(outputScannerWarnMessageConstant, zap.String(logFieldCommandConstant, command.String()), zap.Error(scanError))
	}
	closePipeFile(pipeReadEnd)

	waitError := executable.Wait()

	if executionContext.Err() != nil {
		outputAccumulator.WriteString(abortedAccumulatorSuffixConstant)
		deliverOutputLine(observers, abortedOutputMarkerConstant)
		executor.logger.Warn(commandAbortedWarnMessageConstant, zap.String(logFieldCommandConstant, command.String()))
		return ExecutionResult{
			CombinedOutput: outputAccumulator.String(),
			ExitCode:       abortedExitCodeConstant,
			Aborted:        true,
		}, nil
	}

	executionResult := ExecutionResult{CombinedOutput: outputAccumulator.String()}
	if waitError != nil {
		exitError := &exec.ExitError{}
		if !errors.As(waitError, &exitError) {
			return executionResult, waitError
		}
		executionResult.ExitCode = exitError.ExitCode()
	}

	executor.logger.Debug(
		commandCompletedDebugMessageConstant,
		zap.String(logFieldCommandConstant, command.String()),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)

	return executionResult, nil
}

func deliverOutputLine(observers []OutputLineObserver, outputLine string) {
	for _, observer := range observers {
		if observer != nil {
			observer.HandleOutputLine(outputLine)
		}
	}
}

func closePipeFile(pipeFile *os.File) {
	_ = pipeFile.Close()
}
