package migrate

import (
	"math"
	"time"

	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	statusSuccessLabelConstant = "Success"
	statusFailedLabelConstant  = "Failed"

	roundingScaleConstant         = 100
	secondsPerMinuteConstant      = 60
	reportTimestampLayoutConstant = "2006-01-02 15:04:05"
)

// ExecutionOutcome records the result of processing one work item.
//
// Outcomes are created exactly once, when the item's process invocation
// terminates, and are immutable afterwards.
type ExecutionOutcome struct {
	Item            worklist.WorkItem
	Success         bool
	CapturedOutput  string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds float64
	LogFilePath     string
}

// NewExecutionOutcome derives an outcome from one completed invocation.
func NewExecutionOutcome(workItem worklist.WorkItem, success bool, capturedOutput string, startTime time.Time, endTime time.Time, logFilePath string) ExecutionOutcome {
	durationSeconds := roundToTwoDecimals(endTime.Sub(startTime).Seconds())

	return ExecutionOutcome{
		Item:            workItem,
		Success:         success,
		CapturedOutput:  capturedOutput,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationSeconds: durationSeconds,
		LogFilePath:     logFilePath,
	}
}

// StatusLabel reports the outcome's report status, either Success or Failed.
func (outcome ExecutionOutcome) StatusLabel() string {
	if outcome.Success {
		return statusSuccessLabelConstant
	}
	return statusFailedLabelConstant
}

// DurationMinutes reports the outcome duration in minutes rounded to two decimals.
func (outcome ExecutionOutcome) DurationMinutes() float64 {
	return roundToTwoDecimals(outcome.DurationSeconds / secondsPerMinuteConstant)
}

// RunSummary aggregates the full ordered outcome collection for one run.
type RunSummary struct {
	Outcomes       []ExecutionOutcome
	TotalItems     int
	CompletedItems int
	Cancelled      bool
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*roundingScaleConstant) / roundingScaleConstant
}

func formatReportTimestamp(timestamp time.Time) string {
	return timestamp.UTC().Format(reportTimestampLayoutConstant)
}
