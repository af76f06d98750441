package migrate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

const (
	reportCreateErrorTemplateConstant = "unable to create report file %s: %w"
	reportWriteErrorTemplateConstant  = "unable to write report file %s: %w"
	reportFloatFormatByteConstant     = 'f'
	reportFloatPrecisionConstant      = 2
	reportFloatBitSizeConstant        = 64
)

var reportColumnHeaders = []string{
	"SourceOrg",
	"SourceRepo",
	"TargetOrg",
	"TargetRepo",
	"Status",
	"StartTime",
	"EndTime",
	"TimeTakenSeconds",
	"TimeTakenMinutes",
	"LogFile",
}

// ReportWriter serializes the ordered outcome collection to the tabular run report.
type ReportWriter struct {
	sourceOrganization string
	targetOrganization string
}

// NewReportWriter constructs a ReportWriter stamping the provided organizations on every row.
func NewReportWriter(sourceOrganization string, targetOrganization string) ReportWriter {
	return ReportWriter{
		sourceOrganization: sourceOrganization,
		targetOrganization: targetOrganization,
	}
}

// WriteFile writes the report to the provided path, one row per outcome, preserving input order.
//
// Partial outcome collections are written as-is: a cancelled run reports every
// item processed so far and fabricates nothing for unprocessed items.
func (writer ReportWriter) WriteFile(reportPath string, outcomes []ExecutionOutcome) error {
	reportFile, createError := os.Create(reportPath)
	if createError != nil {
		return fmt.Errorf(reportCreateErrorTemplateConstant, reportPath, createError)
	}
	defer reportFile.Close()

	csvWriter := csv.NewWriter(reportFile)

	if headerError := csvWriter.Write(reportColumnHeaders); headerError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, headerError)
	}

	for _, outcome := range outcomes {
		reportRow := []string{
			writer.sourceOrganization,
			outcome.Item.SourceName,
			writer.targetOrganization,
			outcome.Item.TargetName,
			outcome.StatusLabel(),
			formatReportTimestamp(outcome.StartTime),
			formatReportTimestamp(outcome.EndTime),
			formatReportFloat(outcome.DurationSeconds),
			formatReportFloat(outcome.DurationMinutes()),
			outcome.LogFilePath,
		}
		if rowError := csvWriter.Write(reportRow); rowError != nil {
			return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, rowError)
		}
	}

	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportPath, flushError)
	}

	return nil
}

func formatReportFloat(value float64) string {
	return strconv.FormatFloat(value, reportFloatFormatByteConstant, reportFloatPrecisionConstant, reportFloatBitSizeConstant)
}
