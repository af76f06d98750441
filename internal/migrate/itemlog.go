package migrate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	itemLogFileNameTemplateConstant    = "%s__to__%s.log"
	itemLogLineTemplateConstant        = "%s\n"
	itemLogDirectoryPermissionsOctal   = 0o755
	itemLogCreateErrorTemplateConstant = "unable to create log file %s: %w"
)

// ItemLogFile is the scoped per-item log resource fed by the streaming executor.
//
// It implements execshell.OutputLineObserver; every observed line is written
// immediately so the log reflects live progress even if the child process
// later crashes. Callers must Close it on every exit path.
type ItemLogFile struct {
	logFile *os.File
	logPath string
}

// ItemLogPath computes the log file location for one work item inside the logs directory.
func ItemLogPath(logsDirectory string, workItem worklist.WorkItem) string {
	logFileName := fmt.Sprintf(
		itemLogFileNameTemplateConstant,
		worklist.SanitizeIdentifier(workItem.SourceName),
		worklist.SanitizeIdentifier(workItem.TargetName),
	)
	return filepath.Join(logsDirectory, logFileName)
}

// OpenItemLogFile creates the per-item log file, creating the logs directory when needed.
func OpenItemLogFile(logsDirectory string, workItem worklist.WorkItem) (*ItemLogFile, error) {
	logPath := ItemLogPath(logsDirectory, workItem)

	if directoryError := os.MkdirAll(logsDirectory, itemLogDirectoryPermissionsOctal); directoryError != nil {
		return nil, fmt.Errorf(itemLogCreateErrorTemplateConstant, logPath, directoryError)
	}

	logFile, createError := os.Create(logPath)
	if createError != nil {
		return nil, fmt.Errorf(itemLogCreateErrorTemplateConstant, logPath, createError)
	}

	return &ItemLogFile{logFile: logFile, logPath: logPath}, nil
}

// Path reports the location of the underlying log file.
func (itemLog *ItemLogFile) Path() string {
	if itemLog == nil {
		return ""
	}
	return itemLog.logPath
}

// HandleOutputLine implements execshell.OutputLineObserver by appending the line to the log file.
func (itemLog *ItemLogFile) HandleOutputLine(outputLine string) {
	if itemLog == nil || itemLog.logFile == nil {
		return
	}
	fmt.Fprintf(itemLog.logFile, itemLogLineTemplateConstant, outputLine)
}

// Close releases the underlying file handle. Safe to call on a nil receiver.
func (itemLog *ItemLogFile) Close() error {
	if itemLog == nil || itemLog.logFile == nil {
		return nil
	}
	closeError := itemLog.logFile.Close()
	itemLog.logFile = nil
	return closeError
}
