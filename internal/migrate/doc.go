// Package migrate orchestrates batch GitHub repository migrations.
//
// It drives one external `gh gei migrate-repo` invocation per work item,
// streams the child process output to the console and a per-item log file,
// aggregates timing and outcome records, and writes the run report and error
// log when the batch completes or is cancelled.
package migrate
