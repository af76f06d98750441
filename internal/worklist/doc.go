// Package worklist loads the ordered migration work list from a CSV inventory.
//
// It owns the WorkItem type consumed by the migration orchestrator, the CSV
// reader that tolerates byte-order marks and blank target columns, and the
// identifier sanitizer used to derive per-item log file names.
package worklist
