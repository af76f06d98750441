// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with a streaming executor that merges a child process's
// standard error into its standard output, delivers each output line to
// registered observers as it arrives, and converts operator cancellation into
// child-process termination with a recorded abort marker.
package execshell
