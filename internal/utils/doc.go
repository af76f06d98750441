// Package utils provides shared infrastructure for the repo-migrate CLI:
// Viper-backed configuration loading, zap logger construction for both the
// diagnostic console logger and the file-backed error log, and an io.Writer
// wrapper that keeps streamed child-process output visible in real time.
package utils
