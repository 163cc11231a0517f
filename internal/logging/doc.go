// Package logging provides structured logging for fauxforce refresh runs.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// attribute propagation. Refresh runs are headless and often triggered by
// editor tooling rather than a person, so the log file is the primary way
// to reconstruct what a run did after the fact.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Attribute propagation (project root, category, pipeline stage)
//   - Size-based log rotation with optional gzip compression
//   - Aggregation, filtering, and export of past runs' logs
//
// # Basic Usage
//
// Create a logger for a project's log directory:
//
//	logger, err := logging.NewLogger(project.LogDir(root), "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("starting full refresh", "category", "ALL")
//
// # Attribute Propagation
//
// Create child loggers with persistent context attributes:
//
//	runLogger := logger.WithProject(root).WithCategory("CUSTOM")
//	stageLogger := runLogger.WithStage("reconciling")
//
//	// All logs from stageLogger include project, category, and stage
//	stageLogger.Debug("deleted stale stub", "object", "Invoice__c")
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"deleted stale stub","project":"/work/app","category":"CUSTOM","stage":"reconciling","object":"Invoice__c"}
//
// # Log Rotation
//
// Projects accumulate refresh runs over months; rotation keeps the log
// bounded:
//
//	config := logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	}
//	logger, err := logging.NewLoggerWithRotation(project.LogDir(root), "INFO", config)
//
// Rotated files are named refresh.log.1, refresh.log.2, and so on, where
// .1 is the most recent backup.
//
// # Reading Logs Back
//
// The logs command uses [AggregateLogs], [FilterLogs], and
// [ExportLogEntries] to inspect past runs:
//
//	entries, err := logging.AggregateLogs(project.LogDir(root))
//	warnings := logging.FilterLogs(entries, logging.LogFilter{Level: "WARN"})
//	logging.ExportLogEntries(warnings, "warnings.csv", "csv")
//
// # Testing
//
// Use [NopLogger] to discard all log output:
//
//	logger := logging.NopLogger()
//
// All types in this package are safe for concurrent use.
package logging
