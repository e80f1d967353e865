// Package logger builds the zap logger used across the service and the CLI.
//
// Level and encoding come from Config. Debug selects zap's development
// preset; anything else uses the production preset at the parsed level.
//
// Log entries are correlated through three helpers:
//   - WithRayID attaches the ray_id of an HTTP request.
//   - WithRun attaches the run_id of a reconciliation pass.
//   - RecordFields describes the staged record being processed (kind, record, row).
//
// Usage:
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRun(log, report.RunID)
//	l.Warn("Record rejected", append(logger.RecordFields("Cultivar", "Pink", 4), zap.Error(err))...)
package logger
