// Package logger provides structured logging for rymexport.
//
// It wraps zerolog behind a small Logger interface. Console output always goes
// to stderr because stdout carries the exported JSON document; an optional
// log file receives the same records.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.Info("Export started")
//	logger.WithField("username", "someone").Info("Fetching collection")
//	logger.WithError(err).Error("Export failed")
//
// Tests use NewTestLogger to capture and inspect messages, or NewNopLogger to
// drop them.
package logger
