// Package logger provides structured logging for the relay using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers that carry structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("sse")
//	log.Info("stream opened", logger.Fields("subscriber_id", id))
package logger
