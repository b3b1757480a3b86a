// Package logger provides structured logging for audioscript using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("poller")
//	log.Info("job settled", logger.Fields(logger.FieldJobID, id))
package logger
