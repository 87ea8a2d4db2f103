// Package logger builds configured log/slog loggers for agentkit consumers.
// It standardizes output format, level and static attributes so every domain
// agent logs the same way.
//
// # Usage
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("agent", "diet")),
//	)
//	mgr := session.New(cfg, session.WithLogger(log))
//
// Soft failures inside the session manager (storage faults, renewal network
// errors) are reported only through this logger, never to the caller.
package logger
