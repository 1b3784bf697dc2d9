// Package logger builds the process *slog.Logger.
//
// Loggers from New share one level, mask stored values and credentials,
// and tag records with the connection id found in the logging context:
//
//	ctx = logger.WithConnID(ctx, id)
//	log.WarnContext(ctx, "expiry not scheduled", "key", key)
package logger
