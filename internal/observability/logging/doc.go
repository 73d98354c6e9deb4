// Package logging builds slog loggers and carries them through contexts.
//
// Example usage:
//
//	logger := logging.NewLogger(logging.Options{Level: "debug"})
//	logger.Info("listening", slog.String("addr", addr))
//
//	func handle(ctx context.Context) {
//	    logging.FromContext(ctx).Info("rendering listing")
//	}
package logging
