package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// formatUptime returns a human-readable string for a duration.
func formatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, plural(hours),
			minutes, plural(minutes),
			seconds, plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, plural(minutes),
			seconds, plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, plural(seconds))
	}
}

// plural returns "s" if n != 1, otherwise "".
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// envName maps the production flag to the name shown in health output.
func envName(production bool) string {
	if production {
		return "production"
	}
	return "development"
}

// requestID returns the request id stored by requestIDMiddleware, if any.
func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// logInfo logs an info-level message.
func logInfo(format string, v ...any) {
	log.Printf("[INFO] "+format, v...)
}

// logWarn logs a warning-level message.
func logWarn(format string, v ...any) {
	log.Printf("[WARN] "+format, v...)
}

// logFatal logs a fatal error and exits.
func logFatal(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}

// logInfoCtx logs an info-level message prefixed with the request id.
func logInfoCtx(ctx context.Context, format string, v ...any) {
	logInfo("[request_id=%v] "+format, append([]any{requestID(ctx)}, v...)...)
}

// logWarnCtx logs a warning prefixed with the request id.
func logWarnCtx(ctx context.Context, format string, v ...any) {
	logWarn("[request_id=%v] "+format, append([]any{requestID(ctx)}, v...)...)
}
