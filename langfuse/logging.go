package langfuse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger is a minimal printf-style logging interface, compatible with the
// standard library log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

// StructuredLogger provides leveled, structured logging for the client.
// It is compatible with Go's slog package via NewSlogAdapter and with zap's
// SugaredLogger via the adapter in internal/cli.
type StructuredLogger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// slogAdapter adapts *slog.Logger to StructuredLogger.
type slogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps an *slog.Logger so it can be used as the client's
// StructuredLogger.
//
// Example:
//
//	client, _ := langfuse.New(pk, sk,
//	    langfuse.WithStructuredLogger(langfuse.NewSlogAdapter(slog.Default())),
//	)
func NewSlogAdapter(l *slog.Logger) StructuredLogger {
	return &slogAdapter{logger: l}
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, toAttrs(args)...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, toAttrs(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelWarn, msg, toAttrs(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger.LogAttrs(context.Background(), slog.LevelError, msg, toAttrs(args)...)
}

var _ StructuredLogger = (*slogAdapter)(nil)

// toAttrs converts alternating key-value pairs to slog attributes.
func toAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

// printfLoggerWrapper wraps a printf-style logger to implement StructuredLogger.
type printfLoggerWrapper struct {
	logger Logger
}

// WrapPrintfLogger wraps a printf-style Logger (like *log.Logger) to
// implement StructuredLogger. All messages are logged at the same level with
// formatted key-value pairs appended.
func WrapPrintfLogger(l Logger) StructuredLogger {
	return &printfLoggerWrapper{logger: l}
}

func (w *printfLoggerWrapper) Debug(msg string, args ...any) {
	w.logger.Printf("[DEBUG] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Info(msg string, args ...any) {
	w.logger.Printf("[INFO] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Warn(msg string, args ...any) {
	w.logger.Printf("[WARN] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Error(msg string, args ...any) {
	w.logger.Printf("[ERROR] " + msg + formatArgs(args))
}

var _ StructuredLogger = (*printfLoggerWrapper)(nil)

// formatArgs formats structured logging arguments as " k=v k=v".
func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}
