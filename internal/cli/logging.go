package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/retroryan/langfuse-samples/langfuse"
)

// NewLogger builds a console zap logger for the sample binaries.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// zapAdapter adapts a zap SugaredLogger to langfuse.StructuredLogger.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewLangfuseLogger wraps a zap logger for use as the Langfuse client's
// structured logger.
func NewLangfuseLogger(l *zap.Logger) langfuse.StructuredLogger {
	return &zapAdapter{sugar: l.Sugar()}
}

func (a *zapAdapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a *zapAdapter) Info(msg string, args ...any)  { a.sugar.Infow(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.sugar.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }

var _ langfuse.StructuredLogger = (*zapAdapter)(nil)
