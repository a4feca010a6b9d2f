package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	internalLogger *zap.SugaredLogger
	level          = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggerMu       sync.RWMutex
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	initLogger(os.Stderr)
}

func initLogger(w io.Writer) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)
	loggerMu.Lock()
	internalLogger = zap.New(core).Sugar()
	loggerMu.Unlock()
}

func current() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return internalLogger
}

// SetLevel changes the minimum level of the internal logger.
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// Level returns the current minimum level.
func Level() string {
	return level.Level().String()
}

// SetInternalOutput redirects the internal logger; nil restores stderr.
func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	initLogger(w)
}

// Zap returns the underlying structured logger.
func Zap() *zap.Logger {
	return current().Desugar()
}

func Info(format string, v ...any) {
	current().Infof(format, v...)
}

func Warn(format string, v ...any) {
	current().Warnf(format, v...)
}

func Error(format string, v ...any) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...any) {
	current().Debugf(format, v...)
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	current().Errorf("%s", err)
	return err
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}

// StdLogger adapts the internal logger for APIs that take a *log.Logger.
func StdLogger() *log.Logger {
	return zap.NewStdLog(Zap())
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs an info message with context, including request ID if present.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	current().Infow(msg, withRequestID(ctx, fields)...)
}

// WarnCtx logs a warning message with context, including request ID if present.
func WarnCtx(ctx context.Context, msg string, fields ...any) {
	current().Warnw(msg, withRequestID(ctx, fields)...)
}

// ErrorCtx logs an error message with context, including request ID if present.
func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	current().Errorw(msg, withRequestID(ctx, fields)...)
}

// DebugCtx logs a debug message with context, including request ID if present.
func DebugCtx(ctx context.Context, msg string, fields ...any) {
	current().Debugw(msg, withRequestID(ctx, fields)...)
}
