// Package logger provides a global, sugared Zap logger with context-scoped
// fields and an optional OpenTelemetry bridge. Every call takes a context:
// fields added with Derive, and the active trace and span ids, are attached
// to the entry.
package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/gabapcia/catapultcli/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const instrumentationName = "github.com/gabapcia/catapultcli"

type ctxKeyType struct{}

var ctxKey ctxKeyType

var (
	// baseLogger is the root logger built by Init.
	baseLogger *zap.SugaredLogger

	initBaseLoggerOnce sync.Once
)

// Format selects the encoder of the primary log core.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

type config struct {
	format Format
	output io.Writer
}

// Option configures Init.
type Option func(*config)

// WithFormat selects JSON (default) or human readable console output.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithOutput redirects log output. Logs go to stderr by default so stdout
// stays free for command results.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// Init builds the global logger at the given level ("debug", "info", "warn",
// "error", ...). When telemetry has registered a log provider, entries are
// also forwarded to it. Only the first successful call has any effect.
func Init(level string, opts ...Option) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := config{format: FormatJSON, output: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	initBaseLoggerOnce.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if cfg.format == FormatConsole {
			encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(encoderCfg)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		}

		cores := []zapcore.Core{
			zapcore.NewCore(encoder, zapcore.AddSync(cfg.output), lvl),
		}

		if lp := telemetry.LoggerProvider(); lp != nil {
			cores = append(cores, otelzap.NewCore(instrumentationName, otelzap.WithLoggerProvider(lp)))
		}

		baseLogger = zap.New(zapcore.NewTee(cores...)).Sugar()
	})

	return nil
}

// Sync flushes buffered entries. Call it before the process exits. Entries
// logged before Init are discarded.
func Sync() error {
	return baseLogger.Sync()
}

// Derive returns a copy of ctx whose logger carries keysAndValues on every
// subsequent entry.
func Derive(ctx context.Context, keysAndValues ...any) context.Context {
	return context.WithValue(ctx, ctxKey, deriveFromCtx(ctx, keysAndValues...))
}

func deriveFromCtx(ctx context.Context, keysAndValues ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey).(*zap.SugaredLogger)
	if !ok {
		l = baseLogger
	}
	if l == nil {
		l = zap.NewNop().Sugar()
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}

	if len(keysAndValues) > 0 {
		l = l.With(keysAndValues...)
	}
	return l
}

func log(ctx context.Context, level zapcore.Level, msg string, keysAndValues ...any) {
	deriveFromCtx(ctx).Logw(level, msg, keysAndValues...)
}

func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.DebugLevel, msg, keysAndValues...)
}

func Info(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.InfoLevel, msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.WarnLevel, msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.ErrorLevel, msg, keysAndValues...)
}

// Panic logs and then panics.
func Panic(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.PanicLevel, msg, keysAndValues...)
}

// Fatal logs and then exits with status 1.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.FatalLevel, msg, keysAndValues...)
}
