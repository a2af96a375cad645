// Package logger wires zap behind a logr.Logger and carries it through
// context.Context for the flightform CLI, form and dataset loader.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/flightform/pkg/settings"
)

type loggerContextKey struct{}

// Structured field names shared by every component.
const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	ComponentKey   = "component"
	SourceKey      = "source"
	ElementKey     = "element"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
)

var (
	once sync.Once

	// globalZapLogger backs Sync(); package-private so callers go through logr.
	globalZapLogger *zap.Logger

	globalLogrLogger *logr.Logger

	defaultNoopLogger logr.Logger = logr.Discard()
)

// Get initializes the global logger on first use and returns it. Later calls
// ignore logLevel. Negative levels enable debug output (zap.DebugLevel == -1).
func Get(logLevel int8) *logr.Logger {
	once.Do(func() {
		zl := newZap(logLevel, os.Stderr)
		globalZapLogger = zl
		gl := zapr.NewLogger(zl)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// New builds a standalone JSON logger writing to w. It does not touch the
// global logger and is mainly used by tests that need to inspect output.
func New(logLevel int8, w io.Writer) *logr.Logger {
	l := zapr.NewLogger(newZap(logLevel, zapcore.AddSync(w)))
	return &l
}

func newZap(logLevel int8, sink zapcore.WriteSyncer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		goVersion = info.GoVersion
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(sink),
		zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
	).With([]zapcore.Field{
		zap.String(CommitKey, settings.VersionInformation.Commit),
		zap.String(VersionKey, settings.VersionInformation.BuildVersion),
		zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
		zap.String(GoVersionKey, goVersion),
	})

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
}

// WithLogger attaches log to ctx. The original context is returned when it
// already carries the same logger.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger stored in ctx, falling back to the global
// logger and finally to a no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
			return log
		}
	}
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// Sync flushes buffered entries. Call it once before the process exits.
func Sync() {
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
	}
}

// isIgnorableSyncError reports Sync errors that pipes and TTYs routinely
// return. Windows consoles wrap ERROR_INVALID_HANDLE in *os.PathError, which
// only shows up in the message.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetNoopLogger returns the shared discard logger.
func GetNoopLogger() *logr.Logger {
	return &defaultNoopLogger
}

// WithValues returns a copy of lgr carrying keysAndValues.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}

// ForComponent is shorthand for WithValues(FromContext(ctx), ComponentKey, name).
func ForComponent(ctx context.Context, name string) *logr.Logger {
	return WithValues(FromContext(ctx), ComponentKey, name)
}
