// Package log is the process-wide structured logger. It wraps
// go.uber.org/zap behind the small leveled-Helper calling convention the
// rest of this codebase uses (Infof/Errorf/Debugf/Warnf, structured
// Errorw/Infow, Context-scoped helpers for per-connection correlation).
package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yourusername/relay/internal/constants"
)

type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// DefaultMessageKey is the structured-log key used for the human message
// in Errorw/Infow/Warnw calls, matching the teacher's convention.
const DefaultMessageKey = "msg"

// Logger is the minimal sink every Helper writes through.
type Logger interface {
	Log(level Level, keyvals ...any)
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Log(level Level, keyvals ...any) {
	fields := make([]zap.Field, 0, len(keyvals)/2)
	var msg string
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		if key == DefaultMessageKey {
			msg, _ = keyvals[i+1].(string)
			continue
		}
		fields = append(fields, zap.Any(key, keyvals[i+1]))
	}

	switch level {
	case LevelDebug:
		l.z.Debug(msg, fields...)
	case LevelWarn:
		l.z.Warn(msg, fields...)
	case LevelError:
		l.z.Error(msg, fields...)
	default:
		l.z.Info(msg, fields...)
	}
}

// Options configures NewZapLogger.
type Options struct {
	Level      string
	Path       string
	Caller     bool
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// NewZapLogger builds a Logger from Options. When Path is empty, output
// goes to stderr; otherwise it rotates through lumberjack the same way
// the teacher rotates its access log.
func NewZapLogger(o Options) Logger {
	var ws zapcore.WriteSyncer
	if o.Path == "" {
		ws = zapcore.AddSync(os.Stderr)
	} else {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.Path,
			MaxSize:    orDefault(o.MaxSize, 100),
			MaxAge:     orDefault(o.MaxAge, 7),
			MaxBackups: orDefault(o.MaxBackups, 3),
			Compress:   o.Compress,
			LocalTime:  true,
		})
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), ws, parseLevel(o.Level))

	opts := []zap.Option{zap.Fields(zap.String("app", constants.AppName), zap.Int("pid", os.Getpid()))}
	if o.Caller {
		opts = append(opts, zap.AddCaller())
	}

	return &zapLogger{z: zap.New(core, opts...)}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, d int) int {
	if v <= 0 {
		return d
	}
	return v
}

var (
	defaultLogger Logger = &zapLogger{z: zap.NewNop()}
	defaultLevel  Level  = LevelInfo
)

// SetLogger installs the process-wide default logger.
func SetLogger(l Logger) { defaultLogger = l }

// GetLogger returns the process-wide default logger.
func GetLogger() Logger { return defaultLogger }

// With returns a Logger that prefixes every log line with keyvals,
// matching the teacher's `log.With(log.DefaultLogger, "ts", ..., "pid", ...)`
// call shape used at startup.
func With(l Logger, keyvals ...any) Logger {
	return &withLogger{base: l, keyvals: keyvals}
}

type withLogger struct {
	base    Logger
	keyvals []any
}

func (l *withLogger) Log(level Level, keyvals ...any) {
	l.base.Log(level, append(append([]any{}, l.keyvals...), keyvals...)...)
}

// Enabled reports whether level is at or above LevelInfo, the package's
// fixed threshold. It does not consult the level of the logger installed
// with SetLogger.
func Enabled(level Level) bool { return level >= defaultLevel }

// requestIDKey scopes a per-connection request ID onto a context so
// Context(ctx) can attach it to every log line for that connection.
type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Context returns a Helper that tags every line with the request ID
// carried on ctx, if any.
func Context(ctx context.Context) *Helper {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return NewHelper(With(defaultLogger, constants.ProtocolRequestIDKey, id))
	}
	return NewHelper(defaultLogger)
}
