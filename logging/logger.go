package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"
)

type traceKey string

// TraceID context key of a build or interaction identifier
const TraceID = traceKey("TraceId")

// Logger represents structured JSON logger
type Logger struct {
	logger *slog.Logger
	level  slog.Level
	caller bool
}

// New creates a structured logger using the JSON Handler
func New(level string, dest io.Writer) *Logger {
	if dest == nil {
		dest = os.Stdout
	}
	logLevel := ParseLevel(level)
	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{
		AddSource: false,
		Level:     logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	})
	return &Logger{logger: slog.New(handler), level: logLevel, caller: true}
}

// Nop returns logger discarding all records
func Nop() *Logger {
	return &Logger{logger: slog.New(slog.NewJSONHandler(io.Discard, nil)), level: slog.LevelError + 1}
}

// ParseLevel converts level name, unknown names default to INFO
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// WithTrace returns context carrying trace id
func WithTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceID, id)
}

func (l *Logger) IsDebugEnabled() bool {
	return l.level <= slog.LevelDebug
}

func (l *Logger) IsInfoEnabled() bool {
	return l.level <= slog.LevelInfo
}

func (l *Logger) IsWarnEnabled() bool {
	return l.level <= slog.LevelWarn
}

func (l *Logger) IsErrorEnabled() bool {
	return l.level <= slog.LevelError
}

// callerInfo extracts calling function details
func (l *Logger) callerInfo() []any {
	if !l.caller {
		return nil
	}
	callers := make([]uintptr, 1)
	count := runtime.Callers(4, callers[:])
	if count == 0 {
		return nil
	}
	frame, _ := runtime.CallersFrames(callers).Next()
	return []any{"function", frame.Function, "file", frame.File, "line", frame.Line}
}

func contextValues(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	if id := ctx.Value(TraceID); id != nil {
		return []any{"traceId", id}
	}
	return nil
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if l == nil || l.level > level {
		return
	}
	attrs := l.callerInfo()
	attrs = append(attrs, contextValues(ctx)...)
	attrs = append(attrs, args...)
	l.logger.Log(context.Background(), level, msg, attrs...)
}

// Debug logs at debug level with caller details
func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args)
}

// Info logs at info level with caller details
func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args)
}

// Warn logs at warn level with caller details
func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args)
}

// Error logs at error level with caller details
func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args)
}

// Debugc logs at debug level with known context values
func (l *Logger) Debugc(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args)
}

// Infoc logs at info level with known context values
func (l *Logger) Infoc(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

// Warnc logs at warn level with known context values
func (l *Logger) Warnc(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args)
}

// Errorc logs at error level with known context values
func (l *Logger) Errorc(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}
