package fnlog

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// Logger is a named handle onto the process-wide pipeline. Handles are
// registered by name and reused: calling New twice with the same name returns
// the same handle, matching the warm-instance lifecycle of a function.
type Logger struct {
	name    string
	level   LogLevel
	payload *structpb.Struct
}

type loggerOptions struct {
	level    LogLevel
	levelSet bool
}

// Option is a functional option for the New method.
type Option func(*loggerOptions)

// WithDebug lowers the handle's minimum level to DEBUG. Without it the
// minimum is INFO.
func WithDebug() Option {
	return func(o *loggerOptions) {
		o.level = LevelDebug
		o.levelSet = true
	}
}

// WithLevel sets the handle's minimum level explicitly. Unknown values are
// coerced to INFO.
func WithLevel(level LogLevel) Option {
	return func(o *loggerOptions) {
		o.level = level.coerce()
		o.levelSet = true
	}
}

// New returns the logger registered under name, creating it on first use.
//
// The first call in the process also wires up the pipeline: exactly one sink
// is attached no matter how many times New runs, the client libraries' own
// diagnostics are capped at WARNING, and the stdlib default logger is captured
// so nothing emits beside the sink. New never fails; without a usable cloud
// environment the records simply stay local.
func New(name string, opts ...Option) *Logger {
	if name == "" {
		name = "default"
	}
	o := loggerOptions{level: LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}
	mu.Lock()
	defer mu.Unlock()
	setupLocked()
	if l, ok := registry[name]; ok {
		if o.levelSet {
			l.level = o.level
		}
		return l
	}
	l := &Logger{name: name, level: o.level}
	registry[name] = l
	return l
}

// Name returns the name the handle is registered under.
func (l *Logger) Name() string { return l.name }

// Level returns the handle's minimum logging level.
func (l *Logger) Level() LogLevel { return l.level }

// SetLevel sets the minimum logging level.
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level.coerce()
}

// WithData returns a copy of the handle whose records carry the given fields
// as a structured payload. Fields that cannot be represented as JSON values
// are dropped rather than failing the call site.
func (l *Logger) WithData(data map[string]interface{}) *Logger {
	payload, err := structpb.NewStruct(data)
	if err != nil {
		payload = nil
	}
	c := *l
	c.payload = payload
	return &c
}

func (l *Logger) output(ctx context.Context, level LogLevel, msg string) {
	s, withSource := pipeline()
	e := &entry{Message: msg, Level: level, Component: l.name, Payload: l.payload, Ctx: ctx}
	if withSource {
		if pc, file, line, ok := runtime.Caller(2); ok {
			loc := &logEntrySourceLocation{File: file, Line: strconv.Itoa(line)}
			if fn := runtime.FuncForPC(pc); fn != nil {
				loc.Function = fn.Name()
			}
			e.SourceLocation = loc
		}
	}
	s.emit(e)
}

// Debug logs a Debug level log.
func (l *Logger) Debug(ctx context.Context, msg string) {
	if l.level <= LevelDebug {
		l.output(ctx, LevelDebug, msg)
	}
}

// Debugf logs a Debug level log in the manner of fmt.Sprintf.
func (l *Logger) Debugf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelDebug {
		l.output(ctx, LevelDebug, fmt.Sprintf(format, a...))
	}
}

// Info logs an Info level log.
func (l *Logger) Info(ctx context.Context, msg string) {
	if l.level <= LevelInfo {
		l.output(ctx, LevelInfo, msg)
	}
}

// Infof logs an Info level log in the manner of fmt.Sprintf.
func (l *Logger) Infof(ctx context.Context, format string, a ...any) {
	if l.level <= LevelInfo {
		l.output(ctx, LevelInfo, fmt.Sprintf(format, a...))
	}
}

// Notice logs a Notice level log.
func (l *Logger) Notice(ctx context.Context, msg string) {
	if l.level <= LevelNotice {
		l.output(ctx, LevelNotice, msg)
	}
}

// Noticef logs a Notice level log in the manner of fmt.Sprintf.
func (l *Logger) Noticef(ctx context.Context, format string, a ...any) {
	if l.level <= LevelNotice {
		l.output(ctx, LevelNotice, fmt.Sprintf(format, a...))
	}
}

// Warn logs a Warning level log.
func (l *Logger) Warn(ctx context.Context, msg string) {
	if l.level <= LevelWarning {
		l.output(ctx, LevelWarning, msg)
	}
}

// Warnf logs a Warning level log in the manner of fmt.Sprintf.
func (l *Logger) Warnf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelWarning {
		l.output(ctx, LevelWarning, fmt.Sprintf(format, a...))
	}
}

// Error logs an Error level log.
func (l *Logger) Error(ctx context.Context, msg string) {
	if l.level <= LevelError {
		l.output(ctx, LevelError, msg)
	}
}

// Errorf logs an Error level log in the manner of fmt.Sprintf.
func (l *Logger) Errorf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelError {
		l.output(ctx, LevelError, fmt.Sprintf(format, a...))
	}
}

// Critical logs a Critical level log.
func (l *Logger) Critical(ctx context.Context, msg string) {
	if l.level <= LevelCritical {
		l.output(ctx, LevelCritical, msg)
	}
}

// Criticalf logs a Critical level log in the manner of fmt.Sprintf.
func (l *Logger) Criticalf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelCritical {
		l.output(ctx, LevelCritical, fmt.Sprintf(format, a...))
	}
}

// Alert logs an Alert level log.
func (l *Logger) Alert(ctx context.Context, msg string) {
	if l.level <= LevelAlert {
		l.output(ctx, LevelAlert, msg)
	}
}

// Alertf logs an Alert level log in the manner of fmt.Sprintf.
func (l *Logger) Alertf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelAlert {
		l.output(ctx, LevelAlert, fmt.Sprintf(format, a...))
	}
}

// Emergency logs an Emergency level log.
func (l *Logger) Emergency(ctx context.Context, msg string) {
	if l.level <= LevelEmergency {
		l.output(ctx, LevelEmergency, msg)
	}
}

// Emergencyf logs an Emergency level log in the manner of fmt.Sprintf.
func (l *Logger) Emergencyf(ctx context.Context, format string, a ...any) {
	if l.level <= LevelEmergency {
		l.output(ctx, LevelEmergency, fmt.Sprintf(format, a...))
	}
}
