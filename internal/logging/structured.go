// Package logging provides structured JSON logging for hbnb components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339
}

// Logger provides component-scoped structured logging
type Logger struct {
	component string
	session   string
	out       io.Writer
	level     zerolog.Level
	zl        zerolog.Logger
}

// New creates a logger for a component writing to stderr at warn level.
func New(component string) *Logger {
	return NewWithWriter(component, os.Stderr, LevelWarn)
}

// NewWithWriter creates a logger writing JSON lines to w, dropping events
// below level.
func NewWithWriter(component string, w io.Writer, level Level) *Logger {
	return build(component, "", w, parseLevel(level))
}

func build(component, session string, w io.Writer, level zerolog.Level) *Logger {
	ctx := zerolog.New(w).Level(level).With().Timestamp().Str("component", component)
	if session != "" {
		ctx = ctx.Str("session", session)
	}
	return &Logger{
		component: component,
		session:   session,
		out:       w,
		level:     level,
		zl:        ctx.Logger(),
	}
}

// Component returns a logger for another component sharing the same sink.
func (l *Logger) Component(component string) *Logger {
	return build(component, l.session, l.out, l.level)
}

// WithSession tags every event with a console session id
func (l *Logger) WithSession(session string) *Logger {
	return build(l.component, session, l.out, l.level)
}

func (l *Logger) log(e *zerolog.Event, event string, extra map[string]interface{}, err error) {
	if e == nil {
		return
	}
	e = e.Str("event", event)
	if len(extra) > 0 {
		e = e.Fields(extra)
	}
	if err != nil {
		e = e.Str("error", err.Error())
	}
	e.Send()
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(l.zl.Debug(), event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(l.zl.Info(), event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(l.zl.Warn(), event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(l.zl.Error(), event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	e := l.zl.Debug()
	if e == nil {
		return
	}
	e = e.Int64("duration_ms", time.Since(start).Milliseconds())
	l.log(e, event, extra, nil)
}

// ParseLevel maps a level name to a Level, defaulting to warn.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s)
	}
	return LevelWarn
}

func parseLevel(level Level) zerolog.Level {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
