// Package log is the logging surface of the Alma client.
//
// The client only talks to the printf-style Logger interface. StdLogger is the
// built-in implementation, ZerologLogger adapts zerolog.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders messages: Debug < Info < Warn < Error < Off.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = [...]string{"debug", "info", "warn", "error", "off"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelOff {
		return fmt.Sprintf("level(%d)", int32(l))
	}
	return levelNames[l]
}

// ParseLevel reads a level name as used in ALMA_LOG_LEVEL. Matching ignores
// case and "warning" is accepted for warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none", "disabled":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// StdLogger writes "LEVEL: Alma: message" lines through the standard library
// logger. SetLevel is safe to call while other goroutines log.
type StdLogger struct {
	l     *stdlog.Logger
	level atomic.Int32
	tag   string
}

// NewStdLogger writes to w, or stderr when w is nil.
func NewStdLogger(w io.Writer, level Level) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	s := &StdLogger{l: stdlog.New(w, "", stdlog.LstdFlags), tag: "Alma"}
	s.level.Store(int32(level))
	return s
}

// NewDefault is the logger a Client starts with: stderr at LevelInfo.
func NewDefault() *StdLogger {
	return NewStdLogger(os.Stderr, LevelInfo)
}

func (s *StdLogger) SetLevel(level Level) {
	if s != nil {
		s.level.Store(int32(level))
	}
}

func (s *StdLogger) Level() Level {
	if s == nil {
		return LevelOff
	}
	return Level(s.level.Load())
}

// SetTag replaces the "Alma" prefix. Call it before the logger is shared.
func (s *StdLogger) SetTag(tag string) {
	if s != nil {
		s.tag = tag
	}
}

func (s *StdLogger) Debugf(format string, args ...any) { s.logf(LevelDebug, format, args) }
func (s *StdLogger) Infof(format string, args ...any)  { s.logf(LevelInfo, format, args) }
func (s *StdLogger) Warnf(format string, args ...any)  { s.logf(LevelWarn, format, args) }
func (s *StdLogger) Errorf(format string, args ...any) { s.logf(LevelError, format, args) }

func (s *StdLogger) logf(level Level, format string, args []any) {
	if s == nil || level < s.Level() {
		return
	}
	prefix := strings.ToUpper(level.String()) + ": "
	if s.tag != "" {
		prefix += s.tag + ": "
	}
	s.l.Printf(prefix+format, args...)
}

type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
