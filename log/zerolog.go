package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerolog wraps l. Every message carries component=alma-client.
func NewZerolog(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l.With().Str("component", "alma-client").Logger()}
}

// SetLevel maps level onto the wrapped zerolog logger.
func (z *ZerologLogger) SetLevel(level Level) {
	if z == nil {
		return
	}
	z.l = z.l.Level(zerologLevel(level))
}

func (z *ZerologLogger) Debugf(format string, args ...any) {
	if z == nil {
		return
	}
	z.l.Debug().Msg(fmt.Sprintf(format, args...))
}

func (z *ZerologLogger) Infof(format string, args ...any) {
	if z == nil {
		return
	}
	z.l.Info().Msg(fmt.Sprintf(format, args...))
}

func (z *ZerologLogger) Warnf(format string, args ...any) {
	if z == nil {
		return
	}
	z.l.Warn().Msg(fmt.Sprintf(format, args...))
}

func (z *ZerologLogger) Errorf(format string, args ...any) {
	if z == nil {
		return
	}
	z.l.Error().Msg(fmt.Sprintf(format, args...))
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}
