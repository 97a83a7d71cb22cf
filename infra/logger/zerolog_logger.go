package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog. Each instance carries
// its own level, so components can be tuned without touching the global
// zerolog level.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger from the configuration installed
// by Setup. All logs include the provided component field.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	cfg, w := current, output
	mu.RUnlock()
	return NewWithConfig(component, cfg, w)
}

// NewWithConfig builds a logger for component writing to w with the level
// and format of cfg. Unset fields take their defaults and an unknown level
// falls back to info.
func NewWithConfig(component string, cfg Config, w io.Writer) *ZerologLogger {
	cfg.SetDefaults()
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

// Level reports the minimum level this logger writes.
func (l *ZerologLogger) Level() string { return l.log.GetLevel().String() }

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
