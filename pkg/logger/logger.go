// Package logger arma el zerolog del proceso: consola legible en development, JSON en el
// resto, y el nombre del servicio en cada línea para separar api y seed_master en el agregador.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string    // development -> consola legible; otro -> JSON
	Level   string    // debug, info, warn, error (default info)
	Service string    // se estampa como campo "service"
	Out     io.Writer // default os.Stdout
}

// Logger proceso principal; los casos de uso reciben Zerolog().
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger y lo deja como global de zerolog para las librerías que lo usen.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

// ParseLevel acepta los niveles de zerolog; vacío o desconocido es info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog logger para inyectar en Deps.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
