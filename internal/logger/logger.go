// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arloliu/telepack/errs"
)

const consoleTimeFormat = "15:04:05.000"

// New constructs a logger writing to the given writers, or to stderr when
// none are given. The "console" format renders human readable lines; any
// other format, including "", emits JSON.
func New(format, level string, writers ...io.Writer) (zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var output io.Writer = os.Stderr
	if len(writers) > 0 {
		output = io.MultiWriter(writers...)
	}

	if strings.EqualFold(format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: consoleTimeFormat, NoColor: len(writers) > 0}
	}

	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

func parseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zerolog.InfoLevel, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level %q", errs.ErrInvalidConfig, level)
	}

	return lvl, nil
}
