package cliconfig

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/fluffware/modbusaudio/pkg/log"
)

// Logger returns the console logger used by the command, filtered to level.
// An unparsable level falls back to info.
func Logger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return log.NewConsoleLogger(w).Level(lvl)
}
