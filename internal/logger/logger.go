// Package logger builds the process logger.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a leveled logger writing to stderr. Unknown levels fall back to info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "groove",
	})
}
