package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// newLogger returns a severity-colored text logger on w. Color is used only
// when w is a terminal and noColor is false.
func newLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		noColor = true
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}
