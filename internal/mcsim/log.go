package mcsim

import (
	"io"
	"log/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Logger returns the engine's debug logger. It discards by default.
func Logger() *slog.Logger { return logger }

// SetLogger replaces the engine logger; nil restores the discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = l
}
