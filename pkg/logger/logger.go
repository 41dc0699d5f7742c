package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger

// Setup installs the default logger. Production gets JSON on stdout,
// everything else the text handler.
func Setup(env string) {
	SetupWriter(env, os.Stdout)
}

func SetupWriter(env string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}
