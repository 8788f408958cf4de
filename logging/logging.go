package logging

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Init sets the default slog logger. format is "text" or "json"; logs go to stderr.
func Init(level, format string) error {
	var lvl slog.Level
	if level == "" {
		level = "info"
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	slog.SetDefault(slog.New(handler))

	// Standard log output (gin debug prints, net/http) lands on the same stream
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)

	return nil
}
