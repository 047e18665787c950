// Package logger builds the slog logger that records command executions.
//
// Logs default to stderr. When stdout carries a protocol stream (the
// stdio MCP transport), ReserveStdout keeps log lines off it.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/deixis/myterminal/internal/config"
)

// Option adjusts how New resolves the log output.
type Option func(*options)

type options struct {
	stdoutReserved bool
}

// ReserveStdout redirects a configured "stdout" output to stderr.
func ReserveStdout() Option {
	return func(o *options) {
		o.stdoutReserved = true
	}
}

// New returns a logger for cfg and a func that closes its output file.
func New(cfg config.LogConfig, opts ...Option) (*slog.Logger, func() error, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	target := strings.ToLower(cfg.Output)
	if target == "stdout" && o.stdoutReserved {
		target = "stderr"
	}

	w, closeFn, err := open(target, cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log output %s: %w", cfg.Output, err)
	}
	return slog.New(handler(w, cfg)), closeFn, nil
}

func handler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: level(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// level maps a config level name; unknown names log at info.
func level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// open resolves a lower-cased target; anything but the two std streams
// is a file path, opened for append.
func open(target, path string) (io.Writer, func() error, error) {
	nop := func() error { return nil }
	switch target {
	case "", "stderr":
		return os.Stderr, nop, nil
	case "stdout":
		return os.Stdout, nop, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
