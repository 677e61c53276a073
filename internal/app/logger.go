package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andyballingall/vsgfix/internal/fs"
)

const (
	LogFile   = ".vsgfix.log"
	LogEnvVar = "VSGFIX_LOG_FILE"
)

// logFilePath returns the log file location: VSGFIX_LOG_FILE if set,
// otherwise .vsgfix.log in dir (or the current directory if dir is empty).
func logFilePath(env fs.EnvProvider, dir string) string {
	if p := env.Get(LogEnvVar); p != "" {
		return p
	}
	if dir == "" {
		return LogFile
	}
	return filepath.Join(dir, LogFile)
}

// setupLogger returns a logger that writes JSON records to the log file and
// short human-readable lines to stderr. If the log file cannot be opened the
// logger still works, console only, and the error is returned alongside it.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, dir string, env fs.EnvProvider) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{w: stderr, level: logLevel}

	f, err := os.OpenFile(logFilePath(env, dir), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	// The file always gets full debug output.
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(&multiHandler{handlers: []slog.Handler{file, console}}), f, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *multiHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = fn(h)
	}
	return &multiHandler{handlers: hs}
}

// consoleHandler prints the message with a Warning or Error prefix. Errors
// are appended to the message; other attributes only appear at debug level.
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "Warning: %s", record.Message)
	default:
		fmt.Fprint(c.w, record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	fmt.Fprintln(c.w)
	return nil
}

func (c *consoleHandler) formatAttr(a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(c.w, ": %v", a.Value)
	case c.level.Level() <= slog.LevelDebug:
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	merged = append(merged, c.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{w: c.w, level: c.level, attrs: merged}
}

// WithGroup is a no-op: console lines are flat.
func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
