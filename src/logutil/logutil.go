package logutil

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName   = "screen_answer_debug.log"
	maxSizeMB     = 10
	maxArchives   = 3
	maxArchiveAge = 28
)

// Options selects where log output goes.
type Options struct {
	EnableFileLogging bool
	// Dir holds the log file; empty means the working directory.
	Dir     string
	Verbose bool
	Console io.Writer
}

var fileSink *lumberjack.Logger

// Setup installs the process-wide slog default. File logging rotates at 10MB
// keeping 3 archives. With neither file logging nor verbose output, logs are
// discarded so stdout stays clean.
func Setup(opts Options) {
	var handlers []slog.Handler

	if opts.EnableFileLogging {
		if opts.Dir != "" {
			if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
			}
		}
		fileSink = &lumberjack.Logger{
			Filename:   LogPath(opts.Dir),
			MaxSize:    maxSizeMB,
			MaxBackups: maxArchives,
			MaxAge:     maxArchiveAge,
		}
		handlers = append(handlers, slog.NewTextHandler(fileSink, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}

	if opts.Verbose {
		w := opts.Console
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, &ConsoleHandler{writer: w})
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = slog.NewTextHandler(io.Discard, nil)
	case 1:
		h = handlers[0]
	default:
		h = fanout(handlers)
	}

	slog.SetDefault(slog.New(h))
	log.SetFlags(0)
}

// Close flushes and closes the log file, if any.
func Close() {
	if fileSink != nil {
		if err := fileSink.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to close log file: %v\n", err)
		}
		fileSink = nil
	}
}

// LogPath returns the log file location for dir.
func LogPath(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, logFileName)
}

// RedactKey masks an API key, leaving first/last 4 chars: xxxx...yyyy
func RedactKey(k string) string {
	if len(k) <= 8 {
		return "********"
	}
	return fmt.Sprintf("%s...%s", k[:4], k[len(k)-4:])
}

// Truncate shortens s to maxLen bytes for log lines.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Sanitize makes text safe for a single log line.
func Sanitize(text string) string {
	const maxLogLength = 100
	text = Truncate(text, maxLogLength)

	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteString("\\n")
		case r == '\t':
			b.WriteString("\\t")
		case r < 32 || r == 127:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ConsoleHandler writes colored, timestamp-free lines.
type ConsoleHandler struct {
	writer io.Writer
	attrs  []slog.Attr
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	var c *color.Color

	switch {
	case r.Level >= slog.LevelError:
		prefix = "ERROR: "
		c = color.New(color.FgRed)
	case r.Level >= slog.LevelWarn:
		prefix = "WARNING: "
		c = color.New(color.FgYellow)
	case r.Level < slog.LevelInfo:
		prefix = "DEBUG: "
		c = color.New(color.FgCyan)
	}

	msg := r.Message
	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})
	if len(parts) > 0 {
		msg = msg + " " + strings.Join(parts, " ")
	}

	if c != nil {
		_, _ = c.Fprintf(h.writer, "%s%s\n", prefix, msg)
		return nil
	}
	_, _ = fmt.Fprintf(h.writer, "%s\n", msg)
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &ConsoleHandler{writer: h.writer, attrs: merged}
}

// Groups are flattened on the console.
func (h *ConsoleHandler) WithGroup(string) slog.Handler { return h }

type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
