// Package logging builds the pipeline's two log sinks: a detailed file
// sink that captures everything at debug level, and a terse console sink
// that stays out of the way of prompts and progress bars.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLogFile is the detailed debug journal written per invocation.
const DefaultLogFile = "dng_processing_debug.log"

// Setup opens the file sink at path (empty disables it) and returns a
// logger fanning out to both sinks. Every record sent to the file sink
// carries a run_id so interleaved runs can be told apart. The returned
// close function releases the file handle.
func Setup(path string, console io.Writer, verbose bool) (*slog.Logger, func() error, error) {
	consoleLevel := slog.LevelInfo
	if verbose {
		consoleLevel = slog.LevelDebug
	}
	handlers := []slog.Handler{newConsoleHandler(console, consoleLevel)}

	closeFn := func() error { return nil }
	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}).
			WithAttrs([]slog.Attr{slog.String("run_id", uuid.NewString())})
		handlers = append(handlers, fileHandler)
		closeFn = file.Close
	}

	return slog.New(fanout{handlers: handlers}), closeFn, nil
}

// Discard returns a logger that drops everything. Used by tests and as
// the fallback when a component is constructed without a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Measure returns a stop function that logs the elapsed time under label.
func Measure(logger *slog.Logger, label string) func() {
	start := time.Now()
	return func() {
		logger.Debug(label+" finished", slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	}
}

// fanout forwards each record to every handler that is enabled for it.
type fanout struct {
	handlers []slog.Handler
}

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return fanout{handlers: next}
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return fanout{handlers: next}
}

// consoleHandler renders "15:04:05 [LEVEL] message" lines without attrs,
// matching the terse format users see between prompts.
type consoleHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Level
}

func newConsoleHandler(out io.Writer, level slog.Level) slog.Handler {
	return consoleHandler{mu: &sync.Mutex{}, out: out, level: level}
}

func (h consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h consoleHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s [%s] %s\n",
		record.Time.Format("15:04:05"), record.Level, record.Message)
	return err
}

func (h consoleHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h consoleHandler) WithGroup(string) slog.Handler { return h }
