package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// splitHandler sends records below ERROR to out and the rest to errOut.
// Records below min are dropped.
type splitHandler struct {
	min    slog.Leveler
	out    slog.Handler
	errOut slog.Handler
}

func (h *splitHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min.Level()
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.errOut.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{min: h.min, out: h.out.WithAttrs(attrs), errOut: h.errOut.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{min: h.min, out: h.out.WithGroup(name), errOut: h.errOut.WithGroup(name)}
}

// NewHandler returns a text handler writing records from min up to WARN to
// out and ERROR+ to errOut.
func NewHandler(out, errOut io.Writer, min slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: min}
	return &splitHandler{
		min:    min,
		out:    slog.NewTextHandler(out, opts),
		errOut: slog.NewTextHandler(errOut, opts),
	}
}

// Setup installs the default logger. Below ERROR goes to stdout, ERROR+ to
// stderr, and every record also to the file at logPath when it is set. The
// returned cleanup closes that file and is nil without one.
func Setup(logPath string, min slog.Leveler) (func(), error) {
	var cleanup func()
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		out = io.MultiWriter(os.Stdout, f)
		errOut = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(NewHandler(out, errOut, min)))
	return cleanup, nil
}
