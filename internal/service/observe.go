package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/insumos/internal/metrics"
)

// observe runs fn as the named operation, logging its outcome and duration and
// recording it in rec. attrs are extra slog key/value pairs.
func observe(rec *metrics.Recorder, op string, fn func() error, attrs ...any) error {
	start := time.Now()

	err := fn()

	elapsed := time.Since(start)
	rec.Observe(op, err, elapsed)

	args := append([]any{"operation", op, "duration_ms", elapsed.Milliseconds()}, attrs...)
	if err != nil {
		var wtErr *WriteThroughError
		switch {
		case errors.Is(err, ErrNotFound):
			slog.Warn("Operation rejected", append(args, "error", err)...)
		case errors.As(err, &wtErr):
			slog.Error("Write-through failed", append(args, "replica", wtErr.Replica, "error", err)...)
		default:
			slog.Error("Operation failed", append(args, "error", err)...)
		}
	} else {
		slog.Info("Operation ok", args...)
	}

	return err
}
