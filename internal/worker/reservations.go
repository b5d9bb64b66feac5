package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

const defaultInterval = 10 * time.Minute

type Releaser interface {
	ReleaseStale(ctx context.Context, cutoff time.Time) (int, error)
}

// ReservationReleaser periodically returns stock held by carts that nobody has
// touched for TTL.
type ReservationReleaser struct {
	Carts    Releaser
	TTL      time.Duration
	Interval time.Duration
	Log      *slog.Logger

	Now func() time.Time
}

func (w *ReservationReleaser) Run(ctx context.Context) {
	l := w.Log.With("worker", "reservation_releaser")
	ctx = logging.IntoContext(ctx, l)

	interval := w.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	l.Info("worker_started", "ttl", w.TTL.String(), "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			l.Info("worker_stopped")
			return
		case <-t.C:
			if _, err := w.Sweep(ctx); err != nil {
				l.Error("reservation_sweep_error", "error", err)
			}
		}
	}
}

func (w *ReservationReleaser) Sweep(ctx context.Context) (int, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	n, err := w.Carts.ReleaseStale(ctx, now().Add(-w.TTL))
	if n > 0 {
		logging.FromContext(ctx).Info("reservation_sweep_done", "carts", n)
	}
	return n, err
}
