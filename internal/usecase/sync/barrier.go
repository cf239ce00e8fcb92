package sync

import (
	"context"
	"time"

	"github.com/tradeforge/listsync/internal/infra/metrics"
	"github.com/tradeforge/listsync/internal/pkg/backoff"
)

// waitForStableCount returns once two consecutive polls of the remote
// listing count agree. Remote writes are not durable at the instant the
// write call returns, so the count keeps moving for a while after heavy
// traffic; each observed change backs the poll interval off further.
func (r *Reconciler) waitForStableCount(ctx context.Context) error {
	min, max := r.StabilizePollMin, r.StabilizePollMax
	if min <= 0 {
		min = time.Second
	}
	if max <= 0 {
		max = 30 * time.Second
	}
	bo := &backoff.Backoff{Min: min, Max: max}

	prev := -1
	polled := false
	for {
		n, err := r.Client.Count(ctx)
		if err != nil {
			r.log().Warn("listing count poll failed", "err", err)
		} else {
			metrics.RemoteListings.Set(float64(n))
			if polled && n == prev {
				return nil
			}
			prev = n
			polled = true
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.Next()):
		}
	}
}
