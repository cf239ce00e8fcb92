package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tradeforge/listsync/internal/infra/metrics"
	"github.com/tradeforge/listsync/internal/pkg/backoff"
)

// RemoveAll takes every listing off the marketplace. A running sweep is
// asked to cancel at its next iteration boundary; the removal does not wait
// for it. Concurrent callers collapse into one queued follow-up. Whatever
// was queued behind the removal (a deferred sweep, another removal) runs
// once it finishes.
func (r *Reconciler) RemoveAll(ctx context.Context) error {
	if !r.State.BeginRemoval(func() {
		_ = r.RemoveAll(context.WithoutCancel(ctx))
	}) {
		return nil
	}
	r.State.CancelSweep()

	err := r.removeEverything(ctx)
	for _, fn := range r.State.EndRemoval() {
		go fn()
	}
	return err
}

// Redo is the full resync: wipe, then rebuild. It reports success once the
// removal is confirmed and the sweep is scheduled — individual listing
// writes are not awaited.
func (r *Reconciler) Redo(ctx context.Context) error {
	if err := r.RemoveAll(ctx); err != nil {
		return err
	}
	go func() {
		_ = r.ReconcileAll(context.WithoutCancel(ctx), false)
	}()
	return nil
}

// removeEverything retries until the flush sticks or ctx gives up. Removal
// is idempotent on the remote side and its failures are assumed transient,
// so the whole procedure simply restarts on error.
func (r *Reconciler) removeEverything(ctx context.Context) error {
	r.Client.ClearPendingCreates()

	if err := r.waitForStableCount(ctx); err != nil {
		return fmt.Errorf("stabilize: %w", err)
	}

	bo := &backoff.Backoff{Min: time.Second, Max: 30 * time.Second}
	for attempt := 0; ; attempt++ {
		err := r.removeOnce(ctx)
		if err == nil {
			r.log().Info("all listings removed", "attempts", attempt+1)
			return nil
		}
		metrics.RemovalRetries.Inc()
		r.log().Warn("removal failed, retrying", "attempt", attempt+1, "err", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("remove all: %w", ctx.Err())
		case <-time.After(bo.Next()):
		}
	}
}

func (r *Reconciler) removeOnce(ctx context.Context) error {
	all, err := r.Client.All(ctx)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}
	for _, l := range all {
		r.removeListing(ctx, l)
	}
	if err := r.Client.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
