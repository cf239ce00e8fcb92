package sync

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/pricelist"
	"github.com/tradeforge/listsync/internal/infra/metrics"
)

const defaultThrottle = 200 * time.Millisecond

// ReconcileAll sweeps every price-list entry. With throttled=true a fixed
// delay separates items (operator-triggered slow sweeps); otherwise the
// sweep proceeds back to back. A sweep requested while a removal is in
// flight is queued behind it; a sweep requested while one is already
// running is absorbed. Per-key failures never abort the sweep.
func (r *Reconciler) ReconcileAll(ctx context.Context, throttled bool) error {
	if !r.State.BeginSweep(func() {
		_ = r.ReconcileAll(context.WithoutCancel(ctx), throttled)
	}) {
		return nil
	}
	defer r.State.EndSweep()

	entries, err := r.Prices.AllEntries(ctx)
	if err != nil {
		return err
	}
	ordered := r.orderEntries(ctx, entries)

	outcome := "finished"
	for i := range ordered {
		// cancellation is checked only at iteration boundaries; a cancelled
		// sweep resolves as if finished
		if r.State.CancelRequested() || ctx.Err() != nil {
			outcome = "cancelled"
			break
		}
		e := ordered[i]
		if err := r.ReconcileSKU(ctx, e.SKU, &e); err != nil {
			r.log().Warn("sweep: reconcile failed", "sku", e.SKU, "err", err)
		}
		if throttled {
			select {
			case <-ctx.Done():
			case <-time.After(r.throttleDelay()):
			}
		}
	}
	metrics.Sweeps.WithLabelValues(outcome).Inc()
	r.log().Info("sweep done", "entries", len(ordered), "outcome", outcome, "throttled", throttled)
	return nil
}

func (r *Reconciler) throttleDelay() time.Duration {
	if r.ThrottleDelay > 0 {
		return r.ThrottleDelay
	}
	return defaultThrottle
}

// orderEntries pre-filters (when affordability filtering is on: keep only
// entries affordable to buy or already held) and sorts so that the most
// valuable work lands first — held amount descending, then buy price in
// metal descending. If the sweep is cancelled midway, whatever was skipped
// is the cheapest unheld tail.
func (r *Reconciler) orderEntries(ctx context.Context, entries []pricelist.Entry) []pricelist.Entry {
	rate, err := r.Prices.KeyRate(ctx)
	if err != nil {
		r.log().Warn("key rate unavailable, ordering by held only", "err", err)
	}

	type ranked struct {
		e     pricelist.Entry
		held  int
		value decimal.Decimal
	}
	rs := make([]ranked, 0, len(entries))
	for _, e := range entries {
		held, err := r.Inv.HeldAmount(ctx, e.SKU)
		if err != nil {
			r.log().Warn("held amount unavailable", "sku", e.SKU, "err", err)
		}
		if r.FilterUnaffordable && held == 0 && e.WantsBuy() {
			afford, err := r.Inv.CanAfford(ctx, e.Buy)
			if err == nil && !afford {
				continue
			}
		}
		rs = append(rs, ranked{e: e, held: held, value: e.Buy.InMetal(rate)})
	}

	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].held != rs[j].held {
			return rs[i].held > rs[j].held
		}
		return rs[i].value.GreaterThan(rs[j].value)
	})

	out := make([]pricelist.Entry, len(rs))
	for i, x := range rs {
		out[i] = x.e
	}
	return out
}
