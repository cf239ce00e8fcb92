// Package sync reconciles desired listing state (price list + inventory)
// against the remote marketplace. It owns no state of its own beyond the
// per-account flags in State; every pass recomputes from scratch, which is
// what lets a failed or dropped write heal on the next pass.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/inventory"
	"github.com/tradeforge/listsync/internal/domain/listings"
	"github.com/tradeforge/listsync/internal/domain/pricelist"
	"github.com/tradeforge/listsync/internal/infra/metrics"
	"github.com/tradeforge/listsync/internal/pkg/sku"
	"github.com/tradeforge/listsync/internal/usecase/describe"
)

type Reconciler struct {
	Prices pricelist.Provider
	Inv    inventory.Provider
	Client listings.Client
	Detail *describe.Formatter
	State  *State
	Logger *slog.Logger

	// FilterUnaffordable suppresses buy listings the wallet cannot cover and
	// pre-filters bulk sweeps accordingly.
	FilterUnaffordable bool
	// ThrottleDelay is the inter-item delay for throttled sweeps. 0 = 200ms.
	ThrottleDelay time.Duration
	// StabilizePollMin/Max bound the stabilization barrier's poll backoff.
	StabilizePollMin time.Duration
	StabilizePollMax time.Duration
}

func (r *Reconciler) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ReconcileSKU makes every remote listing for one SKU match desired state.
// The hint entry is advisory only: the provider is re-read before acting and
// again before creating, so a trigger racing a price-list edit cannot leave
// a stale listing behind.
func (r *Reconciler) ReconcileSKU(ctx context.Context, skuKey string, _ *pricelist.Entry) error {
	tgt, err := r.resolveTarget(ctx, skuKey)
	if err != nil {
		return err
	}

	found, err := r.Client.FindBySKU(ctx, skuKey)
	if err != nil {
		return fmt.Errorf("find listings %s: %w", skuKey, err)
	}

	seenBuy, seenSell := false, false
	seenInstance := make(map[string]bool)

	// All removals and updates for the key are issued before any create.
	for _, l := range found {
		if l.Intent == listings.IntentSell {
			if seenInstance[l.InstanceID] {
				// second sell listing for one physical item: first seen wins
				r.removeListing(ctx, l)
				continue
			}
			seenInstance[l.InstanceID] = true
		}

		if reason := removalReason(tgt, l, r.FilterUnaffordable); reason != "" {
			r.log().Debug("removing listing", "sku", skuKey, "id", l.ID, "reason", reason)
			r.removeListing(ctx, l)
			continue
		}

		if l.Intent == listings.IntentBuy {
			seenBuy = true
		} else {
			seenSell = true
		}

		price, details := r.desired(ctx, tgt, l.Intent, l.InstanceID)
		if !price.Equal(l.Price) || details != l.Details {
			ts := tgt.entry.Updated
			if ts.IsZero() {
				ts = time.Now()
			}
			spec := listings.Spec{
				SKU:        skuKey,
				Intent:     l.Intent,
				InstanceID: l.InstanceID,
				Price:      price,
				Details:    details,
				Promoted:   tgt.entry.Promoted,
				ListedAt:   ts,
			}
			if err := r.Client.Update(ctx, l.ID, spec); err != nil {
				r.log().Warn("update not queued", "sku", skuKey, "id", l.ID, "err", err)
			} else {
				metrics.ListingWrites.WithLabelValues("update").Inc()
			}
		}
	}

	// Re-read before creating: the entry may have changed underneath us.
	tgt, err = r.resolveTarget(ctx, skuKey)
	if err != nil || tgt == nil {
		return err
	}
	e := tgt.entry

	if !seenBuy && e.WantsBuy() && tgt.canBuy > 0 &&
		(tgt.affordable || !r.FilterUnaffordable) && !sku.SpecificVariant(skuKey) {
		price, details := r.desired(ctx, tgt, listings.IntentBuy, "")
		r.createListing(ctx, listings.Spec{
			SKU:      skuKey,
			Intent:   listings.IntentBuy,
			Price:    price,
			Details:  details,
			Promoted: e.Promoted,
			ListedAt: entryTime(e),
		})
	}

	if !seenSell && e.WantsSell() && tgt.canSell > 0 {
		instances, err := r.Inv.InstancesBySKU(ctx, skuKey)
		if err != nil {
			r.log().Warn("instances unavailable", "sku", skuKey, "err", err)
		} else if len(instances) > 0 {
			// attach to the most recently acquired instance
			price, details := r.desired(ctx, tgt, listings.IntentSell, instances[0])
			r.createListing(ctx, listings.Spec{
				SKU:        skuKey,
				Intent:     listings.IntentSell,
				InstanceID: instances[0],
				Price:      price,
				Details:    details,
				Promoted:   e.Promoted,
				ListedAt:   entryTime(e),
			})
		}
	}

	return nil
}

// removalReason decides whether an existing listing must go. Empty string
// means keep it.
func removalReason(tgt *target, l listings.Listing, filter bool) string {
	if tgt == nil {
		return "unpriced or disabled"
	}
	e := tgt.entry
	if e.Intent != pricelist.IntentBank && string(e.Intent) != string(l.Intent) {
		return "intent mismatch"
	}
	if l.Intent == listings.IntentBuy {
		if tgt.canBuy <= 0 {
			return "no buy capacity"
		}
		if filter && !tgt.affordable {
			return "unaffordable"
		}
	} else if tgt.canSell <= 0 {
		return "no sell capacity"
	}
	return ""
}

// desired computes the canonical price and detail text for one side of the
// entry. Lookup failures degrade to zero values: the text will self-correct
// on a later pass once the collaborator recovers.
func (r *Reconciler) desired(ctx context.Context, tgt *target, intent listings.Intent, instanceID string) (currency.Amount, string) {
	e := tgt.entry

	held, err := r.Inv.HeldAmount(ctx, e.SKU)
	if err != nil {
		r.log().Warn("held amount unavailable", "sku", e.SKU, "err", err)
	}
	rate, err := r.Prices.KeyRate(ctx)
	if err != nil {
		r.log().Warn("key rate unavailable", "err", err)
	}

	capacity := tgt.canSell
	if intent == listings.IntentBuy {
		capacity = tgt.canBuy
	}

	var attachments []string
	if intent == listings.IntentSell && instanceID != "" {
		attachments, err = r.Inv.Attachments(ctx, instanceID)
		if err != nil {
			r.log().Warn("attachments unavailable", "instance", instanceID, "err", err)
		}
	}

	in := describe.Input{
		Entry:         e,
		Intent:        intent,
		CurrentStock:  held,
		TradeCapacity: capacity,
		KeyRate:       rate,
		Attachments:   attachments,
	}

	price := e.Sell
	if intent == listings.IntentBuy {
		price = e.Buy
	}
	return price, r.Detail.Describe(in)
}

func (r *Reconciler) createListing(ctx context.Context, s listings.Spec) {
	if err := r.Client.Create(ctx, s); err != nil {
		r.log().Warn("create not queued", "sku", s.SKU, "intent", s.Intent, "err", err)
		return
	}
	metrics.ListingWrites.WithLabelValues("create").Inc()
}

func (r *Reconciler) removeListing(ctx context.Context, l listings.Listing) {
	if err := r.Client.Remove(ctx, l.ID); err != nil {
		r.log().Warn("remove not queued", "sku", l.SKU, "id", l.ID, "err", err)
		return
	}
	metrics.ListingWrites.WithLabelValues("remove").Inc()
}

func entryTime(e pricelist.Entry) time.Time {
	if e.Updated.IsZero() {
		return time.Now()
	}
	return e.Updated
}
