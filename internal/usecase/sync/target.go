package sync

import (
	"context"
	"fmt"

	"github.com/tradeforge/listsync/internal/domain/pricelist"
)

// target is the desired state for one SKU at this instant: the entry plus
// remaining trade capacity and affordability. Recomputed on every pass,
// never stored — the engine trusts nothing it computed earlier.
type target struct {
	entry      pricelist.Entry
	canBuy     int
	canSell    int
	affordable bool
}

// resolveTarget re-reads the entry and computes capacity. nil means "no
// listings may exist": the SKU is unpriced or explicitly disabled.
func (r *Reconciler) resolveTarget(ctx context.Context, skuKey string) (*target, error) {
	e, err := r.Prices.EntryBySKU(ctx, skuKey)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", skuKey, err)
	}
	if e == nil || !e.Enabled {
		return nil, nil
	}

	canBuy, err := r.Inv.TradeCapacity(ctx, skuKey, true)
	if err != nil {
		return nil, fmt.Errorf("buy capacity %s: %w", skuKey, err)
	}
	canSell, err := r.Inv.TradeCapacity(ctx, skuKey, false)
	if err != nil {
		return nil, fmt.Errorf("sell capacity %s: %w", skuKey, err)
	}

	affordable := true
	if r.FilterUnaffordable && e.WantsBuy() {
		affordable, err = r.Inv.CanAfford(ctx, e.Buy)
		if err != nil {
			return nil, fmt.Errorf("affordability %s: %w", skuKey, err)
		}
	}

	return &target{entry: *e, canBuy: canBuy, canSell: canSell, affordable: affordable}, nil
}
