package inventory

import (
	"context"

	"github.com/tradeforge/listsync/internal/domain/currency"
)

// Provider is the inventory manager as the sync engine sees it: current
// holdings, remaining trade capacity and wallet affordability.
type Provider interface {
	// TradeCapacity reports how many more of the SKU can be bought
	// (buying=true, bounded by max stock) or sold (bounded by min stock).
	TradeCapacity(ctx context.Context, sku string, buying bool) (int, error)
	CanAfford(ctx context.Context, price currency.Amount) (bool, error)
	// InstancesBySKU returns instance ids ordered most recently acquired first.
	InstancesBySKU(ctx context.Context, sku string) ([]string, error)
	HeldAmount(ctx context.Context, sku string) (int, error)
	// Attachments lists cosmetic attachment annotations for one instance
	// (paints, spells and the like), already rendered for display.
	Attachments(ctx context.Context, instanceID string) ([]string, error)
}
