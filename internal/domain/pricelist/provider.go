package pricelist

import (
	"context"

	"github.com/shopspring/decimal"
)

type Provider interface {
	// EntryBySKU returns nil, nil when the SKU is not priced.
	EntryBySKU(ctx context.Context, sku string) (*Entry, error)
	AllEntries(ctx context.Context) ([]Entry, error)
	// KeyRate is the current key price in refined metal.
	KeyRate(ctx context.Context) (decimal.Decimal, error)
}
