package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/pricelist"
)

// PricelistRepo reads the externally-owned price list. This subsystem never
// writes to it.
type PricelistRepo struct{ db *sql.DB }

func NewPricelistRepo(db *sql.DB) *PricelistRepo { return &PricelistRepo{db: db} }

const entryCols = `
sku, name, intent, enabled,
buy_keys, buy_metal, sell_keys, sell_metal,
min_stock, max_stock, promoted,
COALESCE(buy_note, ''), COALESCE(sell_note, ''), updated_at
`

func (r *PricelistRepo) EntryBySKU(ctx context.Context, sku string) (*pricelist.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryCols+` FROM price_entries WHERE sku = $1`, sku)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PricelistRepo) AllEntries(ctx context.Context) ([]pricelist.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryCols+` FROM price_entries ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricelist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// KeyRate is the key entry's sell price in metal; the pricer keeps it
// current alongside everything else.
func (r *PricelistRepo) KeyRate(ctx context.Context) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT sell_metal FROM price_entries WHERE sku = '5021;6'`).Scan(&rate)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, fmt.Errorf("key rate: key entry not priced")
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	return rate, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEntry(rs rowScanner) (pricelist.Entry, error) {
	var e pricelist.Entry
	var buyKeys, buyMetal, sellKeys, sellMetal decimal.Decimal
	err := rs.Scan(
		&e.SKU, &e.Name, &e.Intent, &e.Enabled,
		&buyKeys, &buyMetal, &sellKeys, &sellMetal,
		&e.MinStock, &e.MaxStock, &e.Promoted,
		&e.BuyNote, &e.SellNote, &e.Updated,
	)
	if err != nil {
		return pricelist.Entry{}, err
	}
	e.Buy = currency.Amount{Keys: buyKeys, Metal: buyMetal}
	e.Sell = currency.Amount{Keys: sellKeys, Metal: sellMetal}
	return e, nil
}
