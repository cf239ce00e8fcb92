package pricelist

import (
	"time"

	"github.com/tradeforge/listsync/internal/domain/currency"
)

type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentSell Intent = "sell"
	IntentBank Intent = "bank" // both sides
)

// Entry is one priced item as the price-list store holds it.
// The sync engine consumes entries read-only.
type Entry struct {
	SKU      string
	Name     string
	Intent   Intent
	Enabled  bool
	Buy      currency.Amount
	Sell     currency.Amount
	MinStock int
	MaxStock int // -1 = unlimited
	Promoted bool
	BuyNote  string // per-entry detail template, "" = use the global one
	SellNote string
	Updated  time.Time
}

func (e Entry) WantsBuy() bool  { return e.Intent == IntentBuy || e.Intent == IntentBank }
func (e Entry) WantsSell() bool { return e.Intent == IntentSell || e.Intent == IntentBank }
