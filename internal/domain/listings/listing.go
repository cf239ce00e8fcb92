package listings

import (
	"time"

	"github.com/tradeforge/listsync/internal/domain/currency"
)

type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentSell Intent = "sell"
)

// Listing is a standing offer on the remote marketplace. Owned by the
// marketplace; the sync engine only observes it and requests mutations.
type Listing struct {
	ID         string
	SKU        string
	Intent     Intent
	InstanceID string // set for sell listings only
	Price      currency.Amount
	Details    string
	Promoted   bool
	ListedAt   time.Time
}

// Spec describes a listing create or update request.
type Spec struct {
	SKU        string
	Intent     Intent
	InstanceID string
	Price      currency.Amount
	Details    string
	Promoted   bool
	ListedAt   time.Time
}
