package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a two-part marketplace price: whole keys plus refined metal.
// Exact decimal arithmetic matters here — the sync engine decides whether to
// re-issue a listing by comparing old and new prices for equality.
type Amount struct {
	Keys  decimal.Decimal
	Metal decimal.Decimal
}

func New(keys int64, metal string) Amount {
	m, _ := decimal.NewFromString(metal)
	return Amount{Keys: decimal.NewFromInt(keys), Metal: m}
}

func (a Amount) IsZero() bool {
	return a.Keys.IsZero() && a.Metal.IsZero()
}

func (a Amount) Equal(b Amount) bool {
	return a.Keys.Equal(b.Keys) && a.Metal.Equal(b.Metal)
}

// InKeys reports whether any part of the price is denominated in keys.
func (a Amount) InKeys() bool { return !a.Keys.IsZero() }

// InMetal converts the whole amount to metal at the given key rate.
func (a Amount) InMetal(keyRate decimal.Decimal) decimal.Decimal {
	return a.Keys.Mul(keyRate).Add(a.Metal)
}

// String renders "2 keys, 1.33 ref" / "1 key" / "0.11 ref".
// Keep the format stable: listing detail text embeds it and the update diff
// compares the rendered text byte for byte.
func (a Amount) String() string {
	var parts []string
	if !a.Keys.IsZero() {
		unit := " keys"
		if a.Keys.Equal(decimal.NewFromInt(1)) {
			unit = " key"
		}
		parts = append(parts, a.Keys.String()+unit)
	}
	if !a.Metal.IsZero() || len(parts) == 0 {
		parts = append(parts, a.Metal.String()+" ref")
	}
	return strings.Join(parts, ", ")
}
