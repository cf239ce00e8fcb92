package describe

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/listings"
	"github.com/tradeforge/listsync/internal/domain/pricelist"
)

func entry(sku, name string) pricelist.Entry {
	return pricelist.Entry{
		SKU:      sku,
		Name:     name,
		Intent:   pricelist.IntentBank,
		Enabled:  true,
		Buy:      currency.New(1, "0"),
		Sell:     currency.New(1, "5.33"),
		MaxStock: 2,
	}
}

func rate(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestDescribe_Deterministic(t *testing.T) {
	f := New()
	in := Input{
		Entry:         entry("5021;6", "Mann Co. Supply Crate Key"),
		Intent:        listings.IntentBuy,
		CurrentStock:  1,
		TradeCapacity: 1,
		KeyRate:       rate("67.11"),
	}
	a := f.Describe(in)
	b := f.Describe(in)
	if a != b {
		t.Fatalf("not deterministic: %q vs %q", a, b)
	}
}

func TestDescribe_StockChangeChangesText(t *testing.T) {
	f := New()
	in := Input{
		Entry:         entry("190;6", "Bat"),
		Intent:        listings.IntentBuy,
		CurrentStock:  0,
		TradeCapacity: 2,
		KeyRate:       rate("67.11"),
	}
	a := f.Describe(in)
	in.CurrentStock = 1
	b := f.Describe(in)
	if a == b {
		t.Fatalf("stock change must change text: %q", a)
	}
}

func TestDescribe_PerEntryTemplateWins(t *testing.T) {
	f := New()
	e := entry("190;6", "Bat")
	e.BuyNote = "Buying %name% fast!"
	got := f.Describe(Input{Entry: e, Intent: listings.IntentBuy})
	if got != "Buying Bat fast!" {
		t.Fatalf("got %q", got)
	}
}

func TestDescribe_KeyRateHintOnlyForKeyPrices(t *testing.T) {
	f := New()
	e := entry("190;6", "Bat")
	withKeys := f.Describe(Input{Entry: e, Intent: listings.IntentBuy, KeyRate: rate("67.11")})
	if !strings.Contains(withKeys, "Key rate: 67.11 ref") {
		t.Fatalf("missing key-rate hint: %q", withKeys)
	}

	e.Buy = currency.New(0, "3.55")
	noKeys := f.Describe(Input{Entry: e, Intent: listings.IntentBuy, KeyRate: rate("67.11")})
	if strings.Contains(noKeys, "Key rate") {
		t.Fatalf("metal-only price must not carry key-rate hint: %q", noKeys)
	}
}

func TestDescribe_LongNameFallsBackToSKU(t *testing.T) {
	f := New()
	f.MaxNameLen = 10
	e := entry("30911;5;u703", "A Very Long Unusual Hat Name Indeed")
	got := f.Describe(Input{Entry: e, Intent: listings.IntentSell})
	if !strings.Contains(got, "30911;5;u703") {
		t.Fatalf("expected SKU fallback in %q", got)
	}
}

func TestDescribe_LimitedUseAnnotation(t *testing.T) {
	f := New()
	got := f.Describe(Input{Entry: entry("241;6", "Dueling Mini-Game"), Intent: listings.IntentBuy})
	if !strings.Contains(got, "(5 uses)") {
		t.Fatalf("missing uses annotation: %q", got)
	}
}

func TestDescribe_SellAttachmentsAppended(t *testing.T) {
	f := New()
	got := f.Describe(Input{
		Entry:       entry("378;6", "Team Captain"),
		Intent:      listings.IntentSell,
		Attachments: []string{"Painted: An Extraordinary Abundance of Tinge", "Spell: Exorcism"},
	})
	if !strings.HasSuffix(got, "| Painted: An Extraordinary Abundance of Tinge, Spell: Exorcism") {
		t.Fatalf("attachments not appended: %q", got)
	}
}

func TestDescribe_UnknownPlaceholderGoesSilent(t *testing.T) {
	f := New()
	e := entry("190;6", "Bat")
	e.SellNote = "Selling %name%%bogus% now"
	got := f.Describe(Input{Entry: e, Intent: listings.IntentSell})
	if got != "Selling Bat now" {
		t.Fatalf("got %q", got)
	}
}
