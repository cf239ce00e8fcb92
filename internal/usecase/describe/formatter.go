package describe

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/listings"
	"github.com/tradeforge/listsync/internal/domain/pricelist"
)

const (
	DefaultBuyTemplate  = "I am buying your %name% for %price%. Stock: %current_stock% / %max_stock%. Can take %amount_trade% more.%uses%%keys%"
	DefaultSellTemplate = "I am selling my %name% for %price%. Selling %amount_trade%.%uses%%keys%"

	// Names longer than this fall back to the SKU so the listing text stays
	// within the marketplace's detail limit.
	DefaultMaxNameLen = 80
)

// Limited-use consumables get an annotation so buyers know what they get.
var limitedUse = map[string]string{
	"241;6": " (5 uses)",  // Dueling Mini-Game
	"536;6": " (25 uses)", // Noise Maker - TF Birthday
	"673;6": " (25 uses)", // Noise Maker - Winter Holiday
}

var placeholderRe = regexp.MustCompile(`%[a-z_]+%`)

// Input carries everything a listing description depends on. The formatter
// itself holds no mutable state: identical input yields identical text,
// which the reconciler relies on to diff old against new details.
type Input struct {
	Entry         pricelist.Entry
	Intent        listings.Intent
	CurrentStock  int
	TradeCapacity int
	KeyRate       decimal.Decimal
	Attachments   []string // sell-instance cosmetic annotations, in order
}

type Formatter struct {
	BuyTemplate  string
	SellTemplate string
	MaxNameLen   int
}

func New() *Formatter {
	return &Formatter{
		BuyTemplate:  DefaultBuyTemplate,
		SellTemplate: DefaultSellTemplate,
		MaxNameLen:   DefaultMaxNameLen,
	}
}

func (f *Formatter) Describe(in Input) string {
	tpl := f.template(in)
	subst := f.substitutions(in)
	out := placeholderRe.ReplaceAllStringFunc(tpl, func(ph string) string {
		// absent attribute degrades to an empty substitution
		return subst[ph]
	})
	if in.Intent == listings.IntentSell && len(in.Attachments) > 0 {
		out += " | " + strings.Join(in.Attachments, ", ")
	}
	return out
}

func (f *Formatter) template(in Input) string {
	if in.Intent == listings.IntentBuy {
		if in.Entry.BuyNote != "" {
			return in.Entry.BuyNote
		}
		if f.BuyTemplate != "" {
			return f.BuyTemplate
		}
		return DefaultBuyTemplate
	}
	if in.Entry.SellNote != "" {
		return in.Entry.SellNote
	}
	if f.SellTemplate != "" {
		return f.SellTemplate
	}
	return DefaultSellTemplate
}

func (f *Formatter) substitutions(in Input) map[string]string {
	price := in.Entry.Sell
	if in.Intent == listings.IntentBuy {
		price = in.Entry.Buy
	}

	name := in.Entry.Name
	maxLen := f.MaxNameLen
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLen
	}
	if name == "" || len(name) > maxLen {
		name = in.Entry.SKU
	}

	maxStock := strconv.Itoa(in.Entry.MaxStock)
	if in.Entry.MaxStock < 0 {
		maxStock = "∞"
	}

	keys := ""
	if price.InKeys() {
		keys = " Key rate: " + in.KeyRate.String() + " ref."
	}

	return map[string]string{
		"%name%":          name,
		"%price%":         price.String(),
		"%current_stock%": strconv.Itoa(in.CurrentStock),
		"%max_stock%":     maxStock,
		"%amount_trade%":  strconv.Itoa(in.TradeCapacity),
		"%keys%":          keys,
		"%uses%":          limitedUse[in.Entry.SKU],
	}
}
