package sku

import (
	"strconv"
	"strings"
)

// A SKU is "defindex;quality" plus optional ;-separated modifiers, e.g.
// "190;6", "30911;5;u703", "241;6;uncraftable", "201;11;kt-3;n42".
type Parts struct {
	Defindex    int
	Quality     int
	Effect      int // particle effect id, 0 = none
	Australium  bool
	Uncraftable bool
	Killstreak  int
	CraftNumber int // 0 = none
}

func Parse(s string) (Parts, bool) {
	fields := strings.Split(strings.TrimSpace(s), ";")
	if len(fields) < 2 {
		return Parts{}, false
	}
	def, err := strconv.Atoi(fields[0])
	if err != nil {
		return Parts{}, false
	}
	q, err := strconv.Atoi(fields[1])
	if err != nil {
		return Parts{}, false
	}
	p := Parts{Defindex: def, Quality: q}
	for _, f := range fields[2:] {
		switch {
		case f == "australium":
			p.Australium = true
		case f == "uncraftable":
			p.Uncraftable = true
		case strings.HasPrefix(f, "u"):
			p.Effect, _ = strconv.Atoi(f[1:])
		case strings.HasPrefix(f, "kt-"):
			p.Killstreak, _ = strconv.Atoi(f[3:])
		case strings.HasPrefix(f, "n"):
			p.CraftNumber, _ = strconv.Atoi(f[1:])
		}
	}
	return p, true
}

// SpecificVariant reports whether the SKU pins one concrete item rather
// than a fungible configuration. Buy listings are never created for these:
// a craft number or particle effect identifies an individual item, so a
// standing buy order makes no sense.
func SpecificVariant(s string) bool {
	p, ok := Parse(s)
	if !ok {
		return false
	}
	return p.CraftNumber > 0 || p.Effect > 0
}
