package sku

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Parts
		ok   bool
	}{
		{"190;6", Parts{Defindex: 190, Quality: 6}, true},
		{"30911;5;u703", Parts{Defindex: 30911, Quality: 5, Effect: 703}, true},
		{"241;6;uncraftable", Parts{Defindex: 241, Quality: 6, Uncraftable: true}, true},
		{"201;11;kt-3;n42", Parts{Defindex: 201, Quality: 11, Killstreak: 3, CraftNumber: 42}, true},
		{"205;6;australium", Parts{Defindex: 205, Quality: 6, Australium: true}, true},
		{"garbage", Parts{}, false},
		{"x;6", Parts{}, false},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("Parse(%q)=%+v,%v want=%+v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSpecificVariant(t *testing.T) {
	if SpecificVariant("190;6") {
		t.Fatalf("plain sku must not be specific")
	}
	if !SpecificVariant("30911;5;u703") {
		t.Fatalf("effect sku must be specific")
	}
	if !SpecificVariant("201;11;n42") {
		t.Fatalf("craft-number sku must be specific")
	}
}
