package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmount_String(t *testing.T) {
	cases := []struct {
		in   Amount
		want string
	}{
		{New(0, "0.11"), "0.11 ref"},
		{New(1, "0"), "1 key"},
		{New(2, "1.33"), "2 keys, 1.33 ref"},
		{New(0, "0"), "0 ref"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("String(%+v)=%q want=%q", c.in, got, c.want)
		}
	}
}

func TestAmount_EqualAndInMetal(t *testing.T) {
	a := New(1, "2.33")
	b := New(1, "2.33")
	if !a.Equal(b) {
		t.Fatalf("expected equal")
	}
	if a.Equal(New(1, "2.44")) {
		t.Fatalf("expected not equal")
	}

	rate, _ := decimal.NewFromString("67.11")
	got := a.InMetal(rate)
	want, _ := decimal.NewFromString("69.44")
	if !got.Equal(want) {
		t.Fatalf("InMetal=%s want=%s", got, want)
	}
}
