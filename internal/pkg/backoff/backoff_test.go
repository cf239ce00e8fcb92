package backoff

import (
	"testing"
	"time"
)

func TestBackoff_GrowsStrictlyUntilCap(t *testing.T) {
	b := &Backoff{Min: 100 * time.Millisecond, Max: 1 * time.Second}
	prev := time.Duration(0)
	for i := 0; i < 4; i++ {
		base := b.Base()
		if base <= prev {
			t.Fatalf("base not strictly increasing: %v after %v", base, prev)
		}
		prev = base
		d := b.Next()
		if d < base/2 || d > base+base/2 {
			t.Fatalf("jittered delay %v out of range for base %v", d, base)
		}
	}
	// past the cap
	for i := 0; i < 10; i++ {
		b.Next()
	}
	if b.Base() != time.Second {
		t.Fatalf("expected cap 1s, got %v", b.Base())
	}

	b.Reset()
	if b.Base() != 100*time.Millisecond {
		t.Fatalf("reset did not restore min, got %v", b.Base())
	}
}

func TestFromRetryAfter(t *testing.T) {
	if d := FromRetryAfter("3"); d != 3*time.Second {
		t.Fatalf("seconds form: got %v", d)
	}
	if d := FromRetryAfter(""); d != 0 {
		t.Fatalf("empty: got %v", d)
	}
	if d := FromRetryAfter("garbage"); d != 0 {
		t.Fatalf("garbage: got %v", d)
	}
}
