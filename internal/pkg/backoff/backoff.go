package backoff

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Backoff produces exponentially growing delays with 50% jitter.
// Zero Min/Max get sane defaults on first use.
type Backoff struct {
	Min time.Duration
	Max time.Duration

	attempt int
}

const (
	defaultMin = 200 * time.Millisecond
	defaultMax = 30 * time.Second
)

// Next returns the delay for the current attempt and advances the counter.
// Each returned base delay is strictly larger than the previous until Max.
func (b *Backoff) Next() time.Duration {
	if b.Min <= 0 {
		b.Min = defaultMin
	}
	if b.Max <= 0 {
		b.Max = defaultMax
	}
	d := b.Min << b.attempt
	if d <= 0 || d > b.Max {
		d = b.Max
	} else {
		b.attempt++
	}
	// jitter 50%
	return d/2 + time.Duration(rand.Int63n(int64(d)/2+1))
}

// Base returns what the next base delay would be, without jitter or advance.
func (b *Backoff) Base() time.Duration {
	if b.Min <= 0 {
		b.Min = defaultMin
	}
	if b.Max <= 0 {
		b.Max = defaultMax
	}
	d := b.Min << b.attempt
	if d <= 0 || d > b.Max {
		return b.Max
	}
	return d
}

func (b *Backoff) Reset() { b.attempt = 0 }

// FromRetryAfter honors a Retry-After header value (seconds or HTTP date).
// Returns 0 when the value is absent or unusable.
func FromRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if sec, err := strconv.Atoi(v); err == nil && sec >= 0 {
		return time.Duration(sec) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
