package listings

import "context"

// Client is the remote marketplace listing API. Create, Update and Remove
// are fire-and-forget: they enqueue into the client's write queue and the
// queue flushes in the background. A dropped write self-corrects on the
// next reconciliation pass, so no per-write callback is exposed.
type Client interface {
	FindBySKU(ctx context.Context, sku string) ([]Listing, error)
	All(ctx context.Context) ([]Listing, error)

	Create(ctx context.Context, s Spec) error
	Update(ctx context.Context, id string, s Spec) error
	Remove(ctx context.Context, id string) error

	// Count re-reads the remote listing count.
	Count(ctx context.Context) (int, error)
	// Flush forces every pending queued write out now.
	Flush(ctx context.Context) error
	// ClearPendingCreates drops queued creation requests that have not been
	// flushed yet. Used before a full wipe.
	ClearPendingCreates()
}
