// Package marketplace implements the listing client over the marketplace's
// HTTP API. Mutations are enqueued and shipped in batches through a paced
// dispatch queue; reads go straight out.
package marketplace

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/listings"
	"github.com/tradeforge/listsync/internal/pkg/dispatch"
)

type wirePrice struct {
	Keys  decimal.Decimal `json:"keys"`
	Metal decimal.Decimal `json:"metal"`
}

type wireListing struct {
	ID         string    `json:"id"`
	SKU        string    `json:"sku"`
	Intent     string    `json:"intent"`
	InstanceID string    `json:"instance_id,omitempty"`
	Price      wirePrice `json:"price"`
	Details    string    `json:"details"`
	Promoted   bool      `json:"promoted"`
	ListedAt   int64     `json:"listed_at"`
}

type wireSpec struct {
	OpID       string    `json:"op_id"` // client idempotency key
	ID         string    `json:"id,omitempty"`
	SKU        string    `json:"sku"`
	Intent     string    `json:"intent"`
	InstanceID string    `json:"instance_id,omitempty"`
	Price      wirePrice `json:"price"`
	Details    string    `json:"details"`
	Promoted   bool      `json:"promoted"`
	ListedAt   int64     `json:"listed_at"`
}

type batchReq struct {
	Create []wireSpec `json:"create,omitempty"`
	Update []wireSpec `json:"update,omitempty"`
	Remove []string   `json:"remove,omitempty"`
}

type Client struct {
	rc     *restClient
	queue  *dispatch.Queue
	Logger *slog.Logger

	mu          sync.Mutex
	creates     []wireSpec
	updates     []wireSpec
	removes     []string
	flushQueued bool
}

var _ listings.Client = (*Client)(nil)

func New(base, token string, q *dispatch.Queue) *Client {
	return NewWith(base, token, q, DefaultOptionsFromEnv())
}

func NewWith(base, token string, q *dispatch.Queue, opts Options) *Client {
	return &Client{rc: newREST(base, token, opts), queue: q}
}

func (c *Client) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) FindBySKU(ctx context.Context, sku string) ([]listings.Listing, error) {
	var v struct {
		Listings []wireListing `json:"listings"`
	}
	q := url.Values{"sku": {sku}}
	if err := c.rc.getJSON(ctx, "/api/listings", q, &v); err != nil {
		return nil, err
	}
	return fromWire(v.Listings), nil
}

func (c *Client) All(ctx context.Context) ([]listings.Listing, error) {
	var v struct {
		Listings []wireListing `json:"listings"`
	}
	if err := c.rc.getJSON(ctx, "/api/listings", nil, &v); err != nil {
		return nil, err
	}
	return fromWire(v.Listings), nil
}

func (c *Client) Count(ctx context.Context) (int, error) {
	var v struct {
		Count int `json:"count"`
	}
	if err := c.rc.getJSON(ctx, "/api/listings/count", nil, &v); err != nil {
		return 0, err
	}
	return v.Count, nil
}

func (c *Client) Create(_ context.Context, s listings.Spec) error {
	c.mu.Lock()
	c.creates = append(c.creates, toWireSpec("", s))
	c.mu.Unlock()
	c.scheduleFlush()
	return nil
}

func (c *Client) Update(_ context.Context, id string, s listings.Spec) error {
	c.mu.Lock()
	c.updates = append(c.updates, toWireSpec(id, s))
	c.mu.Unlock()
	c.scheduleFlush()
	return nil
}

func (c *Client) Remove(_ context.Context, id string) error {
	c.mu.Lock()
	c.removes = append(c.removes, id)
	c.mu.Unlock()
	c.scheduleFlush()
	return nil
}

func (c *Client) ClearPendingCreates() {
	c.mu.Lock()
	c.creates = nil
	c.mu.Unlock()
}

// Flush ships everything pending right now, bypassing the queue's pacing.
// On failure the batch goes back so nothing is silently dropped.
func (c *Client) Flush(ctx context.Context) error {
	batch, ok := c.takeBatch()
	if !ok {
		return nil
	}
	if err := c.rc.postJSON(ctx, "/api/listings/batch", batch, nil); err != nil {
		c.restoreBatch(batch)
		return err
	}
	return nil
}

// scheduleFlush arranges at most one queued flush for however many writes
// have piled up by the time the queue gets to it.
func (c *Client) scheduleFlush() {
	c.mu.Lock()
	if c.flushQueued {
		c.mu.Unlock()
		return
	}
	c.flushQueued = true
	c.mu.Unlock()

	if c.queue == nil {
		return
	}
	c.queue.Enqueue(func(ctx context.Context) error {
		c.mu.Lock()
		c.flushQueued = false
		c.mu.Unlock()
		err := c.Flush(ctx)
		if err != nil {
			c.log().Warn("batch flush failed", "err", err)
		}
		return err
	})
}

func (c *Client) takeBatch() (batchReq, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.creates) == 0 && len(c.updates) == 0 && len(c.removes) == 0 {
		return batchReq{}, false
	}
	b := batchReq{Create: c.creates, Update: c.updates, Remove: c.removes}
	c.creates, c.updates, c.removes = nil, nil, nil
	return b, true
}

func (c *Client) restoreBatch(b batchReq) {
	c.mu.Lock()
	c.creates = append(b.Create, c.creates...)
	c.updates = append(b.Update, c.updates...)
	c.removes = append(b.Remove, c.removes...)
	c.mu.Unlock()
}

func toWireSpec(id string, s listings.Spec) wireSpec {
	return wireSpec{
		OpID:       uuid.NewString(),
		ID:         id,
		SKU:        s.SKU,
		Intent:     string(s.Intent),
		InstanceID: s.InstanceID,
		Price:      wirePrice{Keys: s.Price.Keys, Metal: s.Price.Metal},
		Details:    s.Details,
		Promoted:   s.Promoted,
		ListedAt:   s.ListedAt.Unix(),
	}
}

func fromWire(in []wireListing) []listings.Listing {
	out := make([]listings.Listing, 0, len(in))
	for _, w := range in {
		out = append(out, listings.Listing{
			ID:         w.ID,
			SKU:        w.SKU,
			Intent:     listings.Intent(w.Intent),
			InstanceID: w.InstanceID,
			Price:      currency.Amount{Keys: w.Price.Keys, Metal: w.Price.Metal},
			Details:    w.Details,
			Promoted:   w.Promoted,
			ListedAt:   time.Unix(w.ListedAt, 0),
		})
	}
	return out
}
