package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/listings"
	"github.com/tradeforge/listsync/internal/domain/pricelist"
)

type fakePrices struct {
	mu      sync.Mutex
	entries map[string]pricelist.Entry
	rate    decimal.Decimal
}

func newFakePrices(rate string, es ...pricelist.Entry) *fakePrices {
	r, _ := decimal.NewFromString(rate)
	p := &fakePrices{entries: make(map[string]pricelist.Entry), rate: r}
	for _, e := range es {
		p.entries[e.SKU] = e
	}
	return p
}

func (p *fakePrices) EntryBySKU(_ context.Context, sku string) (*pricelist.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[sku]
	if !ok {
		return nil, nil
	}
	c := e
	return &c, nil
}

func (p *fakePrices) AllEntries(context.Context) ([]pricelist.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pricelist.Entry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	return out, nil
}

func (p *fakePrices) KeyRate(context.Context) (decimal.Decimal, error) {
	return p.rate, nil
}

func (p *fakePrices) set(e pricelist.Entry) {
	p.mu.Lock()
	p.entries[e.SKU] = e
	p.mu.Unlock()
}

func (p *fakePrices) del(sku string) {
	p.mu.Lock()
	delete(p.entries, sku)
	p.mu.Unlock()
}

type fakeInventory struct {
	mu          sync.Mutex
	canBuy      map[string]int
	canSell     map[string]int
	held        map[string]int
	instances   map[string][]string
	attachments map[string][]string
	affordable  bool
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		canBuy:      make(map[string]int),
		canSell:     make(map[string]int),
		held:        make(map[string]int),
		instances:   make(map[string][]string),
		attachments: make(map[string][]string),
		affordable:  true,
	}
}

func (f *fakeInventory) TradeCapacity(_ context.Context, sku string, buying bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if buying {
		return f.canBuy[sku], nil
	}
	return f.canSell[sku], nil
}

func (f *fakeInventory) CanAfford(context.Context, currency.Amount) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.affordable, nil
}

func (f *fakeInventory) InstancesBySKU(_ context.Context, sku string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instances[sku], nil
}

func (f *fakeInventory) HeldAmount(_ context.Context, sku string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[sku], nil
}

func (f *fakeInventory) Attachments(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attachments[id], nil
}

// fakeClient applies writes immediately, as if the write queue always
// flushed between passes.
type fakeClient struct {
	mu      sync.Mutex
	byID    map[string]listings.Listing
	nextID  int
	creates int
	updates int
	removes int

	finds  []string // FindBySKU call order
	onFind func(sku string)

	counts     []int // scripted Count responses; last one repeats
	countCalls int

	flushFails int // how many Flush calls to fail
	flushes    int
	cleared    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{byID: make(map[string]listings.Listing)}
}

func (c *fakeClient) seed(l listings.Listing) {
	c.mu.Lock()
	c.byID[l.ID] = l
	c.mu.Unlock()
}

func (c *fakeClient) FindBySKU(_ context.Context, sku string) ([]listings.Listing, error) {
	c.mu.Lock()
	c.finds = append(c.finds, sku)
	hook := c.onFind
	var out []listings.Listing
	for _, l := range c.byID {
		if l.SKU == sku {
			out = append(out, l)
		}
	}
	c.mu.Unlock()
	if hook != nil {
		hook(sku)
	}
	return out, nil
}

func (c *fakeClient) All(context.Context) ([]listings.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]listings.Listing, 0, len(c.byID))
	for _, l := range c.byID {
		out = append(out, l)
	}
	return out, nil
}

func (c *fakeClient) Create(_ context.Context, s listings.Spec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates++
	c.nextID++
	id := fmt.Sprintf("l%d", c.nextID)
	c.byID[id] = listings.Listing{
		ID: id, SKU: s.SKU, Intent: s.Intent, InstanceID: s.InstanceID,
		Price: s.Price, Details: s.Details, Promoted: s.Promoted, ListedAt: s.ListedAt,
	}
	return nil
}

func (c *fakeClient) Update(_ context.Context, id string, s listings.Spec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates++
	l := c.byID[id]
	l.Price, l.Details, l.Promoted, l.ListedAt = s.Price, s.Details, s.Promoted, s.ListedAt
	c.byID[id] = l
	return nil
}

func (c *fakeClient) Remove(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removes++
	delete(c.byID, id)
	return nil
}

func (c *fakeClient) Count(context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countCalls++
	if len(c.counts) == 0 {
		return len(c.byID), nil
	}
	n := c.counts[0]
	if len(c.counts) > 1 {
		c.counts = c.counts[1:]
	}
	return n, nil
}

func (c *fakeClient) Flush(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
	if c.flushFails > 0 {
		c.flushFails--
		return fmt.Errorf("flush rejected")
	}
	return nil
}

func (c *fakeClient) ClearPendingCreates() {
	c.mu.Lock()
	c.cleared++
	c.mu.Unlock()
}

func (c *fakeClient) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creates + c.updates + c.removes
}

func (c *fakeClient) listingsFor(sku string) []listings.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []listings.Listing
	for _, l := range c.byID {
		if l.SKU == sku {
			out = append(out, l)
		}
	}
	return out
}
