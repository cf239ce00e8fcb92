// Package botcore talks to the bot-core process that owns the live
// inventory and wallet. The sync engine never caches any of this: every
// answer is a fresh read so capacity and affordability reflect trades
// that completed since the last pass.
package botcore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradeforge/listsync/internal/domain/currency"
	"github.com/tradeforge/listsync/internal/domain/inventory"
)

type Inventory struct {
	base string
	hc   *http.Client
}

var _ inventory.Provider = (*Inventory)(nil)

func New(base string) *Inventory {
	return &Inventory{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *Inventory) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := g.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := g.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("botcore: GET %s: http %d: %s", path, res.StatusCode, string(b))
	}
	return json.NewDecoder(res.Body).Decode(v)
}

func (g *Inventory) TradeCapacity(ctx context.Context, sku string, buying bool) (int, error) {
	side := "sell"
	if buying {
		side = "buy"
	}
	var v struct {
		Amount int `json:"amount"`
	}
	q := url.Values{"sku": {sku}, "side": {side}}
	if err := g.getJSON(ctx, "/api/inventory/capacity", q, &v); err != nil {
		return 0, err
	}
	return v.Amount, nil
}

func (g *Inventory) CanAfford(ctx context.Context, price currency.Amount) (bool, error) {
	var v struct {
		OK bool `json:"ok"`
	}
	q := url.Values{
		"keys":  {price.Keys.String()},
		"metal": {price.Metal.String()},
	}
	if err := g.getJSON(ctx, "/api/wallet/afford", q, &v); err != nil {
		return false, err
	}
	return v.OK, nil
}

func (g *Inventory) InstancesBySKU(ctx context.Context, sku string) ([]string, error) {
	var v struct {
		// newest acquisition first, the order the bot-core keeps them in
		Instances []string `json:"instances"`
	}
	q := url.Values{"sku": {sku}}
	if err := g.getJSON(ctx, "/api/inventory/instances", q, &v); err != nil {
		return nil, err
	}
	return v.Instances, nil
}

func (g *Inventory) HeldAmount(ctx context.Context, sku string) (int, error) {
	var v struct {
		Held int `json:"held"`
	}
	q := url.Values{"sku": {sku}}
	if err := g.getJSON(ctx, "/api/inventory/held", q, &v); err != nil {
		return 0, err
	}
	return v.Held, nil
}

func (g *Inventory) Attachments(ctx context.Context, instanceID string) ([]string, error) {
	var v struct {
		Attachments []string `json:"attachments"`
	}
	q := url.Values{"instance": {instanceID}}
	if err := g.getJSON(ctx, "/api/inventory/attachments", q, &v); err != nil {
		return nil, err
	}
	return v.Attachments, nil
}
