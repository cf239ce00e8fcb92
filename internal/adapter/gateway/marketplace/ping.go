package marketplace

import "context"

// Ping satisfies the health pinger over the listing-count endpoint.
type Ping struct{ C *Client }

func (Ping) Name() string { return "marketplace" }

func (p Ping) Ping(ctx context.Context) error {
	_, err := p.C.Count(ctx)
	return err
}
