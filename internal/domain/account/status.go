package account

import "context"

// Status is the marketplace-side account state relevant to relisting:
// premium accounts get their listings kept fresh server-side.
type Status struct {
	Premium bool
}

type StatusProvider interface {
	Fetch(ctx context.Context) (Status, error)
}
