package marketplace

import (
	"context"

	"github.com/tradeforge/listsync/internal/domain/account"
)

// AccountStatus fetches the marketplace-side account flags the relist
// monitor cares about.
func (c *Client) AccountStatus(ctx context.Context) (account.Status, error) {
	var v struct {
		Premium bool `json:"premium"`
	}
	if err := c.rc.getJSON(ctx, "/api/account", nil, &v); err != nil {
		return account.Status{}, err
	}
	return account.Status{Premium: v.Premium}, nil
}

// StatusSource adapts Client to account.StatusProvider.
type StatusSource struct{ C *Client }

func (s StatusSource) Fetch(ctx context.Context) (account.Status, error) {
	return s.C.AccountStatus(ctx)
}
