package dbping

import (
	"context"
	"database/sql"
)

// DBPing reports whether the price-list database answers.
type DBPing struct {
	DB *sql.DB
}

func (DBPing) Name() string { return "pricelist" }

func (d DBPing) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}
