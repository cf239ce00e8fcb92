package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// OpenPostgres opens the external price-list database. The pool is kept
// small: the sync engine reads entries one SKU at a time plus the
// occasional full scan, nothing chatty.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
