package infrastructure

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewSessionPool connects to the database that backs the durable session
// slot. The DSN comes from configuration; an empty DSN means the caller
// falls back to the file-backed slot instead.
func NewSessionPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
