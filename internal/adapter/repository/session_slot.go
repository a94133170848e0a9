package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// slotKey is the single key under which the bearer token lives. Absence of
// the row means "logged out".
const slotKey = "token"

// SessionSlotRepo persists the bearer token in a single-row table, the
// durable analogue of the browser's local-storage slot.
type SessionSlotRepo struct {
	pool *pgxpool.Pool
}

func NewSessionSlotRepo(pool *pgxpool.Pool) *SessionSlotRepo {
	return &SessionSlotRepo{pool: pool}
}

func (r *SessionSlotRepo) Read(ctx context.Context) (string, error) {
	if r.pool == nil {
		return "", nil
	}
	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM session_slots WHERE key = $1`, slotKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SessionSlotRepo) Write(ctx context.Context, token string) error {
	if r.pool == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO session_slots (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		slotKey, token, time.Now())
	return err
}

func (r *SessionSlotRepo) Erase(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM session_slots WHERE key = $1`, slotKey)
	return err
}
