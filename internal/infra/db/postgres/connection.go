package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewPgxPool connects with a bounded timeout so a dead database fails fast
// at startup instead of hanging the process.
func NewPgxPool(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the two tables this service owns. The unique index on
// subscribers.phone is the concurrency-control mechanism for upserts.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS subscribers (
  phone         TEXT PRIMARY KEY,
  chat_id       BIGINT NOT NULL,
  name          TEXT NOT NULL DEFAULT '',
  registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS subscribers_chat_id_idx ON subscribers (chat_id);

CREATE TABLE IF NOT EXISTS feedback_tasks (
  id              BIGSERIAL PRIMARY KEY,
  chat_id         BIGINT NOT NULL,
  status          TEXT NOT NULL,
  pickup_attempts INT NOT NULL DEFAULT 0,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  scheduled_for   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS feedback_tasks_due_idx ON feedback_tasks (status, scheduled_for);
`
	_, err := pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
