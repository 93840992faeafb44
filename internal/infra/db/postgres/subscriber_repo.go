package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/repository"
)

var _ repository.SubscriberRepository = (*SubscriberRepo)(nil)

type SubscriberRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepo(pool *pgxpool.Pool) *SubscriberRepo {
	return &SubscriberRepo{pool: pool}
}

func (r *SubscriberRepo) Upsert(ctx context.Context, sub *model.Subscriber) error {
	const q = `
INSERT INTO subscribers (phone, chat_id, name, registered_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (phone) DO UPDATE SET
  chat_id=$2, name=$3, registered_at=$4;
`
	_, err := r.pool.Exec(ctx, q, sub.Phone, sub.ChatID, sub.Name, sub.RegisteredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: two inserts raced past ON CONFLICT on different snapshots;
		// one retry lands on the update arm.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			_, err = r.pool.Exec(ctx, q, sub.Phone, sub.ChatID, sub.Name, sub.RegisteredAt)
		}
	}
	return err
}

func (r *SubscriberRepo) FindByPhone(ctx context.Context, phone string) (*model.Subscriber, error) {
	const q = `SELECT phone, chat_id, name, registered_at FROM subscribers WHERE phone=$1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, phone))
}

func (r *SubscriberRepo) FindByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error) {
	const q = `
SELECT phone, chat_id, name, registered_at
  FROM subscribers WHERE chat_id=$1
 ORDER BY registered_at DESC LIMIT 1;
`
	return r.scanOne(r.pool.QueryRow(ctx, q, chatID))
}

func (r *SubscriberRepo) ListAll(ctx context.Context) ([]*model.Subscriber, error) {
	const q = `SELECT phone, chat_id, name, registered_at FROM subscribers;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscriber
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.Phone, &s.ChatID, &s.Name, &s.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SubscriberRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM subscribers;`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SubscriberRepo) scanOne(row pgx.Row) (*model.Subscriber, error) {
	var s model.Subscriber
	if err := row.Scan(&s.Phone, &s.ChatID, &s.Name, &s.RegisteredAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
