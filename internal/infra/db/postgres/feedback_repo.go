package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/repository"
)

var _ repository.FeedbackTaskRepository = (*FeedbackTaskRepo)(nil)

type FeedbackTaskRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackTaskRepo(pool *pgxpool.Pool) *FeedbackTaskRepo {
	return &FeedbackTaskRepo{pool: pool}
}

func (r *FeedbackTaskRepo) Create(ctx context.Context, task *model.FeedbackTask) error {
	const q = `
INSERT INTO feedback_tasks (chat_id, status, pickup_attempts, created_at, scheduled_for)
VALUES ($1,$2,$3,$4,$5)
RETURNING id;
`
	return r.pool.QueryRow(ctx, q, task.ChatID, task.Status, task.PickupAttempts, task.CreatedAt, task.ScheduledFor).
		Scan(&task.ID)
}

func (r *FeedbackTaskRepo) DueTasks(ctx context.Context, now time.Time) ([]*model.FeedbackTask, error) {
	const q = `
SELECT id, chat_id, status, pickup_attempts, created_at, scheduled_for
  FROM feedback_tasks
 WHERE status IN ($1,$2) AND scheduled_for <= $3
 ORDER BY scheduled_for;
`
	rows, err := r.pool.Query(ctx, q, model.FeedbackPending, model.FeedbackAskingPickup, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.FeedbackTask
	for rows.Next() {
		var t model.FeedbackTask
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Status, &t.PickupAttempts, &t.CreatedAt, &t.ScheduledFor); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *FeedbackTaskRepo) LatestForChat(ctx context.Context, chatID int64, statuses []model.FeedbackStatus) (*model.FeedbackTask, error) {
	const q = `
SELECT id, chat_id, status, pickup_attempts, created_at, scheduled_for
  FROM feedback_tasks
 WHERE chat_id=$1 AND status = ANY($2)
 ORDER BY created_at DESC LIMIT 1;
`
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	var t model.FeedbackTask
	err := r.pool.QueryRow(ctx, q, chatID, ss).
		Scan(&t.ID, &t.ChatID, &t.Status, &t.PickupAttempts, &t.CreatedAt, &t.ScheduledFor)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *FeedbackTaskRepo) Update(ctx context.Context, task *model.FeedbackTask) error {
	const q = `
UPDATE feedback_tasks
   SET status=$2, pickup_attempts=$3, scheduled_for=$4
 WHERE id=$1;
`
	ct, err := r.pool.Exec(ctx, q, task.ID, task.Status, task.PickupAttempts, task.ScheduledFor)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
