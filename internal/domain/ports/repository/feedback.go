package repository

import (
	"context"
	"time"

	"telegram-order-notifier/internal/domain/model"
)

type FeedbackTaskRepository interface {
	Create(ctx context.Context, task *model.FeedbackTask) error
	// DueTasks returns tasks in pending or asking_pickup state scheduled at or
	// before now.
	DueTasks(ctx context.Context, now time.Time) ([]*model.FeedbackTask, error)
	// LatestForChat returns the newest task for the chat in one of the given
	// states, or domain.ErrNotFound.
	LatestForChat(ctx context.Context, chatID int64, statuses []model.FeedbackStatus) (*model.FeedbackTask, error)
	Update(ctx context.Context, task *model.FeedbackTask) error
}
