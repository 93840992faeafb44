package repository

import (
	"context"

	"telegram-order-notifier/internal/domain/model"
)

// SubscriberRepository is the durable phone -> chat directory. Upsert must be
// atomic with respect to the phone uniqueness constraint: concurrent upserts
// for the same phone leave exactly one surviving row, last writer wins.
type SubscriberRepository interface {
	Upsert(ctx context.Context, sub *model.Subscriber) error
	// FindByPhone returns domain.ErrNotFound for an unknown phone.
	FindByPhone(ctx context.Context, phone string) (*model.Subscriber, error)
	// FindByChatID returns domain.ErrNotFound when the chat never shared a contact.
	FindByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error)
	ListAll(ctx context.Context) ([]*model.Subscriber, error)
	CountAll(ctx context.Context) (int, error)
}
