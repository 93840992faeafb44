package repository

import "context"

// ChatStateRepository keeps the only piece of per-chat conversational state
// this bot has: whether the next free-text message should be treated as a
// task description for the price estimator. Entries expire on their own.
type ChatStateRepository interface {
	ArmEstimate(ctx context.Context, chatID int64) error
	EstimateArmed(ctx context.Context, chatID int64) (bool, error)
	Disarm(ctx context.Context, chatID int64) error
}
