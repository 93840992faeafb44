package model

import "time"

type FeedbackStatus string

const (
	FeedbackPending      FeedbackStatus = "pending"
	FeedbackAskingPickup FeedbackStatus = "asking_pickup"
	FeedbackCompleted    FeedbackStatus = "completed"
	FeedbackCancelled    FeedbackStatus = "cancelled"
)

// FeedbackTask is one scheduled post-delivery follow-up: ask whether the
// order was picked up, then collect a 1-5 rating.
type FeedbackTask struct {
	ID             int64
	ChatID         int64
	Status         FeedbackStatus
	PickupAttempts int
	CreatedAt      time.Time
	ScheduledFor   time.Time
}
