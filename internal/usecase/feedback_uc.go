package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/domain/ports/repository"
	"telegram-order-notifier/internal/infra/i18n"
)

var _ FeedbackUseCase = (*feedbackUC)(nil)

// FeedbackUseCase runs the post-delivery follow-up: a pickup check a couple
// of days after the order-ready message, then a 1-5 rating.
type FeedbackUseCase interface {
	FeedbackScheduler
	// ProcessDue sends the pickup question for every due task and returns how
	// many were sent.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
	HandlePickupResponse(ctx context.Context, chatID int64, pickedUp bool) error
	HandleRating(ctx context.Context, chatID int64, score int) error
}

type FeedbackSettings struct {
	InitialDelay      time.Duration
	RetryDelay        time.Duration
	MaxPickupAttempts int
}

type feedbackUC struct {
	tasks   repository.FeedbackTaskRepository
	bot     adapter.MessengerAdapter
	menus   *Menus
	tr      *i18n.Translator
	admins  model.AdminSet
	mapsURL string
	set     FeedbackSettings
	now     func() time.Time
	log     *zerolog.Logger
}

func NewFeedbackUseCase(
	tasks repository.FeedbackTaskRepository,
	bot adapter.MessengerAdapter,
	menus *Menus,
	tr *i18n.Translator,
	admins model.AdminSet,
	mapsURL string,
	set FeedbackSettings,
	logger *zerolog.Logger,
) FeedbackUseCase {
	if set.InitialDelay <= 0 {
		set.InitialDelay = 48 * time.Hour
	}
	if set.RetryDelay <= 0 {
		set.RetryDelay = 36 * time.Hour
	}
	if set.MaxPickupAttempts <= 0 {
		set.MaxPickupAttempts = 3
	}
	return &feedbackUC{
		tasks:   tasks,
		bot:     bot,
		menus:   menus,
		tr:      tr,
		admins:  admins,
		mapsURL: mapsURL,
		set:     set,
		now:     time.Now,
		log:     logger,
	}
}

// ShiftOffWeekend moves a moment that lands on Saturday or Sunday to the
// following Monday morning; the shop is closed, nobody picks anything up.
func ShiftOffWeekend(t time.Time, hour int) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		t = t.AddDate(0, 0, 2)
	case time.Sunday:
		t = t.AddDate(0, 0, 1)
	default:
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

func scheduleAfter(base time.Time, delay time.Duration) time.Time {
	return ShiftOffWeekend(base.Add(delay), 10)
}

func (uc *feedbackUC) ScheduleForChat(ctx context.Context, chatID int64) error {
	now := uc.now()
	task := &model.FeedbackTask{
		ChatID:       chatID,
		Status:       model.FeedbackPending,
		CreatedAt:    now,
		ScheduledFor: scheduleAfter(now, uc.set.InitialDelay),
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return fmt.Errorf("create feedback task: %w", err)
	}
	uc.log.Info().Int64("chat_id", chatID).Time("scheduled_for", task.ScheduledFor).Msg("feedback scheduled")
	return nil
}

func (uc *feedbackUC) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.tasks.DueTasks(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("fetch due feedback tasks: %w", err)
	}

	sent := 0
	for _, task := range due {
		if err := uc.bot.SendMessage(ctx, task.ChatID, uc.tr.T("feedback_check"), uc.menus.Pickup()); err != nil {
			// Leave the task as is; the next sweep retries it.
			uc.log.Warn().Err(err).Int64("chat_id", task.ChatID).Msg("pickup check send failed")
			continue
		}
		task.Status = model.FeedbackAskingPickup
		task.ScheduledFor = scheduleAfter(now, uc.set.RetryDelay)
		if err := uc.tasks.Update(ctx, task); err != nil {
			uc.log.Error().Err(err).Int64("task_id", task.ID).Msg("feedback task update failed")
			continue
		}
		sent++
	}
	return sent, nil
}

func (uc *feedbackUC) HandlePickupResponse(ctx context.Context, chatID int64, pickedUp bool) error {
	task, err := uc.tasks.LatestForChat(ctx, chatID,
		[]model.FeedbackStatus{model.FeedbackPending, model.FeedbackAskingPickup})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !pickedUp {
		task.PickupAttempts++
		if task.PickupAttempts >= uc.set.MaxPickupAttempts {
			task.Status = model.FeedbackCancelled
		} else {
			task.Status = model.FeedbackAskingPickup
			task.ScheduledFor = scheduleAfter(uc.now(), uc.set.RetryDelay)
		}
		if err := uc.tasks.Update(ctx, task); err != nil {
			return err
		}
		return uc.bot.SendMessage(ctx, chatID, uc.tr.T("feedback_not_yet"), nil)
	}

	task.Status = model.FeedbackCompleted
	if err := uc.tasks.Update(ctx, task); err != nil {
		return err
	}
	return uc.bot.SendMessage(ctx, chatID, uc.tr.T("feedback_rating_prompt"), uc.menus.Rating())
}

func (uc *feedbackUC) HandleRating(ctx context.Context, chatID int64, score int) error {
	_, err := uc.tasks.LatestForChat(ctx, chatID, []model.FeedbackStatus{model.FeedbackCompleted})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	switch {
	case score == 5:
		var opts *adapter.SendOptions
		if uc.mapsURL != "" {
			opts = &adapter.SendOptions{InlineButtons: [][]adapter.InlineButton{
				{{Text: uc.tr.T("feedback_maps_button"), URL: uc.mapsURL}},
			}}
		}
		return uc.bot.SendMessage(ctx, chatID, uc.tr.T("feedback_rating_5"), opts)
	case score == 4:
		return uc.bot.SendMessage(ctx, chatID, uc.tr.T("feedback_rating_4"), nil)
	case score >= 1 && score <= 3:
		if err := uc.bot.SendMessage(ctx, chatID, uc.tr.T("feedback_rating_low"), nil); err != nil {
			return err
		}
		for _, adminID := range uc.admins.ChatIDs() {
			if err := uc.bot.SendMessage(ctx, adminID, uc.tr.T("feedback_admin_alert", chatID, score), nil); err != nil {
				uc.log.Warn().Err(err).Int64("admin_id", adminID).Msg("negative feedback alert failed")
			}
		}
		return nil
	default:
		return nil
	}
}
