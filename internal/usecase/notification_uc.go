package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/domain/ports/repository"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/infra/logging"
	"telegram-order-notifier/internal/infra/metrics"
)

var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase resolves a phone to a chat and delivers one order-ready
// message. Single attempt, synchronous; no retries.
type NotificationUseCase interface {
	NotifyOrderReady(ctx context.Context, phone, orderID string, items []string) model.DeliveryResult
}

// FeedbackScheduler is the slice of the feedback flow the dispatcher needs.
type FeedbackScheduler interface {
	ScheduleForChat(ctx context.Context, chatID int64) error
}

type notificationUC struct {
	subs     repository.SubscriberRepository
	bot      adapter.MessengerAdapter
	tr       *i18n.Translator
	loc      model.LocationInfo
	feedback FeedbackScheduler // optional
	log      *zerolog.Logger
	dev      bool
}

func NewNotificationUseCase(
	subs repository.SubscriberRepository,
	bot adapter.MessengerAdapter,
	tr *i18n.Translator,
	loc model.LocationInfo,
	feedback FeedbackScheduler,
	logger *zerolog.Logger,
	dev bool,
) NotificationUseCase {
	return &notificationUC{
		subs:     subs,
		bot:      bot,
		tr:       tr,
		loc:      loc,
		feedback: feedback,
		log:      logger,
		dev:      dev,
	}
}

func (uc *notificationUC) NotifyOrderReady(ctx context.Context, phone, orderID string, items []string) model.DeliveryResult {
	normalized, err := model.NormalizePhone(phone)
	if err != nil {
		metrics.IncNotification("recipient_unknown")
		return model.DeliveryResult{Status: model.StatusRecipientUnknown}
	}

	sub, err := uc.subs.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Info().
				Str("phone", logging.RedactPhone(normalized, uc.dev)).
				Str("order_id", orderID).
				Msg("notification target not in directory")
			metrics.IncNotification("recipient_unknown")
			return model.DeliveryResult{Status: model.StatusRecipientUnknown}
		}
		metrics.IncNotification("transport_failed")
		return model.DeliveryResult{Status: model.StatusTransportFailed, Reason: err.Error()}
	}

	itemsLine := ""
	if len(items) > 0 {
		itemsLine = uc.tr.T("order_items_line", strings.Join(items, ", "))
	}
	text := uc.tr.T("order_ready", orderID, itemsLine, uc.loc.ContactPhone, uc.loc.ScheduleText)

	if err := uc.bot.SendMessage(ctx, sub.ChatID, text, &adapter.SendOptions{Markdown: true}); err != nil {
		uc.log.Error().Err(err).
			Int64("chat_id", sub.ChatID).
			Str("order_id", orderID).
			Msg("order-ready delivery failed")
		metrics.IncNotification("transport_failed")
		return model.DeliveryResult{Status: model.StatusTransportFailed, Reason: err.Error()}
	}

	uc.log.Info().Int64("chat_id", sub.ChatID).Str("order_id", orderID).Msg("order-ready delivered")
	metrics.IncNotification("delivered")

	if uc.feedback != nil {
		if err := uc.feedback.ScheduleForChat(ctx, sub.ChatID); err != nil {
			// Follow-up scheduling must not affect the delivery result.
			uc.log.Warn().Err(err).Int64("chat_id", sub.ChatID).Msg("feedback scheduling failed")
		}
	}
	return model.DeliveryResult{Status: model.StatusDelivered}
}
