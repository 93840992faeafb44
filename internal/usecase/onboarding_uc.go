package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/domain/ports/repository"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/infra/metrics"
)

// Compile-time check
var _ OnboardingUseCase = (*onboardingUC)(nil)

// OnboardingUseCase drives a chat from first contact to a registered,
// notifiable subscriber. Session state is never stored: it is derived on
// every update from directory membership, which makes the flow crash-safe
// and idempotent.
type OnboardingUseCase interface {
	// HandleStart answers /start. The deep-link token only personalizes the
	// welcome line; it never gates registration.
	HandleStart(ctx context.Context, chatID int64, token string) error
	// HandleContact saves a shared contact to the directory (last share wins).
	HandleContact(ctx context.Context, chatID int64, phone, name string) error
	IsRegistered(ctx context.Context, chatID int64) (bool, error)
}

type onboardingUC struct {
	subs         repository.SubscriberRepository
	bot          adapter.MessengerAdapter
	menus        *Menus
	tr           *i18n.Translator
	admins       model.AdminSet
	instagramURL string
	log          *zerolog.Logger
}

func NewOnboardingUseCase(
	subs repository.SubscriberRepository,
	bot adapter.MessengerAdapter,
	menus *Menus,
	tr *i18n.Translator,
	admins model.AdminSet,
	instagramURL string,
	logger *zerolog.Logger,
) OnboardingUseCase {
	return &onboardingUC{
		subs:         subs,
		bot:          bot,
		menus:        menus,
		tr:           tr,
		admins:       admins,
		instagramURL: instagramURL,
		log:          logger,
	}
}

func (uc *onboardingUC) HandleStart(ctx context.Context, chatID int64, token string) error {
	sub, err := uc.subs.FindByChatID(ctx, chatID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("find by chat id: %w", err)
	}

	if sub != nil {
		uc.log.Info().Int64("chat_id", chatID).Msg("welcome flow: registered, showing menu")
		return uc.bot.SendMessage(ctx, chatID,
			uc.tr.T("welcome_back", sub.Name),
			uc.menus.For(uc.admins.IsAdmin(chatID), true))
	}

	uc.log.Info().Int64("chat_id", chatID).Str("token", token).Msg("welcome flow: new, requesting phone")
	text := uc.tr.T("welcome_new")
	if token != "" {
		text = uc.tr.T("welcome_new_order", token)
	}
	return uc.bot.SendMessage(ctx, chatID, text, uc.menus.Guest())
}

func (uc *onboardingUC) HandleContact(ctx context.Context, chatID int64, phone, name string) error {
	sub, err := model.NewSubscriber(phone, chatID, name)
	if err != nil {
		uc.log.Warn().Int64("chat_id", chatID).Err(err).Msg("rejected contact share")
		return uc.bot.SendMessage(ctx, chatID, uc.tr.T("welcome_new"), uc.menus.Guest())
	}

	if prev, err := uc.subs.FindByPhone(ctx, sub.Phone); err == nil && prev.ChatID != chatID {
		// Silent re-association, last share wins.
		uc.log.Info().Int64("chat_id", chatID).Int64("prev_chat_id", prev.ChatID).Msg("phone re-associated")
	}
	if err := uc.subs.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	metrics.IncUsersRegistered()
	uc.log.Info().Int64("chat_id", chatID).Msg("contact saved")

	opts := &adapter.SendOptions{
		Markdown: true,
		InlineButtons: [][]adapter.InlineButton{
			{{Text: uc.tr.T("portfolio_button"), URL: uc.instagramURL}},
		},
	}
	if err := uc.bot.SendMessage(ctx, chatID, uc.tr.T("contact_saved", uc.instagramURL), opts); err != nil {
		return err
	}
	// Re-open the reply keyboard so the location CTA stays visible.
	return uc.bot.SendMessage(ctx, chatID, uc.tr.T("menu_hint"),
		uc.menus.For(uc.admins.IsAdmin(chatID), true))
}

func (uc *onboardingUC) IsRegistered(ctx context.Context, chatID int64) (bool, error) {
	_, err := uc.subs.FindByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
