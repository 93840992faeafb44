package usecase

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/domain/ports/repository"
	"telegram-order-notifier/internal/infra/i18n"
)

var _ EstimateUseCase = (*estimateUC)(nil)

// EstimateUseCase arms a chat for a free-form task description and turns the
// next message into a price estimate. Clients get a single number with a
// disclaimer; admins get the full cost breakdown.
type EstimateUseCase interface {
	Arm(ctx context.Context, chatID int64) error
	Armed(ctx context.Context, chatID int64) (bool, error)
	Cancel(ctx context.Context, chatID int64) error
	HandlePrompt(ctx context.Context, chatID int64, text string) error
}

type estimateUC struct {
	state   repository.ChatStateRepository
	subs    repository.SubscriberRepository
	ai      adapter.EstimateAdapter
	pricing model.PricingModel
	bot     adapter.MessengerAdapter
	menus   *Menus
	tr      *i18n.Translator
	admins  model.AdminSet
	timeout time.Duration
	log     *zerolog.Logger
}

func NewEstimateUseCase(
	state repository.ChatStateRepository,
	subs repository.SubscriberRepository,
	ai adapter.EstimateAdapter,
	pricing model.PricingModel,
	bot adapter.MessengerAdapter,
	menus *Menus,
	tr *i18n.Translator,
	admins model.AdminSet,
	logger *zerolog.Logger,
) EstimateUseCase {
	return &estimateUC{
		state:   state,
		subs:    subs,
		ai:      ai,
		pricing: pricing,
		bot:     bot,
		menus:   menus,
		tr:      tr,
		admins:  admins,
		timeout: 30 * time.Second,
		log:     logger,
	}
}

func (uc *estimateUC) Arm(ctx context.Context, chatID int64) error {
	if err := uc.state.ArmEstimate(ctx, chatID); err != nil {
		return err
	}
	return uc.bot.SendMessage(ctx, chatID, uc.tr.T("estimate_prompt"), nil)
}

func (uc *estimateUC) Armed(ctx context.Context, chatID int64) (bool, error) {
	return uc.state.EstimateArmed(ctx, chatID)
}

func (uc *estimateUC) Cancel(ctx context.Context, chatID int64) error {
	return uc.state.Disarm(ctx, chatID)
}

func (uc *estimateUC) HandlePrompt(ctx context.Context, chatID int64, text string) error {
	if err := uc.state.Disarm(ctx, chatID); err != nil {
		uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("estimate disarm failed")
	}
	if err := uc.bot.SendMessage(ctx, chatID, uc.tr.T("estimate_wait"), nil); err != nil {
		return err
	}

	aiCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	est, err := uc.ai.EstimateTask(aiCtx, text)
	if err != nil {
		uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("ai estimate failed")
		return uc.sendWithMenu(ctx, chatID, uc.tr.T("estimate_unavailable"), false)
	}

	price, err := uc.pricing.MinPrice(est.Minutes)
	if err != nil {
		return uc.sendWithMenu(ctx, chatID, uc.tr.T("estimate_unavailable"), false)
	}

	if uc.admins.IsAdmin(chatID) {
		depreciation := int(math.Round(uc.pricing.DepreciationFee))
		consumables := int(math.Round(uc.pricing.ConsumablesFee))
		taxPercent := int(math.Round(uc.pricing.TaxRate * 100))
		text := uc.tr.T("estimate_admin",
			est.Summary, est.Minutes,
			price.Labor, price.Overhead+depreciation, consumables,
			taxPercent, price.Tax, price.FinalPrice)
		return uc.sendWithMenu(ctx, chatID, text, true)
	}

	text = uc.tr.T("estimate_client", est.Summary, price.FinalPrice) + uc.tr.T("estimate_disclaimer")
	return uc.sendWithMenu(ctx, chatID, text, true)
}

func (uc *estimateUC) sendWithMenu(ctx context.Context, chatID int64, text string, markdown bool) error {
	registered := false
	if _, err := uc.subs.FindByChatID(ctx, chatID); err == nil {
		registered = true
	}
	opts := *uc.menus.For(uc.admins.IsAdmin(chatID), registered)
	opts.Markdown = markdown
	return uc.bot.SendMessage(ctx, chatID, text, &opts)
}
