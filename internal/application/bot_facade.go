package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/i18n"
	"telegram-order-notifier/internal/infra/metrics"
	"telegram-order-notifier/internal/usecase"
)

// BotFacade routes classified events to the use cases and applies the admin
// gate. Regular chats are routed exactly like unknown input when they touch
// an admin surface, so nothing in their reachable outcomes reveals that the
// surface exists.
type BotFacade struct {
	Onboarding usecase.OnboardingUseCase
	Location   usecase.LocationUseCase
	Estimate   usecase.EstimateUseCase
	Feedback   usecase.FeedbackUseCase
	Broadcast  usecase.BroadcastUseCase
	Stats      usecase.StatsUseCase

	bot    adapter.MessengerAdapter
	menus  *usecase.Menus
	tr     *i18n.Translator
	admins model.AdminSet

	supportUsername string
	instagramURL    string
	contactPhone    string
	scheduleText    string

	log *zerolog.Logger
}

type FacadeDeps struct {
	Onboarding usecase.OnboardingUseCase
	Location   usecase.LocationUseCase
	Estimate   usecase.EstimateUseCase
	Feedback   usecase.FeedbackUseCase
	Broadcast  usecase.BroadcastUseCase
	Stats      usecase.StatsUseCase

	Bot    adapter.MessengerAdapter
	Menus  *usecase.Menus
	Tr     *i18n.Translator
	Admins model.AdminSet

	SupportUsername string
	InstagramURL    string
	ContactPhone    string
	ScheduleText    string

	Log *zerolog.Logger
}

func NewBotFacade(d FacadeDeps) *BotFacade {
	return &BotFacade{
		Onboarding:      d.Onboarding,
		Location:        d.Location,
		Estimate:        d.Estimate,
		Feedback:        d.Feedback,
		Broadcast:       d.Broadcast,
		Stats:           d.Stats,
		bot:             d.Bot,
		menus:           d.Menus,
		tr:              d.Tr,
		admins:          d.Admins,
		supportUsername: d.SupportUsername,
		instagramURL:    d.InstagramURL,
		contactPhone:    d.ContactPhone,
		scheduleText:    d.ScheduleText,
		log:             d.Log,
	}
}

// HandleEvent processes one classified update. Every failure branch resolves
// to a logged error; nothing here may take down the handling worker.
func (b *BotFacade) HandleEvent(ctx context.Context, ev model.Event) error {
	switch ev.Kind {
	case model.EventStart:
		b.cancelEstimate(ctx, ev.ChatID)
		return b.Onboarding.HandleStart(ctx, ev.ChatID, ev.StartToken)
	case model.EventContact:
		b.cancelEstimate(ctx, ev.ChatID)
		return b.Onboarding.HandleContact(ctx, ev.ChatID, ev.Phone, ev.Name)
	case model.EventButton:
		return b.handleButton(ctx, ev)
	case model.EventCommand:
		return b.handleCommand(ctx, ev)
	case model.EventText:
		return b.handleText(ctx, ev)
	default:
		// Unrecognized payloads are acknowledged and dropped.
		return nil
	}
}

func (b *BotFacade) handleButton(ctx context.Context, ev model.Event) error {
	if ev.Label != model.ActionEstimate && ev.Label != model.ActionCalculator {
		b.cancelEstimate(ctx, ev.ChatID)
	}

	switch ev.Label {
	case model.ActionLocation:
		return b.Location.SendLocation(ctx, ev.ChatID)
	case model.ActionSchedule:
		return b.bot.SendMessage(ctx, ev.ChatID, b.scheduleText, nil)
	case model.ActionContactPhone:
		return b.bot.SendMessage(ctx, ev.ChatID, b.tr.T("contact_phone_line", b.contactPhone), nil)
	case model.ActionHelp:
		return b.sendHelp(ctx, ev.ChatID)
	case model.ActionPrices:
		return b.bot.SendMessage(ctx, ev.ChatID, b.tr.T("price_list"), &adapter.SendOptions{Markdown: true})
	case model.ActionPortfolio:
		return b.sendPortfolio(ctx, ev.ChatID)
	case model.ActionEstimate:
		return b.Estimate.Arm(ctx, ev.ChatID)
	case model.ActionCalculator:
		if !b.admins.IsAdmin(ev.ChatID) {
			metrics.IncAdminCommand("calculator", "unauthorized")
			return b.redirectToWelcome(ctx, ev.ChatID)
		}
		metrics.IncAdminCommand("calculator", "authorized")
		return b.Estimate.Arm(ctx, ev.ChatID)
	case model.ActionStats:
		if !b.admins.IsAdmin(ev.ChatID) {
			metrics.IncAdminCommand("stats", "unauthorized")
			return b.redirectToWelcome(ctx, ev.ChatID)
		}
		metrics.IncAdminCommand("stats", "authorized")
		return b.sendStats(ctx, ev.ChatID)
	case model.ActionBroadcast:
		if !b.admins.IsAdmin(ev.ChatID) {
			metrics.IncAdminCommand("broadcast", "unauthorized")
			return b.redirectToWelcome(ctx, ev.ChatID)
		}
		metrics.IncAdminCommand("broadcast", "authorized")
		return b.bot.SendMessage(ctx, ev.ChatID, b.tr.T("broadcast_instructions"), &adapter.SendOptions{Markdown: true})
	case model.ActionPickupYes:
		return b.Feedback.HandlePickupResponse(ctx, ev.ChatID, true)
	case model.ActionPickupNo:
		return b.Feedback.HandlePickupResponse(ctx, ev.ChatID, false)
	default:
		return nil
	}
}

func (b *BotFacade) handleCommand(ctx context.Context, ev model.Event) error {
	b.cancelEstimate(ctx, ev.ChatID)

	switch ev.Command {
	case "help":
		return b.sendHelp(ctx, ev.ChatID)
	case "location":
		return b.Location.SendLocation(ctx, ev.ChatID)
	case "admin":
		if !b.admins.IsAdmin(ev.ChatID) {
			metrics.IncAdminCommand("admin", "unauthorized")
			if err := b.bot.SendMessage(ctx, ev.ChatID, b.tr.T("unknown_command"), nil); err != nil {
				return err
			}
			return b.Onboarding.HandleStart(ctx, ev.ChatID, "")
		}
		metrics.IncAdminCommand("admin", "authorized")
		return b.bot.SendMessage(ctx, ev.ChatID, b.tr.T("admin_menu"), b.menus.Admin())
	case "broadcast":
		if !b.admins.IsAdmin(ev.ChatID) {
			metrics.IncAdminCommand("broadcast", "unauthorized")
			return b.redirectToWelcome(ctx, ev.ChatID)
		}
		metrics.IncAdminCommand("broadcast", "authorized")
		return b.runBroadcast(ctx, ev.ChatID, ev.Args)
	default:
		b.log.Debug().Int64("chat_id", ev.ChatID).Str("command", ev.Command).Msg("unhandled command")
		return nil
	}
}

func (b *BotFacade) handleText(ctx context.Context, ev model.Event) error {
	armed, err := b.Estimate.Armed(ctx, ev.ChatID)
	if err != nil {
		b.log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("estimate state lookup failed")
	}
	if armed {
		return b.Estimate.HandlePrompt(ctx, ev.ChatID, ev.Text)
	}

	if score, err := strconv.Atoi(strings.TrimSpace(ev.Text)); err == nil && score >= 1 && score <= 5 {
		return b.Feedback.HandleRating(ctx, ev.ChatID, score)
	}

	// Free text outside any armed flow is acknowledged silently.
	b.log.Debug().Int64("chat_id", ev.ChatID).Msg("unmatched text ignored")
	return nil
}

func (b *BotFacade) runBroadcast(ctx context.Context, adminID int64, text string) error {
	report, err := b.Broadcast.Broadcast(ctx, strings.TrimSpace(text))
	if err != nil {
		if err == domain.ErrEmptyBroadcast {
			return b.bot.SendMessage(ctx, adminID, b.tr.T("broadcast_instructions"), &adapter.SendOptions{Markdown: true})
		}
		return err
	}
	return b.bot.SendMessage(ctx, adminID, b.tr.T("broadcast_report", report.Sent, report.Failed), nil)
}

func (b *BotFacade) sendStats(ctx context.Context, chatID int64) error {
	count, err := b.Stats.TotalSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("total subscribers: %w", err)
	}
	return b.bot.SendMessage(ctx, chatID, b.tr.T("stats", count), &adapter.SendOptions{Markdown: true})
}

func (b *BotFacade) sendHelp(ctx context.Context, chatID int64) error {
	return b.bot.SendMessage(ctx, chatID, b.tr.T("help", b.supportUsername, b.contactPhone), nil)
}

func (b *BotFacade) sendPortfolio(ctx context.Context, chatID int64) error {
	opts := &adapter.SendOptions{
		Markdown: true,
		InlineButtons: [][]adapter.InlineButton{
			{{Text: b.tr.T("portfolio_button"), URL: b.instagramURL}},
		},
	}
	return b.bot.SendMessage(ctx, chatID, b.tr.T("portfolio", b.instagramURL), opts)
}

// redirectToWelcome is the admin-gate fallback: the chat is steered back to
// the regular flow with no hint of what it tried to reach.
func (b *BotFacade) redirectToWelcome(ctx context.Context, chatID int64) error {
	if err := b.bot.SendMessage(ctx, chatID, b.tr.T("redirect_menu"), nil); err != nil {
		return err
	}
	return b.Onboarding.HandleStart(ctx, chatID, "")
}

func (b *BotFacade) cancelEstimate(ctx context.Context, chatID int64) {
	if err := b.Estimate.Cancel(ctx, chatID); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("estimate cancel failed")
	}
}
