package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/infra/metrics"
	red "telegram-order-notifier/internal/infra/redis"
	"telegram-order-notifier/internal/infra/worker"
)

// EventHandler is the application entry point an update lands in after
// classification.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev model.Event) error
}

// RealBotAdapter sends through tgbotapi and feeds incoming updates (webhook
// or long polling) to the event handler through a worker pool.
type RealBotAdapter struct {
	bot        *tgbotapi.BotAPI
	classifier *Classifier
	handler    EventHandler
	pool       *worker.Pool
	limiter    *red.RateLimiter

	rateLimit     int
	handleTimeout time.Duration
	cancelPolling context.CancelFunc

	log *zerolog.Logger
}

func NewRealBotAdapter(token string, classifier *Classifier, pool *worker.Pool, limiter *red.RateLimiter, rateLimit int, log *zerolog.Logger) (*RealBotAdapter, error) {
	if classifier == nil || pool == nil {
		return nil, errors.New("telegram adapter: missing dependency")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		rateLimit = 20
	}
	return &RealBotAdapter{
		bot:           bot,
		classifier:    classifier,
		pool:          pool,
		limiter:       limiter,
		rateLimit:     rateLimit,
		handleTimeout: 30 * time.Second,
		log:           log,
	}, nil
}

var _ adapter.MessengerAdapter = (*RealBotAdapter)(nil)

// SetHandler installs the application entry point. The adapter is built
// before the use cases that send through it, so the handler arrives after
// construction and before any intake starts.
func (r *RealBotAdapter) SetHandler(h EventHandler) { r.handler = h }

// SendMessage renders opts into tgbotapi markup. When Markdown parsing is
// rejected by Telegram the message is retried once as plain text, so a stray
// underscore in user data never loses a notification.
func (r *RealBotAdapter) SendMessage(ctx context.Context, chatID int64, text string, opts *adapter.SendOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if opts != nil {
		if opts.Markdown {
			msg.ParseMode = tgbotapi.ModeMarkdown
		}
		if markup := buildMarkup(opts); markup != nil {
			msg.ReplyMarkup = markup
		}
	}

	_, err := r.bot.Send(msg)
	if err != nil && msg.ParseMode != "" && strings.Contains(err.Error(), "can't parse entities") {
		msg.ParseMode = ""
		_, err = r.bot.Send(msg)
	}
	return err
}

func (r *RealBotAdapter) SendLocation(ctx context.Context, chatID int64, lat, lon float64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := r.bot.Send(tgbotapi.NewLocation(chatID, lat, lon))
	return err
}

func (r *RealBotAdapter) SendVideo(ctx context.Context, chatID int64, videoURL, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(videoURL))
	video.Caption = caption
	_, err := r.bot.Send(video)
	return err
}

func buildMarkup(opts *adapter.SendOptions) interface{} {
	if len(opts.InlineButtons) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts.InlineButtons))
		for _, row := range opts.InlineButtons {
			if len(row) == 0 {
				continue
			}
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if len(opts.ReplyKeyboard) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(opts.ReplyKeyboard))
		for _, row := range opts.ReplyKeyboard {
			if len(row) == 0 {
				continue
			}
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, b := range row {
				kb := tgbotapi.NewKeyboardButton(b.Text)
				kb.RequestContact = b.RequestContact
				btns = append(btns, kb)
			}
			rows = append(rows, btns)
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		markup.OneTimeKeyboard = opts.OneTime
		return markup
	}
	return nil
}

// WebhookHandler ingests updates pushed by Telegram. It always answers 200:
// a non-2xx makes Telegram redeliver the same update, and a broken update
// stays broken.
func (r *RealBotAdapter) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer w.WriteHeader(http.StatusOK)

		var up tgbotapi.Update
		if err := json.NewDecoder(req.Body).Decode(&up); err != nil {
			r.log.Warn().Err(err).Msg("webhook: undecodable update")
			return
		}
		r.dispatch(req.Context(), up)
	}
}

// StartPolling pulls updates over long polling. Used in development where
// Telegram cannot reach a public webhook URL.
func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			return ctx.Err()
		case up := <-updates:
			r.dispatch(ctx, up)
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealBotAdapter) dispatch(ctx context.Context, up tgbotapi.Update) {
	ev := r.classifier.Classify(up)
	metrics.IncUpdateReceived(ev.Kind.String())
	if ev.Kind == model.EventNone || r.handler == nil {
		return
	}

	if r.limiter != nil {
		allowed, err := r.limiter.Allow(ctx, red.ChatUpdateKey(ev.ChatID), r.rateLimit, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("rate limiter unavailable")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return
		}
	}

	task := func(taskCtx context.Context) error {
		handleCtx, cancel := context.WithTimeout(taskCtx, r.handleTimeout)
		defer cancel()
		if err := r.handler.HandleEvent(handleCtx, ev); err != nil {
			r.log.Error().Err(err).Int64("chat_id", ev.ChatID).Str("kind", ev.Kind.String()).Msg("update handling failed")
		}
		return nil
	}
	if err := r.pool.Submit(task); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("worker pool saturated, dropping update")
	}
}
