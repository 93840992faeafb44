package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain"
	"telegram-order-notifier/internal/domain/model"
	"telegram-order-notifier/internal/domain/ports/adapter"
	"telegram-order-notifier/internal/domain/ports/repository"
	"telegram-order-notifier/internal/infra/metrics"
)

var _ BroadcastUseCase = (*broadcastUC)(nil)

// broadcastConcurrency bounds in-flight sends. The fan-out must not go
// through the update worker pool: Broadcast itself runs on a pool worker,
// and submitting its sends there can leave no worker free to drain them.
const broadcastConcurrency = 8

// BroadcastUseCase fans one message out to every directory entry. A failing
// recipient never aborts the loop; the report counts are exact and
// Sent+Failed equals the directory size at the start of the call. A cancelled
// context stops the fan-out early and returns the partial counts alongside
// ctx.Err().
type BroadcastUseCase interface {
	Broadcast(ctx context.Context, text string) (model.BroadcastReport, error)
}

type broadcastUC struct {
	subs repository.SubscriberRepository
	bot  adapter.MessengerAdapter
	log  *zerolog.Logger
}

func NewBroadcastUseCase(
	subs repository.SubscriberRepository,
	bot adapter.MessengerAdapter,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		subs: subs,
		bot:  bot,
		log:  logger,
	}
}

func (uc *broadcastUC) Broadcast(ctx context.Context, text string) (model.BroadcastReport, error) {
	if strings.TrimSpace(text) == "" {
		return model.BroadcastReport{}, domain.ErrEmptyBroadcast
	}

	subs, err := uc.subs.ListAll(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to fetch subscribers for broadcast")
		return model.BroadcastReport{}, err
	}
	uc.log.Info().Int("recipients", len(subs)).Msg("starting broadcast")

	var (
		mu     sync.Mutex
		report model.BroadcastReport
		wg     sync.WaitGroup
	)
	sem := make(chan struct{}, broadcastConcurrency)
	// Throttle to respect Telegram's API limits (approx. 30 messages/sec).
	throttle := time.NewTicker(time.Second / 25)
	defer throttle.Stop()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			wg.Wait()
			uc.log.Warn().
				Int("sent", report.Sent).
				Int("failed", report.Failed).
				Int("recipients", len(subs)).
				Msg("broadcast cancelled before completion")
			return report, ctx.Err()
		case <-throttle.C:
		}

		chatID := sub.ChatID
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			err := uc.bot.SendMessage(ctx, chatID, text, nil)
			mu.Lock()
			if err != nil {
				report.Failed++
			} else {
				report.Sent++
			}
			mu.Unlock()
			if err != nil {
				// Expected steady state: some users block the bot or leave.
				uc.log.Warn().Err(err).Int64("chat_id", chatID).Msg("broadcast send failed")
				metrics.IncBroadcastRecipient("failed")
				return
			}
			metrics.IncBroadcastRecipient("sent")
		}()
	}
	wg.Wait()

	uc.log.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("broadcast complete")
	return report, nil
}
