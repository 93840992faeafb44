package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/usecase"
)

// FeedbackWorker periodically processes due feedback tasks: first-time pickup
// questions and retries alike.
type FeedbackWorker struct {
	interval time.Duration
	fbUC     usecase.FeedbackUseCase
	log      *zerolog.Logger
}

func NewFeedbackWorker(interval time.Duration, fbUC usecase.FeedbackUseCase, logger *zerolog.Logger) *FeedbackWorker {
	compLog := logger.With().Str("component", "FeedbackWorker").Logger()
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &FeedbackWorker{
		interval: interval,
		fbUC:     fbUC,
		log:      &compLog,
	}
}

func (w *FeedbackWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting feedback worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping feedback worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.fbUC.ProcessDue(ctx, time.Now())
			if err != nil {
				w.log.Error().Err(err).Msg("feedback sweep error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("pickup check-ins sent")
			}
		}
	}
}
