package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-order-notifier/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	TotalSubscribers(ctx context.Context) (int, error)
}

type statsUC struct {
	subs repository.SubscriberRepository
	log  *zerolog.Logger
}

func NewStatsUseCase(subs repository.SubscriberRepository, logger *zerolog.Logger) StatsUseCase {
	return &statsUC{subs: subs, log: logger}
}

func (s *statsUC) TotalSubscribers(ctx context.Context) (int, error) {
	return s.subs.CountAll(ctx)
}
