package ai

import (
	"context"
	"log"

	"telegram-order-notifier/internal/domain/ports/adapter"
)

var _ adapter.EstimateAdapter = (*NoopEstimator)(nil)

// NoopEstimator implements adapter.EstimateAdapter for local/dev runs
// without an API key. It answers a fixed one-hour estimate.
type NoopEstimator struct{}

func NewNoopEstimator() *NoopEstimator {
	return &NoopEstimator{}
}

func (a *NoopEstimator) EstimateTask(ctx context.Context, description string) (adapter.TaskEstimate, error) {
	log.Printf("[noop-ai] estimate request: %s", description)
	return adapter.TaskEstimate{Summary: "Стандартна робота", Minutes: 60}, nil
}
