package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/raas/backend/internal/domain/bulk"
	"github.com/raas/backend/internal/domain/energy"
	"github.com/raas/backend/internal/domain/shared"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/infrastructure/strategy"
	"go.uber.org/zap"
)

// StrategyFactory picks the processing strategy for a distributor
type StrategyFactory struct {
	registry     *strategy.StrategyRegistry
	distributors energy.DistributorRepository
	logger       *zap.Logger
}

// NewStrategyFactory creates a new StrategyFactory
func NewStrategyFactory(registry *strategy.StrategyRegistry, distributors energy.DistributorRepository, l *zap.Logger) *StrategyFactory {
	if l == nil {
		l = zap.NewNop()
	}
	return &StrategyFactory{
		registry:     registry,
		distributors: distributors,
		logger:       l,
	}
}

// ForDistributor loads the distributor and returns the strategy registered
// for its code or name. Unknown distributors fall back to the default
// strategy with a warning.
func (f *StrategyFactory) ForDistributor(ctx context.Context, distributorID uuid.UUID) (bulk.ProcessingStrategy, error) {
	dist, err := f.distributors.FindByID(ctx, distributorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrDistributorNotFound
		}
		return nil, fmt.Errorf("failed to load distributor: %w", err)
	}

	for _, key := range []string{dist.Code, dist.Name} {
		if key != "" && f.registry.IsRegistered(key) {
			return f.registry.Get(key)
		}
	}

	s, _ := f.registry.GetOrDefault("")
	if s == nil {
		return nil, fmt.Errorf("%w: no processing strategy for distributor '%s'", shared.ErrNotFound, dist.Name)
	}
	logger.For(ctx, f.logger).Warn("No processing strategy for distributor, using default",
		zap.String("distributor", dist.Name),
		zap.String("normalized", strategy.NormalizeName(dist.Name)),
		zap.String("strategy", s.Name()))
	return s, nil
}
