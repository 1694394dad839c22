// internal/service/loyalty/engine.go
package loyalty

import (
	"context"
	"fmt"
	"math"

	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"
	"loyaltyhub-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// Engine owns the loyalty ruleset and the read-only point preview. The
// portal workflow only sees the PreviewPoints contract, never the config
// internals.
type Engine struct {
	configRepo *postgres.LoyaltyConfigRepository
	logger     *zap.Logger
}

func NewEngine(configRepo *postgres.LoyaltyConfigRepository, logger *zap.Logger) *Engine {
	return &Engine{
		configRepo: configRepo,
		logger:     logger,
	}
}

// GetConfig retrieves the ruleset for a restaurant.
func (e *Engine) GetConfig(ctx context.Context, restaurantID int64) (*loyalty.Config, error) {
	cfg, err := e.configRepo.FindByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loyalty config: %w", err)
	}
	return cfg, nil
}

// PreviewPoints computes the points a spend would earn without committing
// anything. A per-item override is a fixed tier-independent points-per-unit
// value; otherwise points are floor(amount * rate * tier multiplier), taken
// per unit and scaled by quantity. Never negative.
func (e *Engine) PreviewPoints(cfg *loyalty.Config, item *menu.Item, amount float64, tier string, quantity int64) int64 {
	if cfg == nil || amount <= 0 || quantity <= 0 {
		return 0
	}

	if item != nil {
		if override, ok := cfg.ItemOverrides[item.ID]; ok {
			if override < 0 {
				return 0
			}
			return override * quantity
		}
	}

	perUnit := int64(math.Floor(amount * cfg.PointsPerAED * cfg.MultiplierFor(tier)))
	if perUnit < 0 {
		return 0
	}
	return perUnit * quantity
}
