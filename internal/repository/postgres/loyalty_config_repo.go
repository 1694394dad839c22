// internal/repository/postgres/loyalty_config_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"loyaltyhub-service/internal/domain/loyalty"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoyaltyConfigRepository struct {
	db *pgxpool.Pool
}

func NewLoyaltyConfigRepository(db *pgxpool.Pool) *LoyaltyConfigRepository {
	return &LoyaltyConfigRepository{db: db}
}

// FindByRestaurant retrieves the loyalty ruleset of a restaurant.
// Multipliers and per-item overrides are stored as JSONB.
func (r *LoyaltyConfigRepository) FindByRestaurant(ctx context.Context, restaurantID int64) (*loyalty.Config, error) {
	query := `
		SELECT id, restaurant_id, points_per_aed, tier_multipliers,
		       item_overrides, silver_threshold, gold_threshold,
		       created_at, updated_at
		FROM loyalty_configs
		WHERE restaurant_id = $1
	`

	var (
		cfg           loyalty.Config
		multipliers   []byte
		itemOverrides []byte
	)

	err := r.db.QueryRow(ctx, query, restaurantID).Scan(
		&cfg.ID, &cfg.RestaurantID, &cfg.PointsPerAED, &multipliers,
		&itemOverrides, &cfg.SilverThreshold, &cfg.GoldThreshold,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loyalty config: %w", err)
	}

	if len(multipliers) > 0 {
		if err := json.Unmarshal(multipliers, &cfg.TierMultipliers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tier multipliers: %w", err)
		}
	}
	if len(itemOverrides) > 0 {
		// JSON object keys are strings; override keys are menu item ids.
		raw := map[string]int64{}
		if err := json.Unmarshal(itemOverrides, &raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item overrides: %w", err)
		}
		cfg.ItemOverrides = make(map[int64]int64, len(raw))
		for k, v := range raw {
			id, err := strconv.ParseInt(k, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid item override key %q: %w", k, err)
			}
			cfg.ItemOverrides[id] = v
		}
	}

	return &cfg, nil
}
