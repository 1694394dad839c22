// internal/domain/loyalty/config.go
package loyalty

import (
	"time"

	"loyaltyhub-service/internal/domain/customer"
)

// Config is the loyalty ruleset for one restaurant. The staff workflow never
// interprets these fields directly; it only consumes the preview contract.
type Config struct {
	ID           int64 `json:"id" db:"id"`
	RestaurantID int64 `json:"restaurant_id" db:"restaurant_id"`

	// Base earn rate: points per currency unit spent (e.g. 0.1 = 10 points
	// per 100 AED).
	PointsPerAED float64 `json:"points_per_aed" db:"points_per_aed"`

	// Earn-rate multipliers per tier. A missing tier falls back to 1.0.
	TierMultipliers map[string]float64 `json:"tier_multipliers" db:"tier_multipliers"`

	// Fixed points per unit for specific menu items. An override wins over
	// the rate calculation and is tier-independent.
	ItemOverrides map[int64]int64 `json:"item_overrides" db:"item_overrides"`

	// Cumulative point balances at which a customer is promoted.
	SilverThreshold int64 `json:"silver_threshold" db:"silver_threshold"`
	GoldThreshold   int64 `json:"gold_threshold" db:"gold_threshold"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MultiplierFor returns the earn-rate multiplier for a tier.
func (c *Config) MultiplierFor(tier string) float64 {
	if m, ok := c.TierMultipliers[tier]; ok && m > 0 {
		return m
	}
	return 1.0
}

// TierForPoints computes the tier a cumulative balance entitles a customer
// to. Thresholds are inclusive; a zero threshold disables the tier.
func (c *Config) TierForPoints(points int64) string {
	if c.GoldThreshold > 0 && points >= c.GoldThreshold {
		return customer.TierGold
	}
	if c.SilverThreshold > 0 && points >= c.SilverThreshold {
		return customer.TierSilver
	}
	return customer.TierBronze
}
