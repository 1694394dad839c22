// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"strings"
	"time"
)

// Loyalty tiers, ordered lowest to highest earning rate.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

type Customer struct {
	ID           int64  `json:"id" db:"id"`
	RestaurantID int64  `json:"restaurant_id" db:"restaurant_id"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	Email        string `json:"email" db:"email"`

	TotalPoints int64  `json:"total_points" db:"total_points"`
	CurrentTier string `json:"current_tier" db:"current_tier"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// FullName joins the name parts for display and transaction notes.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ValidTier reports whether t is one of the known loyalty tiers.
func ValidTier(t string) bool {
	switch t {
	case TierBronze, TierSilver, TierGold:
		return true
	}
	return false
}
