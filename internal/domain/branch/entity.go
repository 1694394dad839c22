// internal/domain/branch/entity.go
package branch

import (
	"database/sql"
	"time"
)

type Branch struct {
	ID           int64  `json:"id" db:"id"`
	RestaurantID int64  `json:"restaurant_id" db:"restaurant_id"`
	Name         string `json:"name" db:"name"`
	Location     string `json:"location" db:"location"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// Staff gate secret, never serialized
	PasswordHash string `json:"-" db:"password_hash"`

	Notes sql.NullString `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Stats are per-branch aggregates shown on the staff dashboard.
type Stats struct {
	BranchID          int64   `json:"branch_id"`
	TotalCustomers    int64   `json:"total_customers"`
	TotalRedemptions  int64   `json:"total_redemptions"`
	TotalPointsIssued int64   `json:"total_points_issued"`
	TotalRevenue      float64 `json:"total_revenue"`
}
