// internal/domain/transaction/entity.go
package transaction

import (
	"database/sql"
	"time"
)

type TransactionType string

const (
	TypePurchase   TransactionType = "purchase"
	TypeRedemption TransactionType = "redemption"
	TypeAdjustment TransactionType = "adjustment"
)

// PointTransaction is one ledger entry. Creating an entry and updating the
// customer balance happen in the same database transaction.
type PointTransaction struct {
	ID           int64           `json:"id" db:"id"`
	Reference    string          `json:"reference" db:"reference"`
	RestaurantID int64           `json:"restaurant_id" db:"restaurant_id"`
	CustomerID   int64           `json:"customer_id" db:"customer_id"`
	BranchID     sql.NullInt64   `json:"branch_id,omitempty" db:"branch_id"`
	Type         TransactionType `json:"type" db:"type"`
	Points       int64           `json:"points" db:"points"`
	Description  string          `json:"description" db:"description"`
	AmountSpent  float64         `json:"amount_spent" db:"amount_spent"`
	RewardID     sql.NullInt64   `json:"reward_id,omitempty" db:"reward_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
