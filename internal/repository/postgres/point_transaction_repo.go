// internal/repository/postgres/point_transaction_repo.go
package postgres

import (
	"context"
	"fmt"

	"loyaltyhub-service/internal/domain/transaction"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PointTransactionRepository struct {
	db *pgxpool.Pool
}

func NewPointTransactionRepository(db *pgxpool.Pool) *PointTransactionRepository {
	return &PointTransactionRepository{db: db}
}

// CreateWithTx inserts a ledger entry inside an open transaction. The
// caller pairs it with the customer balance update before committing.
func (r *PointTransactionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *transaction.PointTransaction) error {
	query := `
		INSERT INTO point_transactions (
			reference, restaurant_id, customer_id, branch_id,
			type, points, description, amount_spent, reward_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		ctx, query,
		t.Reference, t.RestaurantID, t.CustomerID, t.BranchID,
		t.Type, t.Points, t.Description, t.AmountSpent, t.RewardID,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create point transaction: %w", err)
	}
	return nil
}

// ListByCustomer retrieves a customer's ledger, newest first.
func (r *PointTransactionRepository) ListByCustomer(ctx context.Context, restaurantID, customerID int64, limit, offset int) ([]transaction.PointTransaction, int64, error) {
	countQuery := `
		SELECT COUNT(*) FROM point_transactions
		WHERE restaurant_id = $1 AND customer_id = $2
	`
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, restaurantID, customerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT id, reference, restaurant_id, customer_id, branch_id,
		       type, points, description, amount_spent, reward_id, created_at
		FROM point_transactions
		WHERE restaurant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, restaurantID, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []transaction.PointTransaction
	for rows.Next() {
		var t transaction.PointTransaction
		if err := rows.Scan(
			&t.ID, &t.Reference, &t.RestaurantID, &t.CustomerID, &t.BranchID,
			&t.Type, &t.Points, &t.Description, &t.AmountSpent, &t.RewardID, &t.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}

	return txs, total, rows.Err()
}
