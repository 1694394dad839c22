// internal/repository/postgres/branch_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"loyaltyhub-service/internal/domain/branch"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BranchRepository struct {
	db *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{db: db}
}

// ListActive retrieves the active branches of a restaurant.
func (r *BranchRepository) ListActive(ctx context.Context, restaurantID int64) ([]branch.Branch, error) {
	query := `
		SELECT id, restaurant_id, name, location, is_active, password_hash,
		       notes, created_at, updated_at, deleted_at
		FROM branches
		WHERE restaurant_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []branch.Branch
	for rows.Next() {
		var b branch.Branch
		if err := rows.Scan(
			&b.ID, &b.RestaurantID, &b.Name, &b.Location, &b.IsActive, &b.PasswordHash,
			&b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	return branches, rows.Err()
}

// FindByID retrieves a branch scoped to a restaurant.
func (r *BranchRepository) FindByID(ctx context.Context, restaurantID, branchID int64) (*branch.Branch, error) {
	query := `
		SELECT id, restaurant_id, name, location, is_active, password_hash,
		       notes, created_at, updated_at, deleted_at
		FROM branches
		WHERE id = $1 AND restaurant_id = $2 AND deleted_at IS NULL
	`

	var b branch.Branch
	err := r.db.QueryRow(ctx, query, branchID, restaurantID).Scan(
		&b.ID, &b.RestaurantID, &b.Name, &b.Location, &b.IsActive, &b.PasswordHash,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find branch: %w", err)
	}

	return &b, nil
}

// GetStats aggregates the dashboard counters for one branch. Customer count
// is restaurant-wide (customers are not branch-scoped); redemptions, points
// issued and revenue come from the branch's ledger entries.
func (r *BranchRepository) GetStats(ctx context.Context, restaurantID, branchID int64) (*branch.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers
			  WHERE restaurant_id = $1 AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE t.type = 'redemption'),
			COALESCE(SUM(t.points) FILTER (WHERE t.type = 'purchase'), 0),
			COALESCE(SUM(t.amount_spent) FILTER (WHERE t.type = 'purchase'), 0)
		FROM point_transactions t
		WHERE t.restaurant_id = $1 AND t.branch_id = $2
	`

	stats := &branch.Stats{BranchID: branchID}
	err := r.db.QueryRow(ctx, query, restaurantID, branchID).Scan(
		&stats.TotalCustomers,
		&stats.TotalRedemptions,
		&stats.TotalPointsIssued,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate branch stats: %w", err)
	}

	return stats, nil
}
