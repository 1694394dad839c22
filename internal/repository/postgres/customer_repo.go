// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loyaltyhub-service/internal/domain/customer"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id, restaurant_id, first_name, last_name, email,
	total_points, current_tier, is_active,
	created_at, updated_at, deleted_at
`

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.RestaurantID, &c.FirstName, &c.LastName, &c.Email,
		&c.TotalPoints, &c.CurrentTier, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	return &c, nil
}

// FindByID retrieves a customer scoped to a restaurant.
func (r *CustomerRepository) FindByID(ctx context.Context, restaurantID, customerID int64) (*customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE id = $1 AND restaurant_id = $2 AND deleted_at IS NULL
	`, customerColumns)

	return scanCustomer(r.db.QueryRow(ctx, query, customerID, restaurantID))
}

// FindByEmail retrieves a customer by email, case-insensitively.
func (r *CustomerRepository) FindByEmail(ctx context.Context, restaurantID int64, email string) (*customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE restaurant_id = $1 AND LOWER(email) = $2 AND deleted_at IS NULL
	`, customerColumns)

	return scanCustomer(r.db.QueryRow(ctx, query, restaurantID, strings.ToLower(strings.TrimSpace(email))))
}

// UpdateBalanceTx sets the authoritative balance and tier inside an open
// transaction. Used only by the point-commit path.
func (r *CustomerRepository) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, customerID, totalPoints int64, tier string) error {
	query := `
		UPDATE customers
		SET total_points = $2, current_tier = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := tx.Exec(ctx, query, customerID, totalPoints, tier)
	if err != nil {
		return fmt.Errorf("failed to update customer balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// LockForUpdateTx reads a customer row with FOR UPDATE so concurrent
// commits against the same customer serialize on the database.
func (r *CustomerRepository) LockForUpdateTx(ctx context.Context, tx pgx.Tx, restaurantID, customerID int64) (*customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE id = $1 AND restaurant_id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`, customerColumns)

	return scanCustomer(tx.QueryRow(ctx, query, customerID, restaurantID))
}
