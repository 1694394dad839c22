// internal/repository/postgres/menu_item_repo.go
package postgres

import (
	"context"
	"fmt"

	"loyaltyhub-service/internal/domain/menu"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuItemRepository struct {
	db *pgxpool.Pool
}

func NewMenuItemRepository(db *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

// ListActive retrieves the active catalog of a restaurant, in menu order.
func (r *MenuItemRepository) ListActive(ctx context.Context, restaurantID int64) ([]menu.Item, error) {
	query := `
		SELECT id, restaurant_id, name, selling_price, is_active, tags,
		       created_at, updated_at, deleted_at
		FROM menu_items
		WHERE restaurant_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	var items []menu.Item
	for rows.Next() {
		var it menu.Item
		if err := rows.Scan(
			&it.ID, &it.RestaurantID, &it.Name, &it.SellingPrice, &it.IsActive, &it.Tags,
			&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}
