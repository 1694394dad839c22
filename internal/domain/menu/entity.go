// internal/domain/menu/entity.go
package menu

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Item struct {
	ID           int64   `json:"id" db:"id"`
	RestaurantID int64   `json:"restaurant_id" db:"restaurant_id"`
	Name         string  `json:"name" db:"name"`
	SellingPrice float64 `json:"selling_price" db:"selling_price"`
	IsActive     bool    `json:"is_active" db:"is_active"`

	// Dietary / category tags, e.g. "vegan", "grill"
	Tags pq.StringArray `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// FindByID resolves an item in a loaded catalog slice. Returns nil when the
// id references a since-removed or inactive item.
func FindByID(items []Item, id int64) *Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
