// internal/service/menu/menu.go
package menu

import (
	"context"
	"fmt"

	"loyaltyhub-service/internal/domain/menu"
	"loyaltyhub-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type Service struct {
	menuRepo *postgres.MenuItemRepository
	logger   *zap.Logger
}

func NewService(menuRepo *postgres.MenuItemRepository, logger *zap.Logger) *Service {
	return &Service{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// ListActiveItems retrieves the catalog used in item-based assignment.
func (s *Service) ListActiveItems(ctx context.Context, restaurantID int64) ([]menu.Item, error) {
	items, err := s.menuRepo.ListActive(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}
