// internal/service/customer/customer.go
package customer

import (
	"context"
	"strings"

	"loyaltyhub-service/internal/domain/customer"
	xerrors "loyaltyhub-service/internal/pkg/errors"
	"loyaltyhub-service/internal/repository/postgres"

	"go.uber.org/zap"
)

type Service struct {
	customerRepo *postgres.CustomerRepository
	logger       *zap.Logger
}

func NewService(customerRepo *postgres.CustomerRepository, logger *zap.Logger) *Service {
	return &Service{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// FindByEmail resolves a customer for the live-typing search. An empty
// email is invalid input; an unknown email is ErrNotFound. Callers on the
// search path treat both as "no customer" without surfacing an error.
func (s *Service) FindByEmail(ctx context.Context, restaurantID int64, email string) (*customer.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, xerrors.ErrInvalidInput
	}

	c, err := s.customerRepo.FindByEmail(ctx, restaurantID, email)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

// GetByID retrieves the authoritative customer record, used to refresh the
// balance and tier after a commit.
func (s *Service) GetByID(ctx context.Context, restaurantID, customerID int64) (*customer.Customer, error) {
	return s.customerRepo.FindByID(ctx, restaurantID, customerID)
}
