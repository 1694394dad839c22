// internal/service/branch/branch.go
package branch

import (
	"context"
	"errors"
	"fmt"

	"loyaltyhub-service/internal/domain/branch"
	"loyaltyhub-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service is the branch directory: active branch listing, per-branch
// dashboard stats and the staff password gate.
type Service struct {
	branchRepo *postgres.BranchRepository
	logger     *zap.Logger
}

func NewService(branchRepo *postgres.BranchRepository, logger *zap.Logger) *Service {
	return &Service{
		branchRepo: branchRepo,
		logger:     logger,
	}
}

// ListActiveBranches retrieves the branches a staff member can select.
func (s *Service) ListActiveBranches(ctx context.Context, restaurantID int64) ([]branch.Branch, error) {
	branches, err := s.branchRepo.ListActive(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// GetBranch retrieves one branch of the restaurant.
func (s *Service) GetBranch(ctx context.Context, restaurantID, branchID int64) (*branch.Branch, error) {
	return s.branchRepo.FindByID(ctx, restaurantID, branchID)
}

// GetBranchStats aggregates the dashboard counters for a branch.
func (s *Service) GetBranchStats(ctx context.Context, restaurantID, branchID int64) (*branch.Stats, error) {
	stats, err := s.branchRepo.GetStats(ctx, restaurantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch stats: %w", err)
	}
	return stats, nil
}

// VerifyPassword checks a staff password against the branch secret.
// A wrong password is a false result, not an error.
func (s *Service) VerifyPassword(ctx context.Context, restaurantID, branchID int64, password string) (bool, error) {
	b, err := s.branchRepo.FindByID(ctx, restaurantID, branchID)
	if err != nil {
		return false, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		s.logger.Info("branch password rejected",
			zap.Int64("branch_id", branchID),
			zap.Int64("restaurant_id", restaurantID),
		)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}

	return true, nil
}
