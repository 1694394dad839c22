// internal/service/transaction/transaction_service.go
package transaction

import (
	"context"
	"database/sql"
	"fmt"

	"loyaltyhub-service/internal/domain/transaction"
	xerrors "loyaltyhub-service/internal/pkg/errors"
	"loyaltyhub-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Service is the authoritative point-commit operation: one database
// transaction writes the ledger entry and the customer's new balance and
// tier together, or neither.
type Service struct {
	transactionRepo *postgres.PointTransactionRepository
	customerRepo    *postgres.CustomerRepository
	configRepo      *postgres.LoyaltyConfigRepository
	db              *postgres.DB
	logger          *zap.Logger
}

func NewService(
	transactionRepo *postgres.PointTransactionRepository,
	customerRepo *postgres.CustomerRepository,
	configRepo *postgres.LoyaltyConfigRepository,
	db *postgres.DB,
	logger *zap.Logger,
) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		configRepo:      configRepo,
		db:              db,
		logger:          logger,
	}
}

// ProcessPointTransaction applies a point transaction atomically. The
// customer row is locked for the duration so concurrent commits against
// the same customer serialize; tier is recomputed from the thresholds, not
// trusted from any caller.
func (s *Service) ProcessPointTransaction(ctx context.Context, input *transaction.ProcessInput) (*transaction.PointTransaction, error) {
	if input.Points <= 0 {
		return nil, xerrors.ErrNothingToAssign
	}

	cfg, err := s.configRepo.FindByRestaurant(ctx, input.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("loyalty config unavailable: %w", err)
	}

	entry := &transaction.PointTransaction{
		Reference:    fmt.Sprintf("PTX-%s", ulid.Make().String()),
		RestaurantID: input.RestaurantID,
		CustomerID:   input.CustomerID,
		Type:         input.Type,
		Points:       input.Points,
		Description:  input.Description,
		AmountSpent:  input.AmountSpent,
	}
	if input.BranchID > 0 {
		entry.BranchID = sql.NullInt64{Int64: input.BranchID, Valid: true}
	}
	if input.RewardID != nil {
		entry.RewardID = sql.NullInt64{Int64: *input.RewardID, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := s.customerRepo.LockForUpdateTx(ctx, tx, input.RestaurantID, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}

	if err := s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	newBalance := c.TotalPoints + input.Points
	newTier := cfg.TierForPoints(newBalance)

	if err := s.customerRepo.UpdateBalanceTx(ctx, tx, c.ID, newBalance, newTier); err != nil {
		return nil, fmt.Errorf("failed to update customer balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("point transaction processed",
		zap.String("reference", entry.Reference),
		zap.Int64("customer_id", c.ID),
		zap.Int64("points", input.Points),
		zap.String("type", string(input.Type)),
		zap.Int64("new_balance", newBalance),
		zap.String("new_tier", newTier),
	)

	return entry, nil
}

// ListCustomerTransactions retrieves a customer's ledger page.
func (s *Service) ListCustomerTransactions(ctx context.Context, restaurantID, customerID int64, page, pageSize int) (*transaction.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	txs, total, err := s.transactionRepo.ListByCustomer(ctx, restaurantID, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &transaction.ListResponse{
		Transactions: txs,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}
