// internal/service/portal/collaborators.go
package portal

import (
	"context"
	"time"

	"loyaltyhub-service/internal/domain/branch"
	"loyaltyhub-service/internal/domain/customer"
	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"
	"loyaltyhub-service/internal/domain/portal"
	"loyaltyhub-service/internal/domain/transaction"
)

// The portal service is wiring between the screen state machine and the
// backing services. Everything it calls out to is an interface so the
// workflow can be exercised without postgres or redis.

type BranchDirectory interface {
	ListActiveBranches(ctx context.Context, restaurantID int64) ([]branch.Branch, error)
	GetBranch(ctx context.Context, restaurantID, branchID int64) (*branch.Branch, error)
	GetBranchStats(ctx context.Context, restaurantID, branchID int64) (*branch.Stats, error)
	VerifyPassword(ctx context.Context, restaurantID, branchID int64, password string) (bool, error)
}

type CustomerDirectory interface {
	FindByEmail(ctx context.Context, restaurantID int64, email string) (*customer.Customer, error)
	GetByID(ctx context.Context, restaurantID, customerID int64) (*customer.Customer, error)
}

type MenuCatalog interface {
	ListActiveItems(ctx context.Context, restaurantID int64) ([]menu.Item, error)
}

type LoyaltyEngine interface {
	portal.PointPreviewer
	GetConfig(ctx context.Context, restaurantID int64) (*loyalty.Config, error)
}

type TransactionProcessor interface {
	ProcessPointTransaction(ctx context.Context, input *transaction.ProcessInput) (*transaction.PointTransaction, error)
	ListCustomerTransactions(ctx context.Context, restaurantID, customerID int64, page, pageSize int) (*transaction.ListResponse, error)
}

type SessionStore interface {
	Save(ctx context.Context, s *portal.Session) error
	Get(ctx context.Context, jti string) (*portal.Session, error)
	Invalidate(ctx context.Context, jti string, tokenExpiry time.Time) error
	AcquireCommitLock(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	ReleaseCommitLock(ctx context.Context, jti string) error
	AcquireGateLock(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	ReleaseGateLock(ctx context.Context, jti string) error
}

type PasswordLimiter interface {
	CheckPasswordAttempt(ctx context.Context, branchID int64, ip string) (bool, int64, error)
	ResetPasswordAttempts(ctx context.Context, branchID int64, ip string) error
}

type TokenIssuer interface {
	Generate(restaurantID, branchID int64) (token string, jti string, err error)
}

// AssignmentEvent is broadcast to dashboards watching a branch after a
// successful commit.
type AssignmentEvent struct {
	BranchID     int64     `json:"branch_id"`
	CustomerName string    `json:"customer_name"`
	Points       int64     `json:"points"`
	AmountSpent  float64   `json:"amount_spent"`
	Description  string    `json:"description"`
	CommittedAt  time.Time `json:"committed_at"`
}

type ActivityFeed interface {
	BroadcastAssignment(event AssignmentEvent)
}
