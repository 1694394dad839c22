// internal/service/portal/portal.go
package portal

import (
	"context"
	"time"

	"loyaltyhub-service/internal/domain/branch"
	"loyaltyhub-service/internal/domain/portal"
	"loyaltyhub-service/internal/domain/transaction"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Operator-facing messages. These are stable strings the terminal shows
// verbatim.
const (
	msgInvalidPassword = "Invalid password. Please try again."
	msgVerifyFailed    = "Failed to verify password"
	msgNoPoints        = "No points to assign"
	msgAssignFailed    = "Failed to assign points"
)

type Config struct {
	SessionTTL     time.Duration
	CommitLockTTL  time.Duration
	CustomerLinger time.Duration
}

// Service drives the staff portal: the branch-select/password/dashboard
// phase machine and the point-assignment workflow, persisted per session.
type Service struct {
	cfg          Config
	branches     BranchDirectory
	customers    CustomerDirectory
	menu         MenuCatalog
	loyalty      LoyaltyEngine
	transactions TransactionProcessor
	sessions     SessionStore
	limiter      PasswordLimiter
	tokens       TokenIssuer
	feed         ActivityFeed
	logger       *zap.Logger
}

func NewService(
	cfg Config,
	branches BranchDirectory,
	customers CustomerDirectory,
	menuCatalog MenuCatalog,
	loyaltyEngine LoyaltyEngine,
	transactions TransactionProcessor,
	sessions SessionStore,
	limiter PasswordLimiter,
	tokens TokenIssuer,
	feed ActivityFeed,
	logger *zap.Logger,
) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.CommitLockTTL <= 0 {
		cfg.CommitLockTTL = 30 * time.Second
	}
	if cfg.CustomerLinger <= 0 {
		cfg.CustomerLinger = 2 * time.Second
	}
	return &Service{
		cfg:          cfg,
		branches:     branches,
		customers:    customers,
		menu:         menuCatalog,
		loyalty:      loyaltyEngine,
		transactions: transactions,
		sessions:     sessions,
		limiter:      limiter,
		tokens:       tokens,
		feed:         feed,
		logger:       logger,
	}
}

// ListBranches is the branch-select screen data source.
func (s *Service) ListBranches(ctx context.Context, restaurantID int64) ([]branch.Branch, error) {
	return s.branches.ListActiveBranches(ctx, restaurantID)
}

// StartSession selects a branch: it creates a password-phase session bound
// to the branch and returns the portal token. Branch stats are warmed in
// the background; a failure there is logged, never surfaced.
func (s *Service) StartSession(ctx context.Context, restaurantID, branchID int64) (string, *SessionView, error) {
	b, err := s.branches.GetBranch(ctx, restaurantID, branchID)
	if err != nil {
		return "", nil, err
	}
	if !b.IsActive {
		return "", nil, xerrors.ErrNotFound
	}

	tok, jti, err := s.tokens.Generate(restaurantID, branchID)
	if err != nil {
		return "", nil, xerrors.Wrap(err, "failed to issue portal token")
	}

	sess := portal.NewSession(jti, restaurantID, b.ID, b.Name, b.Location, s.cfg.SessionTTL)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, err
	}

	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.branches.GetBranchStats(warmCtx, restaurantID, branchID); err != nil {
			s.logger.Warn("branch stats warm-up failed",
				zap.Int64("branch_id", branchID),
				zap.Error(err),
			)
		}
	}()

	s.logger.Info("portal session started",
		zap.String("jti", jti),
		zap.Int64("branch_id", b.ID),
	)

	return tok, s.sessionView(sess), nil
}

// SubmitPassword runs the branch gate. A wrong password keeps the session
// in the password phase with an operator-visible message; a verification
// failure gets a generic message. Attempts are rate limited per branch and
// client address, and only one verification per session is in flight at a
// time.
func (s *Service) SubmitPassword(ctx context.Context, jti, clientIP, password string) (*SessionView, error) {
	sess, err := s.sessions.Get(ctx, jti)
	if err != nil {
		return nil, err
	}
	if sess.Phase != portal.PhasePassword {
		return nil, xerrors.ErrInvalidPhase
	}

	locked, err := s.sessions.AcquireGateLock(ctx, jti, s.cfg.CommitLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, xerrors.ErrVerifyInFlight
	}
	defer func() {
		if err := s.sessions.ReleaseGateLock(ctx, jti); err != nil {
			s.logger.Warn("failed to release gate lock", zap.Error(err))
		}
	}()

	allowed, remaining, err := s.limiter.CheckPasswordAttempt(ctx, sess.BranchID, clientIP)
	if err != nil {
		s.logger.Error("password rate limit check failed", zap.Error(err))
		// Fail open on limiter errors; the gate itself still decides.
	} else if !allowed {
		s.logger.Warn("branch password attempts exhausted",
			zap.Int64("branch_id", sess.BranchID),
			zap.String("client_ip", clientIP),
		)
		return nil, xerrors.ErrRateLimited
	}
	_ = remaining

	ok, err := s.branches.VerifyPassword(ctx, sess.RestaurantID, sess.BranchID, password)
	if err != nil {
		s.logger.Error("password verification call failed", zap.Error(err))
		view := s.sessionView(sess)
		view.Error = msgVerifyFailed
		return view, nil
	}
	if !ok {
		view := s.sessionView(sess)
		view.Error = msgInvalidPassword
		return view, nil
	}

	if err := sess.Unlock(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.limiter.ResetPasswordAttempts(ctx, sess.BranchID, clientIP); err != nil {
		s.logger.Warn("failed to reset password attempts", zap.Error(err))
	}

	s.logger.Info("portal session unlocked",
		zap.String("jti", jti),
		zap.Int64("branch_id", sess.BranchID),
	)

	return s.sessionView(sess), nil
}

// GetSession returns the current screen state, applying time-based
// housekeeping (clearing a lingering committed customer).
func (s *Service) GetSession(ctx context.Context, jti string) (*SessionView, error) {
	sess, err := s.loadAndTick(ctx, jti)
	if err != nil {
		return nil, err
	}
	view := s.sessionView(sess)
	if sess.Phase == portal.PhaseDashboard {
		view.Workflow = s.dashboardView(ctx, sess)
	}
	return view, nil
}

// Reset serves both "Change Branch" and "Sign Out": the session is
// destroyed and its token blacklisted, so re-entering the dashboard always
// passes the password gate again.
func (s *Service) Reset(ctx context.Context, jti string, tokenExpiry time.Time) error {
	if err := s.sessions.Invalidate(ctx, jti, tokenExpiry); err != nil {
		return err
	}
	s.logger.Info("portal session reset", zap.String("jti", jti))
	return nil
}

// GetStats fetches the branch dashboard counters. Available from the
// password phase onward, matching the original screen which loads stats on
// branch selection.
func (s *Service) GetStats(ctx context.Context, jti string) (*branch.Stats, error) {
	sess, err := s.sessions.Get(ctx, jti)
	if err != nil {
		return nil, err
	}
	return s.branches.GetBranchStats(ctx, sess.RestaurantID, sess.BranchID)
}

// ListCustomerLedger pages a customer's transaction history for the
// dashboard detail view.
func (s *Service) ListCustomerLedger(ctx context.Context, jti string, customerID int64, page, pageSize int) (*transaction.ListResponse, error) {
	sess, err := s.sessions.Get(ctx, jti)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, err
	}
	return s.transactions.ListCustomerTransactions(ctx, sess.RestaurantID, customerID, page, pageSize)
}

func (s *Service) loadAndTick(ctx context.Context, jti string) (*portal.Session, error) {
	sess, err := s.sessions.Get(ctx, jti)
	if err != nil {
		return nil, err
	}

	before := sess.Workflow.Customer
	sess.Workflow.Tick(time.Now())
	if before != nil && sess.Workflow.Customer == nil {
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn("failed to persist workflow tick", zap.Error(err))
		}
	}
	return sess, nil
}

func (s *Service) sessionView(sess *portal.Session) *SessionView {
	view := &SessionView{
		Phase:          sess.Phase,
		BranchID:       sess.BranchID,
		BranchName:     sess.BranchName,
		BranchLocation: sess.BranchLocation,
	}
	if sess.Phase == portal.PhaseDashboard {
		view.Workflow = s.workflowView(sess, 0)
	}
	return view
}

func (s *Service) workflowView(sess *portal.Session, points int64) *WorkflowView {
	w := sess.Workflow
	return &WorkflowView{
		Mode:          w.Mode,
		EmailQuery:    w.EmailQuery,
		Customer:      w.Customer,
		OrderAmount:   w.OrderAmount,
		SelectedItems: w.SelectedItems,
		PointsPreview: points,
		ConfirmOpen:   w.ConfirmOpen,
		Committing:    w.Committing,
		Error:         w.Error,
		SuccessNote:   w.SuccessNote,
	}
}
