// internal/service/portal/workflow_ops.go
package portal

import (
	"context"
	"fmt"
	"time"

	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"
	"loyaltyhub-service/internal/domain/portal"
	"loyaltyhub-service/internal/domain/transaction"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// SearchCustomer resolves a customer by email for the live-typing search.
// An empty email clears the selection without a lookup; a not-found or
// failed lookup clears it silently. seq orders concurrent keystrokes so a
// stale response never wins (pass 0 to always apply).
func (s *Service) SearchCustomer(ctx context.Context, jti, email string, seq uint64) (*WorkflowView, error) {
	sess, err := s.loadAndTick(ctx, jti)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, err
	}

	if email == "" {
		// Clearing the field applies immediately, no lookup.
		sess.Workflow.EmailQuery = ""
		sess.Workflow.ApplySearchResult(seq, nil)
	} else {
		c, err := s.customers.FindByEmail(ctx, sess.RestaurantID, email)
		if err != nil {
			// Live typing: partial addresses miss constantly. Never surface.
			c = nil
		}
		// The query text follows the same seq guard as the result, so a
		// stale response cannot leave an old query next to a newer customer.
		if sess.Workflow.ApplySearchResult(seq, c) {
			sess.Workflow.EmailQuery = email
		} else {
			s.logger.Debug("stale customer search response discarded",
				zap.String("jti", jti),
				zap.Uint64("seq", seq),
			)
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.dashboardView(ctx, sess), nil
}

// SetMode toggles between amount-based and item-based assignment. The
// other mode's in-progress input survives the toggle.
func (s *Service) SetMode(ctx context.Context, jti string, mode portal.AssignmentMode) (*WorkflowView, error) {
	return s.mutateWorkflow(ctx, jti, func(w *portal.Workflow) error {
		return w.SetMode(mode)
	})
}

// SetOrderAmount records the amount-mode text input as typed.
func (s *Service) SetOrderAmount(ctx context.Context, jti, amount string) (*WorkflowView, error) {
	return s.mutateWorkflow(ctx, jti, func(w *portal.Workflow) error {
		w.OrderAmount = amount
		return nil
	})
}

// AdjustQuantity applies a +/- delta to a selected menu item, clamped at
// zero.
func (s *Service) AdjustQuantity(ctx context.Context, jti string, itemID, delta int64) (*WorkflowView, error) {
	return s.mutateWorkflow(ctx, jti, func(w *portal.Workflow) error {
		w.AdjustQuantity(itemID, delta)
		return nil
	})
}

// ListMenu returns the active catalog for the item-based mode.
func (s *Service) ListMenu(ctx context.Context, jti string) ([]menu.Item, error) {
	sess, err := s.sessions.Get(ctx, jti)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, err
	}
	return s.menu.ListActiveItems(ctx, sess.RestaurantID)
}

// OpenConfirmation shows the confirm modal; only reachable with a resolved
// customer and a positive recomputed preview.
func (s *Service) OpenConfirmation(ctx context.Context, jti string) (*ConfirmationView, error) {
	sess, err := s.loadAndTick(ctx, jti)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, err
	}

	cfg, items := s.rulesetAndCatalog(ctx, sess)
	points := sess.Workflow.ComputePoints(cfg, s.loyalty, items)
	if err := sess.Workflow.OpenConfirmation(points); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	desc, amount, lines := sess.Workflow.OrderSummary(items)
	return &ConfirmationView{
		Customer:    sess.Workflow.Customer,
		Points:      points,
		Description: desc,
		AmountSpent: amount,
		Lines:       lines,
	}, nil
}

// CloseConfirmation cancels the modal with no other state change.
func (s *Service) CloseConfirmation(ctx context.Context, jti string) (*WorkflowView, error) {
	return s.mutateWorkflow(ctx, jti, func(w *portal.Workflow) error {
		w.CloseConfirmation()
		return nil
	})
}

// Commit performs the transactional point assignment. Points are
// recomputed immediately before the write; a displayed preview is never
// trusted. On failure the inputs and the open modal survive so the
// operator can retry.
func (s *Service) Commit(ctx context.Context, jti string) (*CommitResult, *WorkflowView, error) {
	sess, err := s.loadAndTick(ctx, jti)
	if err != nil {
		return nil, nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, nil, err
	}
	if sess.Workflow.Customer == nil {
		return nil, nil, xerrors.ErrNotFound
	}

	locked, err := s.sessions.AcquireCommitLock(ctx, jti, s.cfg.CommitLockTTL)
	if err != nil {
		return nil, nil, err
	}
	if !locked {
		return nil, nil, xerrors.ErrCommitInFlight
	}
	defer func() {
		if err := s.sessions.ReleaseCommitLock(ctx, jti); err != nil {
			s.logger.Warn("failed to release commit lock", zap.Error(err))
		}
	}()

	sess.Workflow.Committing = true
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, nil, err
	}
	defer func() {
		sess.Workflow.Committing = false
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn("failed to persist workflow after commit", zap.Error(err))
		}
	}()

	cfg, items := s.rulesetAndCatalog(ctx, sess)
	points := sess.Workflow.ComputePoints(cfg, s.loyalty, items)
	if points <= 0 {
		// Guards against stale state between preview and confirm.
		sess.Workflow.Committing = false
		sess.Workflow.Error = msgNoPoints
		return nil, s.dashboardView(ctx, sess), nil
	}

	desc, amountSpent, _ := sess.Workflow.OrderSummary(items)
	cust := sess.Workflow.Customer

	entry, err := s.transactions.ProcessPointTransaction(ctx, &transaction.ProcessInput{
		RestaurantID: sess.RestaurantID,
		CustomerID:   cust.ID,
		BranchID:     sess.BranchID,
		Type:         transaction.TypePurchase,
		Points:       points,
		Description:  fmt.Sprintf("%s (%s)", desc, sess.BranchName),
		AmountSpent:  amountSpent,
	})
	if err != nil {
		s.logger.Error("point assignment failed",
			zap.String("jti", jti),
			zap.Int64("customer_id", cust.ID),
			zap.Error(err),
		)
		sess.Workflow.Committing = false
		sess.Workflow.Error = xerrors.MessageOrDefault(err, msgAssignFailed)
		return nil, s.dashboardView(ctx, sess), nil
	}

	// Balance and tier are server-authoritative; re-fetch rather than
	// incrementing the snapshot.
	refreshed, err := s.customers.GetByID(ctx, sess.RestaurantID, cust.ID)
	if err != nil {
		s.logger.Warn("failed to refresh customer after commit", zap.Error(err))
		refreshed = cust
	}
	sess.Workflow.Customer = refreshed

	note := fmt.Sprintf("Successfully assigned %d points to %s!", points, cust.FullName())
	sess.Workflow.Committing = false
	sess.Workflow.ResetAfterCommit(note, time.Now().Add(s.cfg.CustomerLinger))

	if s.feed != nil {
		s.feed.BroadcastAssignment(AssignmentEvent{
			BranchID:     sess.BranchID,
			CustomerName: cust.FullName(),
			Points:       points,
			AmountSpent:  amountSpent,
			Description:  desc,
			CommittedAt:  time.Now(),
		})
	}

	s.logger.Info("points assigned",
		zap.String("reference", entry.Reference),
		zap.Int64("customer_id", cust.ID),
		zap.Int64("points", points),
		zap.Int64("branch_id", sess.BranchID),
	)

	return &CommitResult{
		Reference:   entry.Reference,
		Points:      points,
		Customer:    refreshed,
		SuccessNote: note,
	}, s.dashboardView(ctx, sess), nil
}

// mutateWorkflow loads a dashboard session, applies a pure transition and
// persists the result.
func (s *Service) mutateWorkflow(ctx context.Context, jti string, fn func(*portal.Workflow) error) (*WorkflowView, error) {
	sess, err := s.loadAndTick(ctx, jti)
	if err != nil {
		return nil, err
	}
	if err := sess.RequireDashboard(); err != nil {
		return nil, err
	}
	if err := fn(&sess.Workflow); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.dashboardView(ctx, sess), nil
}

// dashboardView renders the workflow with a freshly recomputed preview.
// Ruleset or catalog fetch failures degrade the preview to zero.
func (s *Service) dashboardView(ctx context.Context, sess *portal.Session) *WorkflowView {
	cfg, items := s.rulesetAndCatalog(ctx, sess)
	points := sess.Workflow.ComputePoints(cfg, s.loyalty, items)
	return s.workflowView(sess, points)
}

// rulesetAndCatalog loads the preview inputs best-effort: a failure is
// logged and the dependent feature degrades (no points computable) rather
// than blocking the screen.
func (s *Service) rulesetAndCatalog(ctx context.Context, sess *portal.Session) (*loyalty.Config, []menu.Item) {
	cfg, err := s.loyalty.GetConfig(ctx, sess.RestaurantID)
	if err != nil {
		s.logger.Warn("loyalty config unavailable", zap.Error(err))
		cfg = nil
	}

	var items []menu.Item
	if sess.Workflow.Mode == portal.ModeItems {
		items, err = s.menu.ListActiveItems(ctx, sess.RestaurantID)
		if err != nil {
			s.logger.Warn("menu catalog unavailable", zap.Error(err))
			items = nil
		}
	}
	return cfg, items
}
