// internal/domain/portal/session.go
package portal

import (
	"time"

	xerrors "loyaltyhub-service/internal/pkg/errors"
)

// Session is one staff terminal's portal state, created when a branch is
// selected and destroyed on "Change Branch" / "Sign Out". It is persisted
// between requests by the session manager.
type Session struct {
	JTI            string `json:"jti"`
	RestaurantID   int64  `json:"restaurant_id"`
	BranchID       int64  `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	BranchLocation string `json:"branch_location"`

	Phase    Phase    `json:"phase"`
	Workflow Workflow `json:"workflow"`

	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func NewSession(jti string, restaurantID, branchID int64, branchName, branchLocation string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		JTI:            jti,
		RestaurantID:   restaurantID,
		BranchID:       branchID,
		BranchName:     branchName,
		BranchLocation: branchLocation,
		Phase:          PhasePassword,
		Workflow:       NewWorkflow(),
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
	}
}

// Unlock advances the session past the password gate. Only valid from the
// password phase; a dashboard session stays where it is.
func (s *Session) Unlock() error {
	if s.Phase != PhasePassword {
		return xerrors.ErrInvalidPhase
	}
	s.Phase = PhaseDashboard
	return nil
}

// RequireDashboard guards every workflow operation so a session that never
// passed the gate cannot reach the dashboard surface.
func (s *Session) RequireDashboard() error {
	if s.Phase != PhaseDashboard {
		return xerrors.ErrInvalidPhase
	}
	return nil
}
