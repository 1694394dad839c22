// internal/domain/portal/phase.go
package portal

// Phase is the staff screen flow state. Transitions only move forward
// (branch selected -> password gate -> dashboard); the only way back is
// destroying the session, which is how both "Change Branch" and "Sign Out"
// behave. "branch-select" is the absence of a session.
type Phase string

const (
	PhasePassword  Phase = "password"
	PhaseDashboard Phase = "dashboard"
)

func (p Phase) Valid() bool {
	return p == PhasePassword || p == PhaseDashboard
}
