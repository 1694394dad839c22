// internal/domain/portal/session_test.go
package portal

import (
	"testing"
	"time"

	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	t.Run("new sessions start at the password gate", func(t *testing.T) {
		s := NewSession("jti-1", 1, 42, "Marina", "Dubai Marina", 12*time.Hour)

		assert.Equal(t, PhasePassword, s.Phase)
		assert.Equal(t, int64(42), s.BranchID)
		assert.Equal(t, ModeAmount, s.Workflow.Mode)
		assert.True(t, s.ExpiresAt.After(time.Now()))
	})

	t.Run("unlock advances password to dashboard", func(t *testing.T) {
		s := NewSession("jti-1", 1, 42, "Marina", "Dubai Marina", time.Hour)

		require.NoError(t, s.Unlock())
		assert.Equal(t, PhaseDashboard, s.Phase)
	})

	t.Run("unlock is rejected once on the dashboard", func(t *testing.T) {
		s := NewSession("jti-1", 1, 42, "Marina", "Dubai Marina", time.Hour)
		require.NoError(t, s.Unlock())

		assert.ErrorIs(t, s.Unlock(), xerrors.ErrInvalidPhase)
		assert.Equal(t, PhaseDashboard, s.Phase)
	})

	t.Run("workflow operations are gated on the dashboard phase", func(t *testing.T) {
		s := NewSession("jti-1", 1, 42, "Marina", "Dubai Marina", time.Hour)

		assert.ErrorIs(t, s.RequireDashboard(), xerrors.ErrInvalidPhase)
		require.NoError(t, s.Unlock())
		assert.NoError(t, s.RequireDashboard())
	})
}

func TestPhase_Valid(t *testing.T) {
	assert.True(t, PhasePassword.Valid())
	assert.True(t, PhaseDashboard.Valid())
	assert.False(t, Phase("branch-select").Valid())
	assert.False(t, Phase("").Valid())
}
