// internal/domain/loyalty/config_test.go
package loyalty

import (
	"testing"

	"loyaltyhub-service/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestConfig_MultiplierFor(t *testing.T) {
	cfg := &Config{
		TierMultipliers: map[string]float64{
			customer.TierSilver: 1.5,
			customer.TierGold:   2.0,
		},
	}

	assert.Equal(t, 1.0, cfg.MultiplierFor(customer.TierBronze), "missing tier falls back to 1.0")
	assert.Equal(t, 1.5, cfg.MultiplierFor(customer.TierSilver))
	assert.Equal(t, 2.0, cfg.MultiplierFor(customer.TierGold))
	assert.Equal(t, 1.0, (&Config{}).MultiplierFor(customer.TierGold), "nil map falls back to 1.0")
}

func TestConfig_TierForPoints(t *testing.T) {
	cfg := &Config{SilverThreshold: 500, GoldThreshold: 2000}

	tests := []struct {
		name   string
		points int64
		want   string
	}{
		{name: "below silver", points: 499, want: customer.TierBronze},
		{name: "exactly silver", points: 500, want: customer.TierSilver},
		{name: "between", points: 1999, want: customer.TierSilver},
		{name: "exactly gold", points: 2000, want: customer.TierGold},
		{name: "above gold", points: 10000, want: customer.TierGold},
		{name: "zero balance", points: 0, want: customer.TierBronze},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.TierForPoints(tt.points))
		})
	}

	t.Run("zero thresholds disable promotion", func(t *testing.T) {
		flat := &Config{}
		assert.Equal(t, customer.TierBronze, flat.TierForPoints(1_000_000))
	})
}
