// internal/service/loyalty/engine_test.go
package loyalty

import (
	"testing"

	"loyaltyhub-service/internal/domain/customer"
	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEngine_PreviewPoints(t *testing.T) {
	engine := NewEngine(nil, zap.NewNop())

	cfg := &loyalty.Config{
		PointsPerAED: 0.1,
		TierMultipliers: map[string]float64{
			customer.TierSilver: 1.5,
			customer.TierGold:   2.0,
		},
		ItemOverrides: map[int64]int64{5: 30},
	}
	wrap := &menu.Item{ID: 1, Name: "Falafel Wrap", SellingPrice: 20}
	special := &menu.Item{ID: 5, Name: "Chef Special", SellingPrice: 120}

	t.Run("base rate on spend", func(t *testing.T) {
		assert.Equal(t, int64(10), engine.PreviewPoints(cfg, nil, 100, customer.TierBronze, 1))
	})

	t.Run("tier multiplier scales the rate", func(t *testing.T) {
		assert.Equal(t, int64(15), engine.PreviewPoints(cfg, nil, 100, customer.TierSilver, 1))
		assert.Equal(t, int64(20), engine.PreviewPoints(cfg, nil, 100, customer.TierGold, 1))
	})

	t.Run("unknown tier earns the base rate", func(t *testing.T) {
		assert.Equal(t, int64(10), engine.PreviewPoints(cfg, nil, 100, "platinum", 1))
	})

	t.Run("fractional per-unit points floor", func(t *testing.T) {
		// 99 * 0.1 = 9.9 -> 9 per unit
		assert.Equal(t, int64(9), engine.PreviewPoints(cfg, nil, 99, customer.TierBronze, 1))
		assert.Equal(t, int64(18), engine.PreviewPoints(cfg, nil, 99, customer.TierBronze, 2))
	})

	t.Run("item without override uses its price", func(t *testing.T) {
		// 20 * 0.1 = 2 per unit
		assert.Equal(t, int64(4), engine.PreviewPoints(cfg, wrap, wrap.SellingPrice, customer.TierBronze, 2))
	})

	t.Run("item override is fixed and tier-independent", func(t *testing.T) {
		assert.Equal(t, int64(30), engine.PreviewPoints(cfg, special, special.SellingPrice, customer.TierBronze, 1))
		assert.Equal(t, int64(30), engine.PreviewPoints(cfg, special, special.SellingPrice, customer.TierGold, 1))
		assert.Equal(t, int64(90), engine.PreviewPoints(cfg, special, special.SellingPrice, customer.TierBronze, 3))
	})

	t.Run("guards", func(t *testing.T) {
		assert.Zero(t, engine.PreviewPoints(nil, nil, 100, customer.TierBronze, 1))
		assert.Zero(t, engine.PreviewPoints(cfg, nil, 0, customer.TierBronze, 1))
		assert.Zero(t, engine.PreviewPoints(cfg, nil, -50, customer.TierBronze, 1))
		assert.Zero(t, engine.PreviewPoints(cfg, nil, 100, customer.TierBronze, 0))
		assert.Zero(t, engine.PreviewPoints(cfg, nil, 100, customer.TierBronze, -1))
	})

	t.Run("negative override yields zero", func(t *testing.T) {
		bad := &loyalty.Config{
			PointsPerAED:  1,
			ItemOverrides: map[int64]int64{1: -10},
		}
		assert.Zero(t, engine.PreviewPoints(bad, wrap, wrap.SellingPrice, customer.TierBronze, 2))
	})
}
