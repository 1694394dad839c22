// internal/domain/portal/workflow_test.go
package portal

import (
	"testing"
	"time"

	"loyaltyhub-service/internal/domain/customer"
	"loyaltyhub-service/internal/domain/loyalty"
	"loyaltyhub-service/internal/domain/menu"
	xerrors "loyaltyhub-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ratePreviewer mirrors the engine formula closely enough to exercise the
// workflow arithmetic without pulling in the service package.
type ratePreviewer struct{}

func (ratePreviewer) PreviewPoints(cfg *loyalty.Config, item *menu.Item, amount float64, tier string, quantity int64) int64 {
	if cfg == nil || amount <= 0 || quantity <= 0 {
		return 0
	}
	if item != nil {
		if override, ok := cfg.ItemOverrides[item.ID]; ok {
			return override * quantity
		}
	}
	return int64(amount*cfg.PointsPerAED*cfg.MultiplierFor(tier)) * quantity
}

func testConfig() *loyalty.Config {
	return &loyalty.Config{
		PointsPerAED:    0.1,
		TierMultipliers: map[string]float64{customer.TierGold: 2.0},
		ItemOverrides:   map[int64]int64{},
	}
}

func testCatalog() []menu.Item {
	return []menu.Item{
		{ID: 1, Name: "Falafel Wrap", SellingPrice: 20, IsActive: true},
		{ID: 2, Name: "Mixed Grill", SellingPrice: 85, IsActive: true},
		{ID: 3, Name: "Mint Lemonade", SellingPrice: 12, IsActive: true},
	}
}

func bronzeCustomer() *customer.Customer {
	return &customer.Customer{
		ID:          7,
		FirstName:   "Amira",
		LastName:    "Hassan",
		Email:       "amira@example.com",
		CurrentTier: customer.TierBronze,
		IsActive:    true,
	}
}

func TestWorkflow_SetMode(t *testing.T) {
	t.Run("rejects unknown mode", func(t *testing.T) {
		w := NewWorkflow()
		err := w.SetMode("percentage")
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
		assert.Equal(t, ModeAmount, w.Mode)
	})

	t.Run("toggling preserves the other mode's input", func(t *testing.T) {
		w := NewWorkflow()
		w.OrderAmount = "150"

		require.NoError(t, w.SetMode(ModeItems))
		w.AdjustQuantity(1, 2)

		require.NoError(t, w.SetMode(ModeAmount))
		assert.Equal(t, "150", w.OrderAmount)

		require.NoError(t, w.SetMode(ModeItems))
		assert.Equal(t, int64(2), w.SelectedItems[1])
	})
}

func TestWorkflow_ApplySearchResult(t *testing.T) {
	t.Run("stale sequence is discarded", func(t *testing.T) {
		w := NewWorkflow()
		newer := bronzeCustomer()
		require.True(t, w.ApplySearchResult(3, newer))

		older := &customer.Customer{ID: 99, FirstName: "Old", CurrentTier: customer.TierBronze}
		assert.False(t, w.ApplySearchResult(2, older))
		assert.Equal(t, newer, w.Customer)
		assert.Equal(t, uint64(3), w.SearchSeq)
	})

	t.Run("nil customer clears the selection", func(t *testing.T) {
		w := NewWorkflow()
		require.True(t, w.ApplySearchResult(1, bronzeCustomer()))
		require.True(t, w.ApplySearchResult(2, nil))
		assert.Nil(t, w.Customer)
	})

	t.Run("a new result clears the lingering success note", func(t *testing.T) {
		w := NewWorkflow()
		w.SuccessNote = "Successfully assigned 10 points to Amira Hassan!"
		w.ClearCustomerAt = time.Now().Add(2 * time.Second)

		require.True(t, w.ApplySearchResult(1, bronzeCustomer()))
		assert.Empty(t, w.SuccessNote)
		assert.True(t, w.ClearCustomerAt.IsZero())
	})
}

func TestWorkflow_AdjustQuantity(t *testing.T) {
	w := NewWorkflow()

	assert.Equal(t, int64(1), w.AdjustQuantity(2, 1))
	assert.Equal(t, int64(3), w.AdjustQuantity(2, 2))
	assert.Equal(t, int64(0), w.AdjustQuantity(2, -5), "quantity clamps at zero")
	assert.Equal(t, int64(0), w.AdjustQuantity(9, -1), "unseen item starts at zero")
}

func TestWorkflow_ParsedOrderAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "100", want: 100},
		{name: "decimal", input: "99.5", want: 99.5},
		{name: "padded", input: " 42 ", want: 42},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "abc", want: 0},
		{name: "negative kept as-is", input: "-5", want: -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkflow()
			w.OrderAmount = tt.input
			assert.Equal(t, tt.want, w.ParsedOrderAmount())
		})
	}
}

func TestWorkflow_ComputePoints(t *testing.T) {
	cfg := testConfig()
	items := testCatalog()
	previewer := ratePreviewer{}

	t.Run("zero without a resolved customer", func(t *testing.T) {
		w := NewWorkflow()
		w.OrderAmount = "100"
		assert.Zero(t, w.ComputePoints(cfg, previewer, items))
	})

	t.Run("zero without a config", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.OrderAmount = "100"
		assert.Zero(t, w.ComputePoints(nil, previewer, items))
	})

	t.Run("amount mode applies the base rate", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.OrderAmount = "100"
		assert.Equal(t, int64(10), w.ComputePoints(cfg, previewer, items))
	})

	t.Run("amount mode with unparsable input is zero", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.OrderAmount = "lots"
		assert.Zero(t, w.ComputePoints(cfg, previewer, items))
	})

	t.Run("amount mode with negative input is zero", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.OrderAmount = "-50"
		assert.Zero(t, w.ComputePoints(cfg, previewer, items))
	})

	t.Run("item mode sums positive-quantity selections", func(t *testing.T) {
		itemCfg := testConfig()
		itemCfg.PointsPerAED = 1

		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		require.NoError(t, w.SetMode(ModeItems))
		w.AdjustQuantity(1, 2) // 20 AED x2 at rate 1 -> 40
		w.AdjustQuantity(3, 0) // zero quantity contributes nothing

		assert.Equal(t, int64(40), w.ComputePoints(itemCfg, previewer, items))
	})

	t.Run("all-zero selection is zero", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		require.NoError(t, w.SetMode(ModeItems))
		w.AdjustQuantity(1, 0)
		w.AdjustQuantity(2, 0)
		assert.Zero(t, w.ComputePoints(cfg, previewer, items))
	})

	t.Run("unresolvable item ids contribute nothing", func(t *testing.T) {
		itemCfg := testConfig()
		itemCfg.PointsPerAED = 1

		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		require.NoError(t, w.SetMode(ModeItems))
		w.AdjustQuantity(1, 1)   // resolvable: 20 points
		w.AdjustQuantity(404, 3) // removed from catalog

		assert.Equal(t, int64(20), w.ComputePoints(itemCfg, previewer, items))
	})
}

func TestWorkflow_OrderSummary(t *testing.T) {
	items := testCatalog()

	t.Run("amount mode", func(t *testing.T) {
		w := NewWorkflow()
		w.OrderAmount = "100"

		desc, spent, lines := w.OrderSummary(items)
		assert.Equal(t, "Order amount: 100 AED", desc)
		assert.Equal(t, float64(100), spent)
		require.Len(t, lines, 1)
		assert.Equal(t, float64(100), lines[0].LineTotal)
	})

	t.Run("amount mode keeps decimals compact", func(t *testing.T) {
		w := NewWorkflow()
		w.OrderAmount = "99.50"

		desc, spent, _ := w.OrderSummary(items)
		assert.Equal(t, "Order amount: 99.5 AED", desc)
		assert.Equal(t, 99.5, spent)
	})

	t.Run("item mode lists selections in catalog order", func(t *testing.T) {
		w := NewWorkflow()
		require.NoError(t, w.SetMode(ModeItems))
		w.AdjustQuantity(3, 1)
		w.AdjustQuantity(1, 2)
		w.AdjustQuantity(2, 0) // skipped

		desc, spent, lines := w.OrderSummary(items)
		assert.Equal(t, "Items: Falafel Wrap x2, Mint Lemonade x1", desc)
		assert.Equal(t, float64(52), spent) // 20*2 + 12
		require.Len(t, lines, 2)
		assert.Equal(t, int64(1), lines[0].ItemID)
		assert.Equal(t, int64(3), lines[1].ItemID)
	})
}

func TestWorkflow_OpenConfirmation(t *testing.T) {
	t.Run("requires a resolved customer", func(t *testing.T) {
		w := NewWorkflow()
		assert.ErrorIs(t, w.OpenConfirmation(10), xerrors.ErrNotFound)
	})

	t.Run("requires a positive preview", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		assert.ErrorIs(t, w.OpenConfirmation(0), xerrors.ErrNothingToAssign)
		assert.False(t, w.ConfirmOpen)
	})

	t.Run("opens with customer and points", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		require.NoError(t, w.OpenConfirmation(10))
		assert.True(t, w.ConfirmOpen)

		w.CloseConfirmation()
		assert.False(t, w.ConfirmOpen)
	})
}

func TestWorkflow_ResetAfterCommit(t *testing.T) {
	w := NewWorkflow()
	w.Customer = bronzeCustomer()
	w.EmailQuery = "amira@example.com"
	w.OrderAmount = "100"
	w.AdjustQuantity(1, 2)
	w.ConfirmOpen = true
	w.Error = "Failed to assign points"

	clearAt := time.Now().Add(2 * time.Second)
	w.ResetAfterCommit("Successfully assigned 10 points to Amira Hassan!", clearAt)

	assert.Empty(t, w.EmailQuery)
	assert.Empty(t, w.OrderAmount)
	assert.Empty(t, w.SelectedItems)
	assert.False(t, w.ConfirmOpen)
	assert.Empty(t, w.Error)
	assert.NotNil(t, w.Customer, "customer lingers until clearAt")
	assert.Equal(t, "Successfully assigned 10 points to Amira Hassan!", w.SuccessNote)
	assert.Equal(t, clearAt, w.ClearCustomerAt)
}

func TestWorkflow_Tick(t *testing.T) {
	t.Run("clears the customer after the linger window", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.SuccessNote = "Successfully assigned 10 points to Amira Hassan!"
		w.ClearCustomerAt = time.Now().Add(-time.Second)

		w.Tick(time.Now())
		assert.Nil(t, w.Customer)
		assert.Empty(t, w.SuccessNote)
		assert.True(t, w.ClearCustomerAt.IsZero())
	})

	t.Run("leaves an active linger alone", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()
		w.ClearCustomerAt = time.Now().Add(time.Minute)

		w.Tick(time.Now())
		assert.NotNil(t, w.Customer)
	})

	t.Run("no-op without a pending clear", func(t *testing.T) {
		w := NewWorkflow()
		w.Customer = bronzeCustomer()

		w.Tick(time.Now())
		assert.NotNil(t, w.Customer)
	})
}
