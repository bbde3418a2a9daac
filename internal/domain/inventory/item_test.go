package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPolicy() ReorderPolicy {
	return ReorderPolicy{
		MinLevel:     100,
		TargetLevel:  200,
		Priority:     3,
		LeadTimeDays: 7,
		UnitCost:     decimal.NewFromFloat(12.5),
		MaxOrderQty:  500,
	}
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates item with valid policy", func(t *testing.T) {
		item, err := NewInventoryItem("SKU-001", "Widget", "pcs", validPolicy())
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", item.ItemCode)
		assert.Equal(t, int64(0), item.TotalQuantity)
	})

	t.Run("requires item code", func(t *testing.T) {
		_, err := NewInventoryItem("", "Widget", "pcs", validPolicy())
		require.Error(t, err)
	})

	t.Run("requires name and unit", func(t *testing.T) {
		_, err := NewInventoryItem("SKU-001", "", "pcs", validPolicy())
		require.Error(t, err)
		_, err = NewInventoryItem("SKU-001", "Widget", "", validPolicy())
		require.Error(t, err)
	})
}

func TestReorderPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ReorderPolicy)
	}{
		{"negative min level", func(p *ReorderPolicy) { p.MinLevel = -1 }},
		{"negative target level", func(p *ReorderPolicy) { p.TargetLevel = -1 }},
		{"priority below range", func(p *ReorderPolicy) { p.Priority = 0 }},
		{"priority above range", func(p *ReorderPolicy) { p.Priority = 6 }},
		{"negative lead time", func(p *ReorderPolicy) { p.LeadTimeDays = -1 }},
		{"negative unit cost", func(p *ReorderPolicy) { p.UnitCost = decimal.NewFromInt(-1) }},
		{"negative max order qty", func(p *ReorderPolicy) { p.MaxOrderQty = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := validPolicy()
			tt.mutate(&policy)
			assert.Error(t, policy.Validate())
		})
	}
}

func TestInventoryItem_AddToTotal(t *testing.T) {
	item, err := NewInventoryItem("SKU-001", "Widget", "pcs", validPolicy())
	require.NoError(t, err)

	require.NoError(t, item.AddToTotal(30))
	require.NoError(t, item.AddToTotal(20))
	assert.Equal(t, int64(50), item.TotalQuantity)

	assert.Error(t, item.AddToTotal(0))
	assert.Error(t, item.AddToTotal(-5))
	assert.Equal(t, int64(50), item.TotalQuantity)
}

func TestStockRecord_AddQuantity(t *testing.T) {
	item, err := NewInventoryItem("SKU-001", "Widget", "pcs", validPolicy())
	require.NoError(t, err)

	rec, err := NewStockRecord(item.ID, "MAIN", 10)
	require.NoError(t, err)

	require.NoError(t, rec.AddQuantity(15))
	assert.Equal(t, int64(25), rec.Quantity)
	require.NotNil(t, rec.AvailableQuantity)
	assert.Equal(t, int64(25), *rec.AvailableQuantity)

	t.Run("initializes available when unset", func(t *testing.T) {
		rec.AvailableQuantity = nil
		require.NoError(t, rec.AddQuantity(5))
		require.NotNil(t, rec.AvailableQuantity)
		assert.Equal(t, int64(30), *rec.AvailableQuantity)
	})

	assert.Error(t, rec.AddQuantity(0))
}
