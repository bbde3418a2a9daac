package inventory

import (
	"time"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReorderPolicy holds the per-item replenishment parameters used by the
// scoring and allocation path. Policy is treated as immutable during a
// single engine run.
type ReorderPolicy struct {
	MinLevel     int64           `gorm:"not null;default:0"`
	TargetLevel  int64           `gorm:"not null;default:0"`
	Priority     int             `gorm:"not null;default:3"` // 1 (lowest) .. 5 (highest)
	LeadTimeDays int             `gorm:"not null;default:0"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxOrderQty  int64           `gorm:"not null;default:0"`
}

// InventoryItem represents a stocked item and its reorder policy.
// TotalQuantity is a running total maintained on fulfillment; the
// scoring/allocation path never mutates it.
type InventoryItem struct {
	shared.BaseAggregateRoot
	ItemCode      string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string        `gorm:"type:varchar(200);not null"`
	Unit          string        `gorm:"type:varchar(20);not null"`
	Policy        ReorderPolicy `gorm:"embedded;embeddedPrefix:policy_"`
	TotalQuantity int64         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item with its reorder policy
func NewInventoryItem(itemCode, name, unit string, policy ReorderPolicy) (*InventoryItem, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_CODE", "Item code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemCode:          itemCode,
		Name:              name,
		Unit:              unit,
		Policy:            policy,
	}, nil
}

// Validate checks the policy parameters
func (p ReorderPolicy) Validate() error {
	if p.MinLevel < 0 {
		return shared.NewDomainError("INVALID_POLICY", "Minimum level cannot be negative")
	}
	if p.TargetLevel < 0 {
		return shared.NewDomainError("INVALID_POLICY", "Target level cannot be negative")
	}
	if p.Priority < 1 || p.Priority > 5 {
		return shared.NewDomainError("INVALID_POLICY", "Priority must be between 1 and 5")
	}
	if p.LeadTimeDays < 0 {
		return shared.NewDomainError("INVALID_POLICY", "Lead time cannot be negative")
	}
	if p.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_POLICY", "Unit cost cannot be negative")
	}
	if p.MaxOrderQty < 0 {
		return shared.NewDomainError("INVALID_POLICY", "Max order quantity cannot be negative")
	}
	return nil
}

// AddToTotal increments the running total quantity on stock fulfillment
func (i *InventoryItem) AddToTotal(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Fulfillment quantity must be positive")
	}
	i.TotalQuantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// UpdatePolicy replaces the reorder policy
func (i *InventoryItem) UpdatePolicy(policy ReorderPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	i.Policy = policy
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
