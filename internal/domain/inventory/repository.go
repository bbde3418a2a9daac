package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	ItemCodes []string
	Priority  *int
}

// InventoryItemRepository defines persistence operations for inventory items
type InventoryItemRepository interface {
	Save(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindByCode(ctx context.Context, itemCode string) (*InventoryItem, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]InventoryItem, error)
}

// StockRecordRepository defines persistence operations for stock records
type StockRecordRepository interface {
	Save(ctx context.Context, record *StockRecord) error
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]StockRecord, error)
	FindByItemAndLocation(ctx context.Context, itemID uuid.UUID, locationCode string) (*StockRecord, error)
}
