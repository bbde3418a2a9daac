package persistence

import (
	"context"
	"errors"

	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// Save persists an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return session(ctx, r.db).Save(item).Error
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := session(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByCode finds an inventory item by its item code
func (r *GormInventoryItemRepository) FindByCode(ctx context.Context, itemCode string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := session(ctx, r.db).First(&item, "item_code = ?", itemCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds inventory items matching the filter, ordered by item code
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := session(ctx, r.db).Model(&inventory.InventoryItem{})

	if len(filter.ItemCodes) > 0 {
		query = query.Where("item_code IN ?", filter.ItemCodes)
	}
	if filter.Priority != nil {
		query = query.Where("policy_priority = ?", *filter.Priority)
	}

	if err := query.Order("item_code ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
