package persistence

import (
	"context"
	"errors"

	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// Save persists a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return session(ctx, r.db).Save(record).Error
}

// FindByItemID finds all stock records for an item across locations
func (r *GormStockRecordRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := session(ctx, r.db).
		Where("item_id = ?", itemID).
		Order("location_code ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByItemAndLocation finds the stock record for an item at one location
func (r *GormStockRecordRepository) FindByItemAndLocation(ctx context.Context, itemID uuid.UUID, locationCode string) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := session(ctx, r.db).
		Where("item_id = ? AND location_code = ?", itemID, locationCode).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
