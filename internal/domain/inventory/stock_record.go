package inventory

import (
	"time"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
)

// StockRecord represents stock of an item held at a location, typically
// one record per batch. Records are aggregated by the scoring path and
// only mutated by fulfillment.
type StockRecord struct {
	shared.BaseEntity
	ItemID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	LocationCode      string     `gorm:"type:varchar(50);not null;index"`
	Quantity          int64      `gorm:"not null;default:0"`
	AvailableQuantity *int64     // nil means fall back to Quantity
	IsBlocked         bool       `gorm:"not null;default:false"`
	BatchNumber       string     `gorm:"type:varchar(100)"`
	ExpiryDate        *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a new stock record for an item at a location
func NewStockRecord(itemID uuid.UUID, locationCode string, quantity int64) (*StockRecord, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationCode == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location code cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	record := &StockRecord{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		LocationCode: locationCode,
		Quantity:     quantity,
	}
	record.AvailableQuantity = &quantity
	return record, nil
}

// Usable returns the quantity this record contributes to available stock:
// max(0, availableQuantity ?? quantity ?? 0), or 0 when blocked.
func (r *StockRecord) Usable() int64 {
	if r.IsBlocked {
		return 0
	}
	qty := r.Quantity
	if r.AvailableQuantity != nil {
		qty = *r.AvailableQuantity
	}
	if qty < 0 {
		return 0
	}
	return qty
}

// AddQuantity increments both quantity and available quantity, used by
// direct fulfillment when restocking an existing record.
func (r *StockRecord) AddQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity to add must be positive")
	}
	r.Quantity += quantity
	if r.AvailableQuantity == nil {
		avail := r.Quantity
		r.AvailableQuantity = &avail
	} else {
		*r.AvailableQuantity += quantity
	}
	r.UpdatedAt = time.Now()
	return nil
}

// SetBatch stamps the batch number and expiry date
func (r *StockRecord) SetBatch(batchNumber string, expiryDate *time.Time) {
	r.BatchNumber = batchNumber
	r.ExpiryDate = expiryDate
	r.UpdatedAt = time.Now()
}
