package requisition

import (
	"time"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequisitionStatus represents the status of a purchase requisition
type RequisitionStatus string

const (
	RequisitionStatusSubmitted RequisitionStatus = "submitted"
	RequisitionStatusCancelled RequisitionStatus = "cancelled"
)

// RequisitionLine represents a line item on a requisition
type RequisitionLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	RequisitionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Quantity      int64           `gorm:"not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark        string          `gorm:"type:varchar(500)"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RequisitionLine) TableName() string {
	return "requisition_lines"
}

// Requisition represents a purchase requisition created from an approved
// draft. It is created directly in submitted status.
type Requisition struct {
	shared.BaseAggregateRoot
	Number        string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status        RequisitionStatus `gorm:"type:varchar(20);not null;default:'submitted'"`
	SourceDraftID uuid.UUID         `gorm:"type:uuid;not null;index"`
	SourceDraftNo string            `gorm:"type:varchar(50);not null"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Lines         []RequisitionLine `gorm:"foreignKey:RequisitionID;references:ID"`
}

// TableName returns the table name for GORM
func (Requisition) TableName() string {
	return "requisitions"
}

// NewRequisition creates a submitted requisition referencing its source
// draft
func NewRequisition(number string, sourceDraftID uuid.UUID, sourceDraftNo string) (*Requisition, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Requisition number cannot be empty")
	}
	if sourceDraftID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DRAFT", "Source draft ID cannot be empty")
	}

	return &Requisition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Status:            RequisitionStatusSubmitted,
		SourceDraftID:     sourceDraftID,
		SourceDraftNo:     sourceDraftNo,
		TotalAmount:       decimal.Zero,
		Lines:             make([]RequisitionLine, 0),
	}, nil
}

// AddLine appends a line item and updates the total amount
func (r *Requisition) AddLine(itemID uuid.UUID, itemCode, name, unit string, quantity int64, rate decimal.Decimal, remark string) error {
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}

	amount := rate.Mul(decimal.NewFromInt(quantity)).Round(2)
	r.Lines = append(r.Lines, RequisitionLine{
		ID:            uuid.New(),
		RequisitionID: r.ID,
		ItemID:        itemID,
		ItemCode:      itemCode,
		Name:          name,
		Unit:          unit,
		Quantity:      quantity,
		Rate:          rate,
		Amount:        amount,
		Remark:        remark,
		CreatedAt:     time.Now(),
	})
	r.TotalAmount = r.TotalAmount.Add(amount)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
