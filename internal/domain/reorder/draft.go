package reorder

import (
	"fmt"
	"time"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftStatus represents the status of a draft purchase request
type DraftStatus string

const (
	DraftStatusPendingApproval DraftStatus = "pending_approval"
	DraftStatusApproved        DraftStatus = "approved"
	DraftStatusRejected        DraftStatus = "rejected"
	DraftStatusConverted       DraftStatus = "converted"
	DraftStatusFulfilled       DraftStatus = "fulfilled"
)

// IsValid checks if the status is a valid DraftStatus
func (s DraftStatus) IsValid() bool {
	switch s {
	case DraftStatusPendingApproval, DraftStatusApproved, DraftStatusRejected,
		DraftStatusConverted, DraftStatusFulfilled:
		return true
	}
	return false
}

// String returns the string representation of DraftStatus
func (s DraftStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target
// status. Once a draft leaves pending_approval it is terminal except
// approved -> converted / fulfilled; nothing ever reverts to
// pending_approval.
func (s DraftStatus) CanTransitionTo(target DraftStatus) bool {
	switch s {
	case DraftStatusPendingApproval:
		return target == DraftStatusApproved || target == DraftStatusRejected || target == DraftStatusFulfilled
	case DraftStatusApproved:
		return target == DraftStatusConverted || target == DraftStatusFulfilled
	case DraftStatusRejected, DraftStatusConverted, DraftStatusFulfilled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transition is possible
func (s DraftStatus) IsTerminal() bool {
	return s == DraftStatusRejected || s == DraftStatusConverted || s == DraftStatusFulfilled
}

// DraftLine is the frozen per-item snapshot embedded in a draft. It
// preserves the policy and score exactly as computed at creation time so
// historical drafts stay reproducible even if the policy changes later.
type DraftLine struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key"`
	DraftID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID              uuid.UUID       `gorm:"type:uuid;not null"`
	ItemCode            string          `gorm:"type:varchar(50);not null"`
	Name                string          `gorm:"type:varchar(200);not null"`
	Unit                string          `gorm:"type:varchar(20);not null"`
	Available           int64           `gorm:"not null"`
	MinLevel            int64           `gorm:"not null"`
	TargetLevel         int64           `gorm:"not null"`
	Priority            int             `gorm:"not null"`
	LeadTimeDays        int             `gorm:"not null"`
	UnitCost            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaxOrderQty         int64           `gorm:"not null"`
	UrgencyScore        float64         `gorm:"not null"`
	RecommendedOrderQty int64           `gorm:"not null"`
	EstimatedCost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Flags               []ItemFlag      `gorm:"serializer:json"`
	Included            bool            `gorm:"not null;index"`
	Position            int             `gorm:"not null"` // decision order within the partition
}

// TableName returns the table name for GORM
func (DraftLine) TableName() string {
	return "draft_purchase_request_lines"
}

// ToScoredItem rebuilds the scored item from the persisted snapshot
func (l *DraftLine) ToScoredItem() ScoredItem {
	return ScoredItem{
		LowStockItem: LowStockItem{
			ItemID:       l.ItemID,
			ItemCode:     l.ItemCode,
			Name:         l.Name,
			Unit:         l.Unit,
			Available:    l.Available,
			MinLevel:     l.MinLevel,
			TargetLevel:  l.TargetLevel,
			Priority:     l.Priority,
			LeadTimeDays: l.LeadTimeDays,
			UnitCost:     l.UnitCost,
			MaxOrderQty:  l.MaxOrderQty,
		},
		UrgencyScore:        l.UrgencyScore,
		RecommendedOrderQty: l.RecommendedOrderQty,
		EstimatedCost:       l.EstimatedCost,
		Flags:               l.Flags,
	}
}

// DraftPurchaseRequest is the durable decision record of one engine run:
// the frozen plan snapshot plus its approval lifecycle.
type DraftPurchaseRequest struct {
	shared.BaseAggregateRoot
	DraftNumber          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status               DraftStatus     `gorm:"type:varchar(30);not null;default:'pending_approval';index"`
	RequiredApproverRole string          `gorm:"type:varchar(50)"` // unset until routing runs
	BudgetCap            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCostAll         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCostIncluded    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemsEvaluated       int             `gorm:"not null;default:0"`
	ItemsIncluded        int             `gorm:"not null;default:0"`
	ItemsDeferred        int             `gorm:"not null;default:0"`
	Explanation          string          `gorm:"type:text"`
	RequestedBy          string          `gorm:"type:varchar(100);not null"`
	ApprovedBy           *string         `gorm:"type:varchar(100)"`
	ApprovedAt           *time.Time
	RejectedBy           *string `gorm:"type:varchar(100)"`
	RejectedAt           *time.Time
	RejectionReason      string  `gorm:"type:varchar(500)"`
	ConvertedToPR        *string `gorm:"type:varchar(50)"` // weak back-reference, lookup only
	ConvertedAt          *time.Time
	FulfilledAt          *time.Time
	Lines                []DraftLine `gorm:"foreignKey:DraftID;references:ID"`
}

// TableName returns the table name for GORM
func (DraftPurchaseRequest) TableName() string {
	return "draft_purchase_requests"
}

// NewDraftPurchaseRequest freezes a reorder plan into a pending draft.
// The approver role stays unset until the routing step assigns it.
func NewDraftPurchaseRequest(draftNumber string, plan ReorderPlan, explanation, requestedBy string) (*DraftPurchaseRequest, error) {
	if draftNumber == "" {
		return nil, shared.NewDomainError("INVALID_DRAFT_NUMBER", "Draft number cannot be empty")
	}
	if requestedBy == "" {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester cannot be empty")
	}

	draft := &DraftPurchaseRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DraftNumber:       draftNumber,
		Status:            DraftStatusPendingApproval,
		BudgetCap:         plan.BudgetCap,
		TotalCostAll:      plan.Totals.TotalCostAll,
		TotalCostIncluded: plan.Totals.TotalCostIncluded,
		ItemsEvaluated:    plan.Totals.ItemsEvaluated,
		ItemsIncluded:     plan.Totals.ItemsIncluded,
		ItemsDeferred:     plan.Totals.ItemsDeferred,
		Explanation:       explanation,
		RequestedBy:       requestedBy,
		Lines:             make([]DraftLine, 0, len(plan.WithinBudgetItems)+len(plan.DeferredItems)),
	}

	for pos, item := range plan.WithinBudgetItems {
		draft.Lines = append(draft.Lines, newDraftLine(draft.ID, item, true, pos))
	}
	for pos, item := range plan.DeferredItems {
		draft.Lines = append(draft.Lines, newDraftLine(draft.ID, item, false, pos))
	}

	return draft, nil
}

func newDraftLine(draftID uuid.UUID, item ScoredItem, included bool, position int) DraftLine {
	return DraftLine{
		ID:                  uuid.New(),
		DraftID:             draftID,
		ItemID:              item.ItemID,
		ItemCode:            item.ItemCode,
		Name:                item.Name,
		Unit:                item.Unit,
		Available:           item.Available,
		MinLevel:            item.MinLevel,
		TargetLevel:         item.TargetLevel,
		Priority:            item.Priority,
		LeadTimeDays:        item.LeadTimeDays,
		UnitCost:            item.UnitCost,
		MaxOrderQty:         item.MaxOrderQty,
		UrgencyScore:        item.UrgencyScore,
		RecommendedOrderQty: item.RecommendedOrderQty,
		EstimatedCost:       item.EstimatedCost,
		Flags:               item.Flags,
		Included:            included,
		Position:            position,
	}
}

// WithinBudgetLines returns the included snapshot lines in decision order
func (d *DraftPurchaseRequest) WithinBudgetLines() []DraftLine {
	return d.partitionLines(true)
}

// DeferredLines returns the deferred snapshot lines in decision order
func (d *DraftPurchaseRequest) DeferredLines() []DraftLine {
	return d.partitionLines(false)
}

func (d *DraftPurchaseRequest) partitionLines(included bool) []DraftLine {
	lines := make([]DraftLine, 0, len(d.Lines))
	for _, line := range d.Lines {
		if line.Included == included {
			lines = append(lines, line)
		}
	}
	return lines
}

// AssignApproverRole records the routing decision. Routing runs once,
// right after creation, while the draft is still pending.
func (d *DraftPurchaseRequest) AssignApproverRole(role string) error {
	if d.Status != DraftStatusPendingApproval {
		return d.stateError("route", DraftStatusPendingApproval)
	}
	if role == "" {
		return shared.NewDomainError("VALIDATION", "Approver role cannot be empty")
	}
	d.RequiredApproverRole = role
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// Approve transitions the draft to approved. The actor's role must rank
// at or above the required approver role; admin bypasses the comparison.
func (d *DraftPurchaseRequest) Approve(actor, actorRole string, policy *RolePolicy) error {
	if d.Status != DraftStatusPendingApproval {
		return d.stateError("approve", DraftStatusPendingApproval)
	}
	if err := d.guardRole(actorRole, policy); err != nil {
		return err
	}

	now := time.Now()
	d.Status = DraftStatusApproved
	d.ApprovedBy = &actor
	d.ApprovedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()
	return nil
}

// Reject transitions the draft to rejected. A non-empty reason is
// required; the same state and role guards as Approve apply.
func (d *DraftPurchaseRequest) Reject(actor, actorRole, reason string, policy *RolePolicy) error {
	if d.Status != DraftStatusPendingApproval {
		return d.stateError("reject", DraftStatusPendingApproval)
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Rejection reason is required")
	}
	if err := d.guardRole(actorRole, policy); err != nil {
		return err
	}

	now := time.Now()
	d.Status = DraftStatusRejected
	d.RejectedBy = &actor
	d.RejectedAt = &now
	d.RejectionReason = reason
	d.UpdatedAt = now
	d.IncrementVersion()
	return nil
}

// MarkConverted records conversion into a requisition. Only approved
// drafts convert.
func (d *DraftPurchaseRequest) MarkConverted(requisitionNumber string) error {
	if d.Status != DraftStatusApproved {
		return d.stateError("convert", DraftStatusApproved)
	}
	if requisitionNumber == "" {
		return shared.NewDomainError("VALIDATION", "Requisition number cannot be empty")
	}

	now := time.Now()
	d.Status = DraftStatusConverted
	d.ConvertedToPR = &requisitionNumber
	d.ConvertedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()
	return nil
}

// MarkFulfilled records direct stock fulfillment. Deliberately more
// permissive than conversion: allowed from pending_approval or approved,
// for environments without a live supplier.
func (d *DraftPurchaseRequest) MarkFulfilled() error {
	if d.Status != DraftStatusPendingApproval && d.Status != DraftStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
			"Cannot fulfill draft %s: status is %s, expected %s or %s",
			d.DraftNumber, d.Status, DraftStatusPendingApproval, DraftStatusApproved))
	}

	now := time.Now()
	d.Status = DraftStatusFulfilled
	d.FulfilledAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()
	return nil
}

func (d *DraftPurchaseRequest) guardRole(actorRole string, policy *RolePolicy) error {
	if d.RequiredApproverRole == "" {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
			"Draft %s has not been routed for approval yet", d.DraftNumber))
	}
	if !policy.Allows(actorRole, d.RequiredApproverRole) {
		return shared.NewDomainError("FORBIDDEN", fmt.Sprintf(
			"Role %q cannot act on draft %s: requires %q or higher",
			actorRole, d.DraftNumber, d.RequiredApproverRole))
	}
	return nil
}

func (d *DraftPurchaseRequest) stateError(action string, expected DraftStatus) error {
	return shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
		"Cannot %s draft %s: status is %s, expected %s",
		action, d.DraftNumber, d.Status, expected))
}
