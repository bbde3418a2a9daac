package reorder

import (
	"time"

	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunRequest triggers one engine run
type RunRequest struct {
	BudgetCap   *decimal.Decimal
	ItemCodes   []string
	Explanation string
	RequestedBy string
}

// RunResult summarizes the outcome of one engine run
type RunResult struct {
	DraftID              uuid.UUID          `json:"draft_id"`
	DraftNumber          string             `json:"draft_number"`
	RequiredApproverRole string             `json:"required_approver_role"`
	NotifiedCount        int                `json:"notified_count"`
	AuditLogID           uuid.UUID          `json:"audit_log_id"`
	Totals               reorder.PlanTotals `json:"totals"`
}

// DraftLineResponse is the API shape of one snapshot line
type DraftLineResponse struct {
	ItemID              string             `json:"item_id"`
	ItemCode            string             `json:"item_code"`
	Name                string             `json:"name"`
	Unit                string             `json:"unit"`
	Available           int64              `json:"available"`
	MinLevel            int64              `json:"min_level"`
	TargetLevel         int64              `json:"target_level"`
	Priority            int                `json:"priority"`
	LeadTimeDays        int                `json:"lead_time_days"`
	UnitCost            string             `json:"unit_cost"`
	MaxOrderQty         int64              `json:"max_order_qty"`
	UrgencyScore        float64            `json:"urgency_score"`
	RecommendedOrderQty int64              `json:"recommended_order_qty"`
	EstimatedCost       string             `json:"estimated_cost"`
	Flags               []reorder.ItemFlag `json:"flags"`
}

// DraftResponse is the API shape of a draft purchase request
type DraftResponse struct {
	ID                   string              `json:"id"`
	DraftNumber          string              `json:"draft_number"`
	Status               string              `json:"status"`
	RequiredApproverRole string              `json:"required_approver_role,omitempty"`
	BudgetCap            string              `json:"budget_cap"`
	TotalCostAll         string              `json:"total_cost_all"`
	TotalCostIncluded    string              `json:"total_cost_included"`
	ItemsEvaluated       int                 `json:"items_evaluated"`
	ItemsIncluded        int                 `json:"items_included"`
	ItemsDeferred        int                 `json:"items_deferred"`
	Explanation          string              `json:"explanation,omitempty"`
	RequestedBy          string              `json:"requested_by"`
	ApprovedBy           *string             `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	RejectedBy           *string             `json:"rejected_by,omitempty"`
	RejectedAt           *time.Time          `json:"rejected_at,omitempty"`
	RejectionReason      string              `json:"rejection_reason,omitempty"`
	ConvertedToPR        *string             `json:"converted_to_pr,omitempty"`
	ConvertedAt          *time.Time          `json:"converted_at,omitempty"`
	FulfilledAt          *time.Time          `json:"fulfilled_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	WithinBudgetItems    []DraftLineResponse `json:"within_budget_items"`
	DeferredItems        []DraftLineResponse `json:"deferred_items"`
}

// ToDraftLineResponse maps a snapshot line to its API shape
func ToDraftLineResponse(line reorder.DraftLine) DraftLineResponse {
	return DraftLineResponse{
		ItemID:              line.ItemID.String(),
		ItemCode:            line.ItemCode,
		Name:                line.Name,
		Unit:                line.Unit,
		Available:           line.Available,
		MinLevel:            line.MinLevel,
		TargetLevel:         line.TargetLevel,
		Priority:            line.Priority,
		LeadTimeDays:        line.LeadTimeDays,
		UnitCost:            line.UnitCost.String(),
		MaxOrderQty:         line.MaxOrderQty,
		UrgencyScore:        line.UrgencyScore,
		RecommendedOrderQty: line.RecommendedOrderQty,
		EstimatedCost:       line.EstimatedCost.String(),
		Flags:               line.Flags,
	}
}

// ToDraftResponse maps a draft aggregate to its API shape
func ToDraftResponse(draft *reorder.DraftPurchaseRequest) DraftResponse {
	within := make([]DraftLineResponse, 0, draft.ItemsIncluded)
	for _, line := range draft.WithinBudgetLines() {
		within = append(within, ToDraftLineResponse(line))
	}
	deferred := make([]DraftLineResponse, 0, draft.ItemsDeferred)
	for _, line := range draft.DeferredLines() {
		deferred = append(deferred, ToDraftLineResponse(line))
	}

	return DraftResponse{
		ID:                   draft.ID.String(),
		DraftNumber:          draft.DraftNumber,
		Status:               draft.Status.String(),
		RequiredApproverRole: draft.RequiredApproverRole,
		BudgetCap:            draft.BudgetCap.String(),
		TotalCostAll:         draft.TotalCostAll.String(),
		TotalCostIncluded:    draft.TotalCostIncluded.String(),
		ItemsEvaluated:       draft.ItemsEvaluated,
		ItemsIncluded:        draft.ItemsIncluded,
		ItemsDeferred:        draft.ItemsDeferred,
		Explanation:          draft.Explanation,
		RequestedBy:          draft.RequestedBy,
		ApprovedBy:           draft.ApprovedBy,
		ApprovedAt:           draft.ApprovedAt,
		RejectedBy:           draft.RejectedBy,
		RejectedAt:           draft.RejectedAt,
		RejectionReason:      draft.RejectionReason,
		ConvertedToPR:        draft.ConvertedToPR,
		ConvertedAt:          draft.ConvertedAt,
		FulfilledAt:          draft.FulfilledAt,
		CreatedAt:            draft.CreatedAt,
		UpdatedAt:            draft.UpdatedAt,
		WithinBudgetItems:    within,
		DeferredItems:        deferred,
	}
}
