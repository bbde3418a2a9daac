package agent

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ToolName identifies one engine capability exposed to an orchestration
// caller
type ToolName string

const (
	ToolGetLowStockItems           ToolName = "get_low_stock_items"
	ToolComputeReorderPlan         ToolName = "compute_reorder_plan"
	ToolCreateDraftPurchaseRequest ToolName = "create_draft_purchase_request"
	ToolRouteForApproval           ToolName = "route_for_approval"
	ToolNotifyApprover             ToolName = "notify_approver"
	ToolWriteAuditLog              ToolName = "write_audit_log"
)

// ToolCall is the closed set of parsed tool invocations. Adding a tool
// means adding a variant here plus a case in ParseToolCall and in
// Executor.Execute; the compiler flags a missed dispatch case.
type ToolCall interface {
	Name() ToolName
}

// GetLowStockItemsCall scans inventory, optionally narrowed to codes
type GetLowStockItemsCall struct {
	ItemCodes []string `json:"item_codes,omitempty"`
}

func (GetLowStockItemsCall) Name() ToolName { return ToolGetLowStockItems }

// ComputeReorderPlanCall scores items and allocates the budget
type ComputeReorderPlanCall struct {
	Items     []reorder.LowStockItem `json:"items"`
	BudgetCap *decimal.Decimal       `json:"budget_cap,omitempty"`
}

func (ComputeReorderPlanCall) Name() ToolName { return ToolComputeReorderPlan }

// CreateDraftPurchaseRequestCall freezes a plan into a pending draft
type CreateDraftPurchaseRequestCall struct {
	Plan        reorder.ReorderPlan `json:"plan"`
	Explanation string              `json:"explanation,omitempty"`
	RequestedBy string              `json:"requested_by,omitempty"`
}

func (CreateDraftPurchaseRequestCall) Name() ToolName { return ToolCreateDraftPurchaseRequest }

// RouteForApprovalCall resolves and stamps the approver role
type RouteForApprovalCall struct {
	DraftID      uuid.UUID       `json:"draft_id"`
	TotalCostAll decimal.Decimal `json:"total_cost_all"`
}

func (RouteForApprovalCall) Name() ToolName { return ToolRouteForApproval }

// NotifyApproverCall fans a notification out to the approver role
type NotifyApproverCall struct {
	Role    string    `json:"role"`
	Message string    `json:"message"`
	DraftID uuid.UUID `json:"draft_id"`
}

func (NotifyApproverCall) Name() ToolName { return ToolNotifyApprover }

// WriteAuditLogCall persists the run's decision summary
type WriteAuditLogCall struct {
	DraftID              uuid.UUID       `json:"draft_id"`
	ItemCodesAccessed    []string        `json:"item_codes_accessed,omitempty"`
	ItemsEvaluated       int             `json:"items_evaluated"`
	ItemsIncluded        int             `json:"items_included"`
	ItemsDeferred        int             `json:"items_deferred"`
	TotalCostAll         decimal.Decimal `json:"total_cost_all"`
	TotalCostIncluded    decimal.Decimal `json:"total_cost_included"`
	RequiredApproverRole string          `json:"required_approver_role,omitempty"`
}

func (WriteAuditLogCall) Name() ToolName { return ToolWriteAuditLog }

// ParseToolCall decodes a named tool invocation into its typed variant.
// An unrecognized name is rejected before any argument parsing; malformed
// or unknown arguments are a validation error.
func ParseToolCall(name string, args json.RawMessage) (ToolCall, error) {
	var call ToolCall
	switch ToolName(name) {
	case ToolGetLowStockItems:
		call = &GetLowStockItemsCall{}
	case ToolComputeReorderPlan:
		call = &ComputeReorderPlanCall{}
	case ToolCreateDraftPurchaseRequest:
		call = &CreateDraftPurchaseRequestCall{}
	case ToolRouteForApproval:
		call = &RouteForApprovalCall{}
	case ToolNotifyApprover:
		call = &NotifyApproverCall{}
	case ToolWriteAuditLog:
		call = &WriteAuditLogCall{}
	default:
		return nil, shared.NewDomainError("UNKNOWN_TOOL", fmt.Sprintf("Unknown tool: %s", name))
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	decoder := json.NewDecoder(bytes.NewReader(args))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(call); err != nil {
		return nil, shared.NewDomainError("VALIDATION", fmt.Sprintf("Invalid arguments for tool %s: %v", name, err))
	}
	return call, nil
}

// ToolSchema describes one tool for an orchestration caller
type ToolSchema struct {
	Name        ToolName          `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters"`
}

// Schemas lists every registered tool with its argument shapes
func Schemas() []ToolSchema {
	return []ToolSchema{
		{
			Name:        ToolGetLowStockItems,
			Description: "Scan inventory for items whose available stock is at or below the minimum level",
			Parameters: map[string]string{
				"item_codes": "optional string array, restrict the scan to these item codes",
			},
		},
		{
			Name:        ToolComputeReorderPlan,
			Description: "Score low-stock items and allocate them against a budget cap",
			Parameters: map[string]string{
				"items":      "array of low-stock items from get_low_stock_items",
				"budget_cap": "optional decimal string, defaults to the configured cap",
			},
		},
		{
			Name:        ToolCreateDraftPurchaseRequest,
			Description: "Freeze a reorder plan into a draft purchase request pending approval",
			Parameters: map[string]string{
				"plan":         "reorder plan from compute_reorder_plan",
				"explanation":  "optional free-text rationale recorded on the draft",
				"requested_by": "optional requester identity, defaults to system",
			},
		},
		{
			Name:        ToolRouteForApproval,
			Description: "Resolve the approver role for the plan total and stamp it on the draft",
			Parameters: map[string]string{
				"draft_id":       "UUID of the draft to route",
				"total_cost_all": "decimal string, full plan cost used for tier routing",
			},
		},
		{
			Name:        ToolNotifyApprover,
			Description: "Notify every user holding the approver role about a pending draft",
			Parameters: map[string]string{
				"role":     "approver role to notify",
				"message":  "notification text",
				"draft_id": "UUID of the draft awaiting approval",
			},
		},
		{
			Name:        ToolWriteAuditLog,
			Description: "Persist the decision summary of a completed engine run",
			Parameters: map[string]string{
				"draft_id":               "UUID of the draft the run produced",
				"item_codes_accessed":    "item codes read during the run",
				"items_evaluated":        "count of scored items",
				"items_included":         "count of within-budget items",
				"items_deferred":         "count of deferred items",
				"total_cost_all":         "decimal string, full plan cost",
				"total_cost_included":    "decimal string, within-budget cost",
				"required_approver_role": "role the draft was routed to",
			},
		},
	}
}
