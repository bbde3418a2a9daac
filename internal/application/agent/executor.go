package agent

import (
	"context"
	"fmt"

	appreorder "github.com/erp/reorder/internal/application/reorder"
	"github.com/erp/reorder/internal/domain/shared"
	"go.uber.org/zap"
)

// Executor dispatches parsed tool calls onto the engine service. It is
// the orchestrated counterpart of EngineService.Run: an external caller
// sequences the tools itself and the executor runs one step at a time.
type Executor struct {
	engine *appreorder.EngineService
	logger *zap.Logger
}

// NewExecutor creates a new Executor
func NewExecutor(engine *appreorder.EngineService, logger *zap.Logger) *Executor {
	return &Executor{engine: engine, logger: logger}
}

// Execute runs one tool call and returns its JSON-serializable result
func (e *Executor) Execute(ctx context.Context, call ToolCall) (any, error) {
	e.logger.Debug("executing tool", zap.String("tool", string(call.Name())))

	switch c := call.(type) {
	case *GetLowStockItemsCall:
		return e.engine.GetLowStockItems(ctx, c.ItemCodes)

	case *ComputeReorderPlanCall:
		return e.engine.ComputeReorderPlan(c.Items, c.BudgetCap)

	case *CreateDraftPurchaseRequestCall:
		draft, err := e.engine.CreateDraftPurchaseRequest(ctx, c.Plan, c.Explanation, c.RequestedBy)
		if err != nil {
			return nil, err
		}
		return appreorder.ToDraftResponse(draft), nil

	case *RouteForApprovalCall:
		role, err := e.engine.RouteForApproval(ctx, c.DraftID, c.TotalCostAll)
		if err != nil {
			return nil, err
		}
		return map[string]string{"required_approver_role": role}, nil

	case *NotifyApproverCall:
		count, err := e.engine.NotifyApprover(ctx, c.Role, c.Message, c.DraftID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"notified_count": count, "approver_role": c.Role}, nil

	case *WriteAuditLogCall:
		auditID, err := e.engine.WriteAuditLog(ctx, appreorder.AuditEntry{
			DraftID:              c.DraftID,
			ItemCodesAccessed:    c.ItemCodesAccessed,
			ItemsEvaluated:       c.ItemsEvaluated,
			ItemsIncluded:        c.ItemsIncluded,
			ItemsDeferred:        c.ItemsDeferred,
			TotalCostAll:         c.TotalCostAll,
			TotalCostIncluded:    c.TotalCostIncluded,
			RequiredApproverRole: c.RequiredApproverRole,
		})
		if err != nil {
			return nil, err
		}
		return map[string]string{"audit_log_id": auditID.String()}, nil

	default:
		return nil, shared.NewDomainError("UNKNOWN_TOOL", fmt.Sprintf("Unknown tool: %s", call.Name()))
	}
}
