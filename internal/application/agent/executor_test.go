package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	appreorder "github.com/erp/reorder/internal/application/reorder"
	"github.com/erp/reorder/internal/domain/audit"
	"github.com/erp/reorder/internal/domain/identity"
	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/notify"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memItemRepo struct{ items []*inventory.InventoryItem }

func (r *memItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Inventory item not found")
}

func (r *memItemRepo) FindByCode(_ context.Context, code string) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ItemCode == code {
			return item, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Inventory item not found")
}

func (r *memItemRepo) FindAll(_ context.Context, _ inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	out := make([]inventory.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

type memStockRepo struct{}

func (memStockRepo) Save(_ context.Context, _ *inventory.StockRecord) error { return nil }
func (memStockRepo) FindByItemID(_ context.Context, _ uuid.UUID) ([]inventory.StockRecord, error) {
	return nil, nil
}
func (memStockRepo) FindByItemAndLocation(_ context.Context, _ uuid.UUID, _ string) (*inventory.StockRecord, error) {
	return nil, shared.NewDomainError("NOT_FOUND", "Stock record not found")
}

type memDraftRepo struct {
	drafts map[uuid.UUID]*reorder.DraftPurchaseRequest
	seq    int
}

func (r *memDraftRepo) Save(_ context.Context, draft *reorder.DraftPurchaseRequest) error {
	r.drafts[draft.ID] = draft
	return nil
}

func (r *memDraftRepo) FindByID(_ context.Context, id uuid.UUID) (*reorder.DraftPurchaseRequest, error) {
	draft, ok := r.drafts[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
	}
	return draft, nil
}

func (r *memDraftRepo) FindByNumber(_ context.Context, _ string) (*reorder.DraftPurchaseRequest, error) {
	return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
}

func (r *memDraftRepo) FindAll(_ context.Context, _ reorder.DraftFilter) ([]reorder.DraftPurchaseRequest, int64, error) {
	return nil, 0, nil
}

func (r *memDraftRepo) GenerateDraftNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("RD-2026-%05d", r.seq), nil
}

type memUserRepo struct{ users []identity.User }

func (r *memUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users = append(r.users, *user)
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, _ string) (*identity.User, error) {
	return nil, shared.NewDomainError("NOT_FOUND", "User not found")
}

func (r *memUserRepo) FindByRole(_ context.Context, role string) ([]identity.User, error) {
	var out []identity.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

type memNotifyRepo struct{ saved []*notify.Notification }

func (r *memNotifyRepo) Save(_ context.Context, n *notify.Notification) error {
	r.saved = append(r.saved, n)
	return nil
}

func (r *memNotifyRepo) FindByUserID(_ context.Context, _ uuid.UUID) ([]notify.Notification, error) {
	return nil, nil
}

type memAuditRepo struct{ saved []*audit.AuditLog }

func (r *memAuditRepo) Save(_ context.Context, log *audit.AuditLog) error {
	r.saved = append(r.saved, log)
	return nil
}

func (r *memAuditRepo) FindByDraftID(_ context.Context, _ uuid.UUID) ([]audit.AuditLog, error) {
	return nil, nil
}

func newTestExecutor(t *testing.T) (*Executor, *memDraftRepo, *memUserRepo, *memNotifyRepo, *memAuditRepo) {
	t.Helper()
	logger := zap.NewNop()

	items := &memItemRepo{}
	item, err := inventory.NewInventoryItem("WID-001", "Widget", "pcs", inventory.ReorderPolicy{
		MinLevel:     100,
		TargetLevel:  500,
		Priority:     4,
		LeadTimeDays: 12,
		UnitCost:     decimal.NewFromInt(10),
		MaxOrderQty:  1000,
	})
	require.NoError(t, err)
	require.NoError(t, items.Save(context.Background(), item))

	drafts := &memDraftRepo{drafts: make(map[uuid.UUID]*reorder.DraftPurchaseRequest)}
	users := &memUserRepo{}
	alerts := &memNotifyRepo{}
	audits := &memAuditRepo{}

	engine := appreorder.NewEngineService(
		items, inventory.NewStockAggregator(memStockRepo{}, logger),
		drafts, users, alerts, audits,
		reorder.DefaultRolePolicy(),
		appreorder.EngineOptions{DefaultBudgetCap: decimal.NewFromInt(10000)},
		logger,
	)
	return NewExecutor(engine, logger), drafts, users, alerts, audits
}

func assertToolErr(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestParseToolCall_UnknownTool(t *testing.T) {
	_, err := ParseToolCall("liquidate_warehouse", json.RawMessage(`{}`))
	assertToolErr(t, err, "UNKNOWN_TOOL")
}

func TestParseToolCall_UnknownField(t *testing.T) {
	_, err := ParseToolCall("get_low_stock_items", json.RawMessage(`{"warehouse":"main"}`))
	assertToolErr(t, err, "VALIDATION")
}

func TestParseToolCall_MalformedJSON(t *testing.T) {
	_, err := ParseToolCall("notify_approver", json.RawMessage(`{"role":`))
	assertToolErr(t, err, "VALIDATION")
}

func TestParseToolCall_EmptyArgs(t *testing.T) {
	call, err := ParseToolCall("get_low_stock_items", nil)
	require.NoError(t, err)
	assert.Equal(t, ToolGetLowStockItems, call.Name())
}

func TestParseToolCall_TypedVariants(t *testing.T) {
	call, err := ParseToolCall("compute_reorder_plan", json.RawMessage(`{"items":[],"budget_cap":"2500"}`))
	require.NoError(t, err)

	planCall, ok := call.(*ComputeReorderPlanCall)
	require.True(t, ok)
	require.NotNil(t, planCall.BudgetCap)
	assert.True(t, planCall.BudgetCap.Equal(decimal.NewFromInt(2500)))
}

func TestExecutor_OrchestratedSequence(t *testing.T) {
	executor, drafts, users, alerts, audits := newTestExecutor(t)
	ctx := context.Background()

	approver, err := identity.NewUser("alice", "purchase_manager")
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, approver))

	// Step 1: scan
	call, err := ParseToolCall("get_low_stock_items", nil)
	require.NoError(t, err)
	result, err := executor.Execute(ctx, call)
	require.NoError(t, err)
	lowStock, ok := result.([]reorder.LowStockItem)
	require.True(t, ok)
	require.Len(t, lowStock, 1)

	// Step 2: plan
	itemsJSON, err := json.Marshal(lowStock)
	require.NoError(t, err)
	call, err = ParseToolCall("compute_reorder_plan", json.RawMessage(`{"items":`+string(itemsJSON)+`}`))
	require.NoError(t, err)
	result, err = executor.Execute(ctx, call)
	require.NoError(t, err)
	plan, ok := result.(reorder.ReorderPlan)
	require.True(t, ok)
	assert.Equal(t, 1, plan.Totals.ItemsIncluded)

	// Step 3: draft
	planJSON, err := json.Marshal(plan)
	require.NoError(t, err)
	call, err = ParseToolCall("create_draft_purchase_request",
		json.RawMessage(`{"plan":`+string(planJSON)+`,"requested_by":"orchestrator"}`))
	require.NoError(t, err)
	result, err = executor.Execute(ctx, call)
	require.NoError(t, err)
	draft, ok := result.(appreorder.DraftResponse)
	require.True(t, ok)
	assert.Equal(t, "RD-2026-00001", draft.DraftNumber)

	// Step 4: route
	call, err = ParseToolCall("route_for_approval",
		json.RawMessage(`{"draft_id":"`+draft.ID+`","total_cost_all":"`+draft.TotalCostAll+`"}`))
	require.NoError(t, err)
	result, err = executor.Execute(ctx, call)
	require.NoError(t, err)
	routed, ok := result.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "purchase_manager", routed["required_approver_role"])

	// Step 5: notify
	call, err = ParseToolCall("notify_approver",
		json.RawMessage(`{"role":"purchase_manager","message":"please review","draft_id":"`+draft.ID+`"}`))
	require.NoError(t, err)
	result, err = executor.Execute(ctx, call)
	require.NoError(t, err)
	notified, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, notified["notified_count"])
	assert.Equal(t, "purchase_manager", notified["approver_role"])
	assert.Len(t, alerts.saved, 1)

	// Step 6: audit
	call, err = ParseToolCall("write_audit_log",
		json.RawMessage(`{"draft_id":"`+draft.ID+`","items_evaluated":1,"items_included":1,"total_cost_all":"4700","total_cost_included":"4700","required_approver_role":"purchase_manager"}`))
	require.NoError(t, err)
	result, err = executor.Execute(ctx, call)
	require.NoError(t, err)
	audited, ok := result.(map[string]string)
	require.True(t, ok)
	assert.NotEmpty(t, audited["audit_log_id"])
	assert.Len(t, audits.saved, 1)

	// Draft stayed pending throughout
	id, err := uuid.Parse(draft.ID)
	require.NoError(t, err)
	stored, err := drafts.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, reorder.DraftStatusPendingApproval, stored.Status)
	assert.Equal(t, "purchase_manager", stored.RequiredApproverRole)
}

func TestSchemas_CoversEveryTool(t *testing.T) {
	schemas := Schemas()
	require.Len(t, schemas, 6)

	names := make(map[ToolName]bool, len(schemas))
	for _, schema := range schemas {
		assert.NotEmpty(t, schema.Description)
		assert.NotEmpty(t, schema.Parameters)
		names[schema.Name] = true
	}
	for _, name := range []ToolName{
		ToolGetLowStockItems, ToolComputeReorderPlan, ToolCreateDraftPurchaseRequest,
		ToolRouteForApproval, ToolNotifyApprover, ToolWriteAuditLog,
	} {
		assert.True(t, names[name], "missing schema for %s", name)
	}
}
