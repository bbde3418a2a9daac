package reorder

import (
	"context"
	"fmt"

	"github.com/erp/reorder/internal/domain/audit"
	"github.com/erp/reorder/internal/domain/identity"
	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/notify"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EngineOptions carries engine defaults resolved from configuration
type EngineOptions struct {
	DefaultBudgetCap decimal.Decimal
}

// EngineService implements the reorder decision run: stock aggregation,
// scoring, budget allocation, draft creation, routing, notification and
// audit. Each operation is also exposed individually as a tool for an
// external orchestration caller; Run is the fixed-sequence direct mode.
type EngineService struct {
	items      inventory.InventoryItemRepository
	aggregator *inventory.StockAggregator
	drafts     reorder.DraftRepository
	users      identity.UserRepository
	alerts     notify.Repository
	audits     audit.Repository
	policy     *reorder.RolePolicy
	opts       EngineOptions
	logger     *zap.Logger
}

// NewEngineService creates a new EngineService
func NewEngineService(
	items inventory.InventoryItemRepository,
	aggregator *inventory.StockAggregator,
	drafts reorder.DraftRepository,
	users identity.UserRepository,
	alerts notify.Repository,
	audits audit.Repository,
	policy *reorder.RolePolicy,
	opts EngineOptions,
	logger *zap.Logger,
) *EngineService {
	return &EngineService{
		items:      items,
		aggregator: aggregator,
		drafts:     drafts,
		users:      users,
		alerts:     alerts,
		audits:     audits,
		policy:     policy,
		opts:       opts,
		logger:     logger,
	}
}

// GetLowStockItems returns every item whose aggregated available stock is
// at or below its minimum level, optionally narrowed to specific codes.
func (s *EngineService) GetLowStockItems(ctx context.Context, itemCodes []string) ([]reorder.LowStockItem, error) {
	items, err := s.items.FindAll(ctx, inventory.ItemFilter{ItemCodes: itemCodes})
	if err != nil {
		return nil, err
	}

	lowStock := make([]reorder.LowStockItem, 0, len(items))
	for i := range items {
		item := &items[i]
		available := s.aggregator.AvailableStock(ctx, item.ID)
		if available > item.Policy.MinLevel {
			continue
		}
		lowStock = append(lowStock, reorder.LowStockItem{
			ItemID:       item.ID,
			ItemCode:     item.ItemCode,
			Name:         item.Name,
			Unit:         item.Unit,
			Available:    available,
			MinLevel:     item.Policy.MinLevel,
			TargetLevel:  item.Policy.TargetLevel,
			Priority:     item.Policy.Priority,
			LeadTimeDays: item.Policy.LeadTimeDays,
			UnitCost:     item.Policy.UnitCost,
			MaxOrderQty:  item.Policy.MaxOrderQty,
		})
	}

	s.logger.Debug("low stock scan complete",
		zap.Int("items_scanned", len(items)),
		zap.Int("items_low", len(lowStock)),
	)
	return lowStock, nil
}

// ComputeReorderPlan scores the items and allocates the budget. A nil
// budget cap falls back to the configured default.
func (s *EngineService) ComputeReorderPlan(items []reorder.LowStockItem, budgetCap *decimal.Decimal) (reorder.ReorderPlan, error) {
	budget := s.opts.DefaultBudgetCap
	if budgetCap != nil {
		budget = *budgetCap
	}
	if budget.IsNegative() {
		return reorder.ReorderPlan{}, shared.NewDomainError("VALIDATION", "Budget cap cannot be negative")
	}
	return reorder.BuildPlan(items, budget), nil
}

// CreateDraftPurchaseRequest freezes the plan into a pending draft
func (s *EngineService) CreateDraftPurchaseRequest(ctx context.Context, plan reorder.ReorderPlan, explanation, requestedBy string) (*reorder.DraftPurchaseRequest, error) {
	draftNumber, err := s.drafts.GenerateDraftNumber(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := reorder.NewDraftPurchaseRequest(draftNumber, plan, explanation, requestedBy)
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("draft purchase request created",
		zap.String("draft_number", draft.DraftNumber),
		zap.Int("items_included", draft.ItemsIncluded),
		zap.Int("items_deferred", draft.ItemsDeferred),
		zap.String("total_cost_included", draft.TotalCostIncluded.String()),
	)
	return draft, nil
}

// RouteForApproval resolves the approver role for the draft's total cost
// from the cost-tier table and stamps it on the draft.
func (s *EngineService) RouteForApproval(ctx context.Context, draftID uuid.UUID, totalCostAll decimal.Decimal) (string, error) {
	draft, err := s.drafts.FindByID(ctx, draftID)
	if err != nil {
		return "", err
	}

	role := s.policy.RequiredRoleFor(totalCostAll)
	if err := draft.AssignApproverRole(role); err != nil {
		return "", err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return "", err
	}

	s.logger.Info("draft routed for approval",
		zap.String("draft_number", draft.DraftNumber),
		zap.String("required_role", role),
	)
	return role, nil
}

// NotifyApprover fans an in-app notification out to every user holding
// the approver role. Returns the number of users notified.
func (s *EngineService) NotifyApprover(ctx context.Context, role, message string, draftID uuid.UUID) (int, error) {
	if role == "" {
		return 0, shared.NewDomainError("VALIDATION", "Approver role is required")
	}
	if message == "" {
		return 0, shared.NewDomainError("VALIDATION", "Notification message is required")
	}

	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return 0, err
	}

	notified := 0
	for i := range users {
		notification, err := notify.NewNotification(users[i].ID, role, draftID, message)
		if err != nil {
			return notified, err
		}
		if err := s.alerts.Save(ctx, notification); err != nil {
			return notified, err
		}
		notified++
	}

	s.logger.Info("approvers notified",
		zap.String("role", role),
		zap.Int("notified_count", notified),
	)
	return notified, nil
}

// AuditEntry is the input for WriteAuditLog
type AuditEntry struct {
	DraftID              uuid.UUID
	ItemCodesAccessed    []string
	ItemsEvaluated       int
	ItemsIncluded        int
	ItemsDeferred        int
	TotalCostAll         decimal.Decimal
	TotalCostIncluded    decimal.Decimal
	RequiredApproverRole string
}

// WriteAuditLog persists the run's decision summary
func (s *EngineService) WriteAuditLog(ctx context.Context, entry AuditEntry) (uuid.UUID, error) {
	log, err := audit.NewAuditLog(entry.DraftID)
	if err != nil {
		return uuid.Nil, err
	}
	log.ItemCodesAccessed = entry.ItemCodesAccessed
	log.ItemsEvaluated = entry.ItemsEvaluated
	log.ItemsIncluded = entry.ItemsIncluded
	log.ItemsDeferred = entry.ItemsDeferred
	log.TotalCostAll = entry.TotalCostAll
	log.TotalCostIncluded = entry.TotalCostIncluded
	log.RequiredApproverRole = entry.RequiredApproverRole

	if err := s.audits.Save(ctx, log); err != nil {
		return uuid.Nil, err
	}
	return log.ID, nil
}

// Run executes the whole decision sequence in direct mode: scan, plan,
// draft, route, notify, audit. One logical run per trigger; runs do not
// deduplicate against each other, idempotency is the caller's concern.
func (s *EngineService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	if req.RequestedBy == "" {
		req.RequestedBy = "system"
	}

	items, err := s.GetLowStockItems(ctx, req.ItemCodes)
	if err != nil {
		return nil, err
	}

	plan, err := s.ComputeReorderPlan(items, req.BudgetCap)
	if err != nil {
		return nil, err
	}

	explanation := req.Explanation
	if explanation == "" {
		explanation = fmt.Sprintf(
			"Evaluated %d low-stock items; %d within budget cap %s (cost %s), %d deferred.",
			plan.Totals.ItemsEvaluated, plan.Totals.ItemsIncluded,
			plan.BudgetCap.String(), plan.Totals.TotalCostIncluded.String(),
			plan.Totals.ItemsDeferred)
	}

	draft, err := s.CreateDraftPurchaseRequest(ctx, plan, explanation, req.RequestedBy)
	if err != nil {
		return nil, err
	}

	role, err := s.RouteForApproval(ctx, draft.ID, plan.Totals.TotalCostAll)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Draft %s awaits your approval: %d items, total %s",
		draft.DraftNumber, draft.ItemsIncluded, draft.TotalCostIncluded.String())
	notified, err := s.NotifyApprover(ctx, role, message, draft.ID)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.ItemCode)
	}
	auditID, err := s.WriteAuditLog(ctx, AuditEntry{
		DraftID:              draft.ID,
		ItemCodesAccessed:    codes,
		ItemsEvaluated:       plan.Totals.ItemsEvaluated,
		ItemsIncluded:        plan.Totals.ItemsIncluded,
		ItemsDeferred:        plan.Totals.ItemsDeferred,
		TotalCostAll:         plan.Totals.TotalCostAll,
		TotalCostIncluded:    plan.Totals.TotalCostIncluded,
		RequiredApproverRole: role,
	})
	if err != nil {
		return nil, err
	}

	return &RunResult{
		DraftID:              draft.ID,
		DraftNumber:          draft.DraftNumber,
		RequiredApproverRole: role,
		NotifiedCount:        notified,
		AuditLogID:           auditID,
		Totals:               plan.Totals,
	}, nil
}
