package reorder

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PlanTotals summarizes a reorder plan. Each total is rounded to 2
// decimals independently to avoid cross-total rounding drift visible to
// approvers.
type PlanTotals struct {
	TotalCostAll      decimal.Decimal `json:"total_cost_all"`
	TotalCostIncluded decimal.Decimal `json:"total_cost_included"`
	ItemsEvaluated    int             `json:"items_evaluated"`
	ItemsIncluded     int             `json:"items_included"`
	ItemsDeferred     int             `json:"items_deferred"`
}

// ReorderPlan partitions scored items into within-budget and deferred
// sets. It is transient; it exists only to be handed to draft creation.
type ReorderPlan struct {
	BudgetCap         decimal.Decimal `json:"budget_cap"`
	Totals            PlanTotals      `json:"totals"`
	WithinBudgetItems []ScoredItem    `json:"within_budget_items"`
	DeferredItems     []ScoredItem    `json:"deferred_items"`
}

// BuildPlan scores every input item and greedily allocates the budget by
// descending urgency, first-fit by budget remainder. The walk never stops
// early: a later, cheaper item can still fit after a costlier one was
// deferred. This is not a knapsack optimum; the requirement is
// reproducibility and auditability of the exact decision order.
//
// Ties on urgency score break by item code ascending so allocation output
// is reproducible across runs.
func BuildPlan(items []LowStockItem, budgetCap decimal.Decimal) ReorderPlan {
	scored := make([]ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, ScoreItem(item))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].UrgencyScore != scored[j].UrgencyScore {
			return scored[i].UrgencyScore > scored[j].UrgencyScore
		}
		return scored[i].ItemCode < scored[j].ItemCode
	})

	plan := ReorderPlan{
		BudgetCap:         budgetCap,
		WithinBudgetItems: make([]ScoredItem, 0, len(scored)),
		DeferredItems:     make([]ScoredItem, 0),
	}

	totalAll := decimal.Zero
	totalIncluded := decimal.Zero
	cumulative := decimal.Zero

	for _, item := range scored {
		totalAll = totalAll.Add(item.EstimatedCost)
		if cumulative.Add(item.EstimatedCost).LessThanOrEqual(budgetCap) {
			cumulative = cumulative.Add(item.EstimatedCost)
			totalIncluded = totalIncluded.Add(item.EstimatedCost)
			plan.WithinBudgetItems = append(plan.WithinBudgetItems, item)
		} else {
			plan.DeferredItems = append(plan.DeferredItems, item)
		}
	}

	plan.Totals = PlanTotals{
		TotalCostAll:      totalAll.Round(2),
		TotalCostIncluded: totalIncluded.Round(2),
		ItemsEvaluated:    len(scored),
		ItemsIncluded:     len(plan.WithinBudgetItems),
		ItemsDeferred:     len(plan.DeferredItems),
	}

	return plan
}
