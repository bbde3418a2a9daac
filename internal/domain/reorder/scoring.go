package reorder

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scoring weights are fixed by design, not configurable per run, so that
// historical drafts remain comparable.
const (
	weightDeficit  = 0.55
	weightPriority = 0.25
	weightLeadTime = 0.15
	weightStockout = 0.05

	// Lead times at or beyond this horizon saturate the lead-time term.
	leadTimeHorizonDays = 14

	priorityMin = 1
	priorityMax = 5
)

// ItemFlag is a qualitative tag carried into the persisted snapshot.
// Flags are informational only and never drive downstream control flow.
type ItemFlag string

const (
	FlagStockout     ItemFlag = "STOCKOUT"
	FlagBelowMin     ItemFlag = "BELOW_MIN"
	FlagHighPriority ItemFlag = "HIGH_PRIORITY"
	FlagLongLeadTime ItemFlag = "LONG_LEAD_TIME"
)

const (
	highPriorityThreshold = 4
	longLeadTimeDays      = 10
)

// LowStockItem is the scoring input: an item's identity, policy and its
// aggregated available quantity.
type LowStockItem struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ItemCode     string          `json:"item_code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Available    int64           `json:"available"`
	MinLevel     int64           `json:"min_level"`
	TargetLevel  int64           `json:"target_level"`
	Priority     int             `json:"priority"`
	LeadTimeDays int             `json:"lead_time_days"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	MaxOrderQty  int64           `json:"max_order_qty"`
}

// ScoredItem is a LowStockItem plus the computed urgency figures. It is
// constructed once per engine run and persisted as a snapshot inside the
// draft; it is never recomputed retroactively.
type ScoredItem struct {
	LowStockItem
	UrgencyScore        float64         `json:"urgency_score"`
	RecommendedOrderQty int64           `json:"recommended_order_qty"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	Flags               []ItemFlag      `json:"flags"`
}

// UrgencyScore computes the deterministic urgency score in [0,100],
// rounded to 2 decimals. Priority outside 1..5 is clamped into range.
func UrgencyScore(available, minLevel int64, priority, leadTimeDays int) float64 {
	deficit := minLevel - available
	if deficit < 0 {
		deficit = 0
	}
	denom := minLevel
	if denom < 1 {
		denom = 1
	}
	deficitRatio := math.Min(1, float64(deficit)/float64(denom))

	if priority < priorityMin {
		priority = priorityMin
	}
	if priority > priorityMax {
		priority = priorityMax
	}
	priorityNorm := float64(priority-priorityMin) / float64(priorityMax-priorityMin)

	lead := leadTimeDays
	if lead < 0 {
		lead = 0
	}
	leadNorm := math.Min(1, float64(lead)/float64(leadTimeHorizonDays))

	stockout := 0.0
	if available == 0 {
		stockout = 1.0
	}

	score := 100 * (weightDeficit*deficitRatio +
		weightPriority*priorityNorm +
		weightLeadTime*leadNorm +
		weightStockout*stockout)

	return math.Round(score*100) / 100
}

// RecommendedOrderQty returns the order quantity clamped to
// [0, maxOrderQty]. A healthy item (available >= target) yields exactly 0.
func RecommendedOrderQty(available, targetLevel, maxOrderQty int64) int64 {
	qty := targetLevel - available
	if qty < 0 {
		qty = 0
	}
	if maxOrderQty >= 0 && qty > maxOrderQty {
		qty = maxOrderQty
	}
	return qty
}

// DeriveFlags computes the qualitative tags for an item. Flag derivation
// is independent of the score.
func DeriveFlags(available, minLevel int64, priority, leadTimeDays int) []ItemFlag {
	flags := make([]ItemFlag, 0, 4)
	if available == 0 {
		flags = append(flags, FlagStockout)
	}
	if available <= minLevel {
		flags = append(flags, FlagBelowMin)
	}
	if priority >= highPriorityThreshold {
		flags = append(flags, FlagHighPriority)
	}
	if leadTimeDays >= longLeadTimeDays {
		flags = append(flags, FlagLongLeadTime)
	}
	return flags
}

// ScoreItem computes the full scored record for one input item
func ScoreItem(item LowStockItem) ScoredItem {
	qty := RecommendedOrderQty(item.Available, item.TargetLevel, item.MaxOrderQty)
	cost := item.UnitCost.Mul(decimal.NewFromInt(qty)).Round(2)
	return ScoredItem{
		LowStockItem:        item,
		UrgencyScore:        UrgencyScore(item.Available, item.MinLevel, item.Priority, item.LeadTimeDays),
		RecommendedOrderQty: qty,
		EstimatedCost:       cost,
		Flags:               DeriveFlags(item.Available, item.MinLevel, item.Priority, item.LeadTimeDays),
	}
}
