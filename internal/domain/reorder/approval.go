package reorder

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AdminRole bypasses rank comparison in approval guards
const AdminRole = "admin"

// CostTier maps an upper cost bound to the role required to approve
// drafts up to that bound. A negative threshold marks the catch-all tier.
type CostTier struct {
	Threshold decimal.Decimal `json:"threshold"`
	Role      string          `json:"role"`
}

// RolePolicy holds the role-rank table and the cost-tier routing table as
// data. The observed configuration resolves every tier to a single role,
// but the mechanism supports arbitrary tiering. Tiers is kept in
// ascending threshold order with the catch-all last; build policies with
// NewRolePolicy, which establishes that order once.
type RolePolicy struct {
	Ranks map[string]int
	Tiers []CostTier
}

// NewRolePolicy builds a policy from its rank and tier tables, sorting
// the tiers into the order RequiredRoleFor relies on.
func NewRolePolicy(ranks map[string]int, tiers []CostTier) *RolePolicy {
	sorted := make([]CostTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		// Catch-all tiers sort last
		if sorted[i].Threshold.IsNegative() {
			return false
		}
		if sorted[j].Threshold.IsNegative() {
			return true
		}
		return sorted[i].Threshold.LessThan(sorted[j].Threshold)
	})
	return &RolePolicy{Ranks: ranks, Tiers: sorted}
}

// DefaultRolePolicy returns the stock configuration: a degenerate tier
// table where every cost tier routes to the purchase manager.
func DefaultRolePolicy() *RolePolicy {
	return NewRolePolicy(
		map[string]int{
			"staff":            1,
			"purchase_manager": 2,
			AdminRole:          3,
		},
		[]CostTier{
			{Threshold: decimal.NewFromInt(10000), Role: "purchase_manager"},
			{Threshold: decimal.NewFromInt(-1), Role: "purchase_manager"},
		},
	)
}

// RequiredRoleFor resolves the approver role for a plan's total cost by
// walking the tiers in ascending threshold order. The catch-all tier
// (negative threshold) matches any total.
func (p *RolePolicy) RequiredRoleFor(totalCost decimal.Decimal) string {
	for _, tier := range p.Tiers {
		if tier.Threshold.IsNegative() || totalCost.LessThanOrEqual(tier.Threshold) {
			return tier.Role
		}
	}
	if len(p.Tiers) > 0 {
		return p.Tiers[len(p.Tiers)-1].Role
	}
	return ""
}

// Allows reports whether actorRole may act on a draft requiring
// requiredRole. The admin role bypasses rank comparison; any role missing
// from the rank table is denied.
func (p *RolePolicy) Allows(actorRole, requiredRole string) bool {
	if actorRole == AdminRole {
		return true
	}
	actorRank, ok := p.Ranks[actorRole]
	if !ok {
		return false
	}
	requiredRank, ok := p.Ranks[requiredRole]
	if !ok {
		return false
	}
	return actorRank >= requiredRank
}
