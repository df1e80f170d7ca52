// Package match implements the per-criterion venue filters and the selector
// that turns match lists into a single recommendation.
package match

import (
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
)

// ByLocation returns every venue located at code, in catalog order.
func ByLocation(c *catalog.Catalog, code domain.Location) []string {
	out := []string{}
	c.Each(func(v domain.Venue) {
		if v.Location == code {
			out = append(out, v.Name)
		}
	})
	return out
}

// BudgetResult is the outcome of one budget pass.
type BudgetResult struct {
	Matches []string
	// Incomplete holds venues with no price for the requested party size.
	Incomplete []string
	// Costs holds nightly price * nights for every venue that had a price.
	Costs map[string]float64
}

// CostOf returns the computed stay cost for venue, if it was priced.
func (r BudgetResult) CostOf(venue string) (float64, bool) {
	c, ok := r.Costs[venue]
	return c, ok
}

// StayCost is the nightly price for size times nights; ok is false when the
// venue has no price for that party size.
func StayCost(v domain.Venue, size domain.PartySize, nights int) (cost float64, ok bool) {
	nightly, ok := v.Prices.Nightly(size)
	if !ok {
		return 0, false
	}
	return nightly * float64(nights), true
}

// ByBudget keeps venues whose nightly price for size times nights fits the
// total budget (boundary inclusive).
func ByBudget(c *catalog.Catalog, size domain.PartySize, nights int, budget float64) BudgetResult {
	res := BudgetResult{
		Matches: []string{},
		Costs:   make(map[string]float64, c.Len()),
	}
	c.Each(func(v domain.Venue) {
		cost, ok := StayCost(v, size, nights)
		if !ok {
			res.Incomplete = append(res.Incomplete, v.Name)
			return
		}
		res.Costs[v.Name] = cost
		if cost <= budget {
			res.Matches = append(res.Matches, v.Name)
		}
	})
	return res
}

// ByDate returns venues available in month (exact match).
func ByDate(c *catalog.Catalog, month string) []string {
	out := []string{}
	c.Each(func(v domain.Venue) {
		if v.AvailableIn(month) {
			out = append(out, v.Name)
		}
	})
	return out
}

// ByActivity returns venues offering a, in activity-table order.
func ByActivity(idx *catalog.ActivityIndex, a domain.Activity) []string {
	out := []string{}
	for _, venue := range idx.Venues() {
		if idx.Offers(venue, a) {
			out = append(out, venue)
		}
	}
	return out
}
