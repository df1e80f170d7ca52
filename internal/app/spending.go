package app

import "stay_finder/internal/domain"

// leftoverSplit is how money left after the stay is suggested to be spent.
var leftoverSplit = []struct {
	category string
	percent  float64
}{
	{"Food", 30},
	{"Shopping", 25},
	{"Activities", 20},
	{"Spa", 15},
	{"Stay", 10},
}

// BreakdownLeftover splits budget minus the stay cost across spending categories.
// A stay costing more than the budget leaves nothing to split.
func BreakdownLeftover(budget, totalCost float64) domain.Spending {
	left := budget - totalCost
	if left < 0 {
		left = 0
	}
	out := domain.Spending{
		Budget:    budget,
		TotalCost: totalCost,
		Leftover:  left,
		Shares:    make([]domain.SpendingShare, 0, len(leftoverSplit)),
	}
	for _, s := range leftoverSplit {
		out.Shares = append(out.Shares, domain.SpendingShare{
			Category: s.category,
			Percent:  s.percent,
			Amount:   left * s.percent / 100,
		})
	}
	return out
}
