package domain

import "fmt"

// Criterion picks which filter(s) feed the selector.
type Criterion string

const (
	CriterionLocation Criterion = "location"
	CriterionBudget   Criterion = "budget"
	CriterionDate     Criterion = "date"
	CriterionActivity Criterion = "activity"
	CriterionCombined Criterion = "combined"
)

func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(s); c {
	case CriterionLocation, CriterionBudget, CriterionDate, CriterionActivity, CriterionCombined:
		return c, nil
	}
	return "", NewValidationError("criterion", fmt.Sprintf("unknown criterion %q", s))
}

// Matches carries the match list of every filter that ran for a request.
type Matches struct {
	Location []string `json:"location,omitempty"`
	Budget   []string `json:"budget,omitempty"`
	Date     []string `json:"date,omitempty"`
	Activity []string `json:"activity,omitempty"`
}

type SpendingShare struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
	Amount   float64 `json:"amount"`
}

type Spending struct {
	Budget    float64         `json:"budget"`
	TotalCost float64         `json:"total_cost"`
	Leftover  float64         `json:"leftover"`
	Shares    []SpendingShare `json:"shares"`
}

type Recommendation struct {
	ID         string     `json:"id"`
	Criterion  Criterion  `json:"criterion"`
	Found      bool       `json:"found"`
	Venue      string     `json:"venue,omitempty"`
	Record     *Venue     `json:"record,omitempty"`
	Activities []Activity `json:"activities,omitempty"`
	Matches    Matches    `json:"matches"`
	// Incomplete lists venues skipped by the budget filter for lacking a price
	// for the requested party size; they are not over budget.
	Incomplete []string  `json:"incomplete,omitempty"`
	TotalCost  *float64  `json:"total_cost,omitempty"`
	Spending   *Spending `json:"spending,omitempty"`
}
