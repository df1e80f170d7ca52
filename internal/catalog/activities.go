package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stay_finder/internal/domain"
)

// ActivityIndex maps a venue to the activities it offers.
type ActivityIndex struct {
	order  []string
	offers map[string]map[domain.Activity]struct{}
}

// NewActivityIndex builds the index from table rows. Unknown activity names and
// duplicate venue rows are source errors. Rows with every flag false are kept.
func NewActivityIndex(rows []domain.ActivityRow) (*ActivityIndex, error) {
	idx := &ActivityIndex{
		order:  make([]string, 0, len(rows)),
		offers: make(map[string]map[domain.Activity]struct{}, len(rows)),
	}
	var errs []error
	for i, r := range rows {
		venue := strings.TrimSpace(r.Venue)
		if venue == "" {
			errs = append(errs, fmt.Errorf("row %d: venue name is empty", i))
			continue
		}
		if _, dup := idx.offers[venue]; dup {
			errs = append(errs, fmt.Errorf("row %d: duplicate venue %q", i, venue))
			continue
		}
		set := make(map[domain.Activity]struct{}, len(r.Offered))
		for name, on := range r.Offered {
			a := domain.Activity(strings.TrimSpace(name))
			if !a.Valid() {
				errs = append(errs, fmt.Errorf("row %d: unknown activity %q", i, name))
				continue
			}
			if on {
				set[a] = struct{}{}
			}
		}
		idx.order = append(idx.order, venue)
		idx.offers[venue] = set
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceLoad, errors.Join(errs...))
	}
	return idx, nil
}

func LoadActivities(ctx context.Context, src domain.CatalogSource) (*ActivityIndex, error) {
	rows, err := src.LoadActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	return NewActivityIndex(rows)
}

// Offers reports membership; venues without a row offer nothing.
func (x *ActivityIndex) Offers(venue string, a domain.Activity) bool {
	_, ok := x.offers[venue][a]
	return ok
}

// Venues returns venue names in table row order.
func (x *ActivityIndex) Venues() []string {
	return append([]string(nil), x.order...)
}

// ActivitiesOf lists what venue offers, in vocabulary order.
func (x *ActivityIndex) ActivitiesOf(venue string) []domain.Activity {
	set := x.offers[venue]
	out := make([]domain.Activity, 0, len(set))
	for _, a := range domain.Activities {
		if _, ok := set[a]; ok {
			out = append(out, a)
		}
	}
	return out
}
