// Package catalog holds the read-only venue catalog and activity index.
// Both are built once from loader output and never mutated afterwards, so they
// are safe for concurrent readers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stay_finder/internal/domain"
)

type Catalog struct {
	venues []domain.Venue
	byName map[string]int
}

// New validates entries and builds a Catalog. Any malformed entry aborts
// construction; no partial catalog is ever returned.
func New(entries []domain.VenueEntry) (*Catalog, error) {
	c := &Catalog{
		venues: make([]domain.Venue, 0, len(entries)),
		byName: make(map[string]int, len(entries)),
	}
	var errs []error
	for i, e := range entries {
		v, err := buildVenue(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if _, dup := c.byName[v.Name]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate venue %q", i, v.Name))
			continue
		}
		c.byName[v.Name] = len(c.venues)
		c.venues = append(c.venues, v)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceLoad, errors.Join(errs...))
	}
	return c, nil
}

// Load pulls venues from src and builds the Catalog.
func Load(ctx context.Context, src domain.CatalogSource) (*Catalog, error) {
	entries, err := src.LoadVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("load venues: %w", err)
	}
	return New(entries)
}

func buildVenue(e domain.VenueEntry) (domain.Venue, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.Venue{}, errors.New("venue name is empty")
	}
	loc := domain.Location(strings.TrimSpace(e.Location))
	if !loc.Valid() {
		return domain.Venue{}, fmt.Errorf("venue %q: unknown location %q", name, e.Location)
	}
	prices := make(domain.PriceSchedule, len(e.Prices))
	for key, price := range e.Prices {
		size, err := domain.ParseBucketKey(key)
		if err != nil {
			return domain.Venue{}, fmt.Errorf("venue %q: %w", name, err)
		}
		if price < 0 {
			return domain.Venue{}, fmt.Errorf("venue %q: negative price for %q", name, key)
		}
		if _, dup := prices[size]; dup {
			return domain.Venue{}, fmt.Errorf("venue %q: bucket %q given twice", name, size.BucketKey())
		}
		prices[size] = price
	}
	dates := make([]string, 0, len(e.Dates))
	for _, d := range e.Dates {
		if d = strings.TrimSpace(d); d != "" {
			dates = append(dates, d)
		}
	}
	return domain.Venue{
		Name:      name,
		Location:  loc,
		Prices:    prices,
		Dates:     dates,
		Amenities: append([]string(nil), e.Amenities...),
		Rating:    e.Rating,
	}, nil
}

func (c *Catalog) Len() int { return len(c.venues) }

// Venues returns a copy of the records in catalog order.
func (c *Catalog) Venues() []domain.Venue {
	out := make([]domain.Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

// Each visits venues in catalog order. The callback must not retain or modify
// the price map.
func (c *Catalog) Each(fn func(v domain.Venue)) {
	for _, v := range c.venues {
		fn(v)
	}
}

func (c *Catalog) Get(name string) (domain.Venue, bool) {
	i, ok := c.byName[name]
	if !ok {
		return domain.Venue{}, false
	}
	return c.venues[i], true
}
