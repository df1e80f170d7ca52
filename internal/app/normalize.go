package app

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"stay_finder/internal/domain"
)

// RawPreference is traveler input as collected by a prompt, form or request body.
type RawPreference struct {
	Name          string  `json:"name"`
	PartySize     int     `json:"party_size"`
	Nights        int     `json:"nights"`
	Budget        float64 `json:"budget"`
	Location      string  `json:"location"`
	Date          string  `json:"date"`
	Activity      string  `json:"activity,omitempty"`
	ActivityIndex *int    `json:"activity_index,omitempty"` // 1-based menu choice
}

// BuildPreference normalizes free-form fields and validates the result.
func BuildPreference(raw RawPreference) (domain.Preference, error) {
	loc, err := NormalizeLocation(raw.Location)
	if err != nil {
		return domain.Preference{}, err
	}
	month, err := NormalizeMonth(raw.Date)
	if err != nil {
		return domain.Preference{}, err
	}
	var act domain.Activity
	switch {
	case raw.ActivityIndex != nil:
		if act, err = domain.ActivityFromMenu(*raw.ActivityIndex); err != nil {
			return domain.Preference{}, err
		}
	case strings.TrimSpace(raw.Activity) != "":
		if act, err = NormalizeActivity(raw.Activity); err != nil {
			return domain.Preference{}, err
		}
	}
	return domain.NewPreference(domain.PreferenceInput{
		Name:      strings.TrimSpace(raw.Name),
		PartySize: raw.PartySize,
		Nights:    raw.Nights,
		Budget:    raw.Budget,
		Location:  string(loc),
		Date:      month,
		Activity:  string(act),
	})
}

func NormalizeLocation(raw string) (domain.Location, error) {
	l := domain.Location(strings.ToUpper(strings.TrimSpace(raw)))
	if !l.Valid() {
		return "", domain.NewValidationError("location", fmt.Sprintf("unknown location code %q", raw))
	}
	return l, nil
}

// NormalizeMonth maps "october", "Oct" or "sept" onto a full month name.
// Abbreviations must resolve to a single closest month.
func NormalizeMonth(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewValidationError("date", "is required")
	}
	for _, m := range domain.Months {
		if strings.EqualFold(s, m) {
			return m, nil
		}
	}
	month, ok := closest(s, domain.Months)
	if !ok {
		return "", domain.NewValidationError("date", fmt.Sprintf("unknown month %q", raw))
	}
	return month, nil
}

func NormalizeActivity(raw string) (domain.Activity, error) {
	s := strings.TrimSpace(raw)
	names := make([]string, len(domain.Activities))
	for i, a := range domain.Activities {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
		names[i] = string(a)
	}
	name, ok := closest(s, names)
	if !ok {
		return "", domain.NewValidationError("activity", fmt.Sprintf("unknown activity %q", raw))
	}
	return domain.Activity(name), nil
}

// minFuzzyRunes is the shortest input accepted as an abbreviation.
const minFuzzyRunes = 3

// closest returns the single target that s abbreviates. Fuzzy hits only count
// when s is a case-insensitive prefix of the target and at least
// minFuzzyRunes long, so scattered letters like "ber" never pick a month.
func closest(s string, targets []string) (string, bool) {
	if utf8.RuneCountInString(s) < minFuzzyRunes {
		return "", false
	}
	ranks := fuzzy.RankFindNormalizedFold(s, targets)
	sort.Sort(ranks)
	var hits []string
	for _, r := range ranks {
		if len(r.Target) >= len(s) && strings.EqualFold(r.Target[:len(s)], s) {
			hits = append(hits, r.Target)
		}
	}
	if len(hits) != 1 {
		return "", false
	}
	return hits[0], true
}
