package app

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stay_finder/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"name":     {"place_name", "name", "hotel_name", "title"},
	"location": {"location.country", "location.code", "country", "location_code", "location"},
}

var priceKeys = []string{"prices", "price_schedule", "rates"}
var dateKeys = []string{"dates", "available_dates", "months"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// floatFlexible: number from float64/int/string like "8,0".
func floatFlexible(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// getFloatFlexible: number from several paths.
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		if f, ok := floatFlexible(lookupAny(m, k)); ok {
			return &f
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {name/label}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if n, ok := t["name"].(string); ok && n != "" {
					out = append(out, n)
					continue
				}
				if n, ok := t["label"].(string); ok && n != "" {
					out = append(out, n)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// parseFlag reads an activity-table cell: bools, yes/no, 1/0.
func parseFlag(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case int:
		return t != 0, nil
	case nil:
		return false, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "x":
			return true, nil
		case "false", "no", "n", "0", "":
			return false, nil
		}
	}
	return false, fmt.Errorf("not a flag: %v", v)
}

/********** place mapper **********/

func mapPlace(p map[string]any) (domain.VenueEntry, error) {
	e := domain.VenueEntry{
		Name:      firstNonEmptyAlias(p, placeAliases, "name"),
		Location:  strings.ToUpper(firstNonEmptyAlias(p, placeAliases, "location")),
		Amenities: firstSliceStrings(p, "amenities", "facilities"),
		Rating:    getFloatFlexible(p, "rating", "rating.value", "score"),
	}

	for _, k := range priceKeys {
		raw, ok := lookupAny(p, k).(map[string]any)
		if !ok {
			continue
		}
		e.Prices = make(map[string]float64, len(raw))
		for bucket, v := range raw {
			f, ok := floatFlexible(v)
			if !ok {
				return domain.VenueEntry{}, fmt.Errorf("place %q: price %q is not a number", e.Name, bucket)
			}
			e.Prices[bucket] = f
		}
		break
	}

	for _, k := range dateKeys {
		switch t := lookupAny(p, k).(type) {
		case string:
			e.Dates = []string{t}
		case []any:
			e.Dates = firstSliceStrings(p, k)
		default:
			continue
		}
		break
	}
	return e, nil
}

func mapPlaces(in []map[string]any) ([]domain.VenueEntry, error) {
	out := make([]domain.VenueEntry, 0, len(in))
	for i, p := range in {
		e, err := mapPlace(p)
		if err != nil {
			return nil, fmt.Errorf("place %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

/********** activity mapper **********/

// mapActivityRows flattens {"venue": {"Archery": true}} payloads. Venues come
// out sorted by name because the payload is an unordered object.
func mapActivityRows(in map[string]map[string]any) ([]domain.ActivityRow, error) {
	names := make([]string, 0, len(in))
	for n := range in {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]domain.ActivityRow, 0, len(in))
	for _, n := range names {
		row := domain.ActivityRow{Venue: n, Offered: make(map[string]bool, len(in[n]))}
		for act, v := range in[n] {
			on, err := parseFlag(v)
			if err != nil {
				return nil, fmt.Errorf("venue %q activity %q: %w", n, act, err)
			}
			row.Offered[act] = on
		}
		out = append(out, row)
	}
	return out, nil
}
