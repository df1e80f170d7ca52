package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Location string

const (
	LocationROM   Location = "ROM"
	LocationSVK   Location = "SVK"
	LocationUSA   Location = "USA"
	LocationOCEAN Location = "OCEAN"
)

// Locations lists the recognized location codes in menu order.
var Locations = []Location{LocationROM, LocationSVK, LocationUSA, LocationOCEAN}

func (l Location) Valid() bool {
	for _, k := range Locations {
		if l == k {
			return true
		}
	}
	return false
}

// PartySize is the number of guests sharing a stay. Only 1..3 are priced.
type PartySize int

const (
	MinPartySize PartySize = 1
	MaxPartySize PartySize = 3
)

func (p PartySize) Valid() bool { return p >= MinPartySize && p <= MaxPartySize }

// BucketKey renders the price-schedule key used by catalog sources ("1 guest", "2 guests").
func (p PartySize) BucketKey() string {
	if p == 1 {
		return "1 guest"
	}
	return fmt.Sprintf("%d guests", int(p))
}

// ParseBucketKey accepts "2 guests", "1 guest" and the underscore form "2_guests".
func ParseBucketKey(key string) (PartySize, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, "_", " "))
	num, unit, ok := strings.Cut(k, " ")
	if !ok {
		return 0, fmt.Errorf("bucket key %q: missing unit", key)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("bucket key %q: %w", key, err)
	}
	p := PartySize(n)
	if !p.Valid() {
		return 0, fmt.Errorf("bucket key %q: party size out of range", key)
	}
	want := "guests"
	if p == 1 {
		want = "guest"
	}
	if strings.ToLower(strings.TrimSpace(unit)) != want {
		return 0, fmt.Errorf("bucket key %q: expected %q", key, p.BucketKey())
	}
	return p, nil
}

// PriceSchedule maps a party size to a nightly price.
type PriceSchedule map[PartySize]float64

// Nightly reports the nightly price for p; ok is false when the bucket is absent.
func (s PriceSchedule) Nightly(p PartySize) (price float64, ok bool) {
	price, ok = s[p]
	return price, ok
}

// MarshalJSON renders buckets as "1 guest"/"2 guests" keys.
func (s PriceSchedule) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(s))
	for k, v := range s {
		m[k.BucketKey()] = v
	}
	return json.Marshal(m)
}

func (s *PriceSchedule) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	out := make(PriceSchedule, len(m))
	for k, v := range m {
		p, err := ParseBucketKey(k)
		if err != nil {
			return err
		}
		out[p] = v
	}
	*s = out
	return nil
}

type Venue struct {
	Name      string        `json:"name"`
	Location  Location      `json:"location"`
	Prices    PriceSchedule `json:"prices"`
	Dates     []string      `json:"dates"`
	Amenities []string      `json:"amenities,omitempty"`
	Rating    *float64      `json:"rating,omitempty"`
}

// AvailableIn reports whether month is one of the venue's dates (exact, case-sensitive).
func (v Venue) AvailableIn(month string) bool {
	for _, d := range v.Dates {
		if d == month {
			return true
		}
	}
	return false
}

// VenueEntry is what a catalog loader hands over before validation.
// Prices keep their source bucket keys; Dates is already flattened from string|[]string.
type VenueEntry struct {
	Name      string
	Location  string
	Prices    map[string]float64
	Dates     []string
	Amenities []string
	Rating    *float64
}
