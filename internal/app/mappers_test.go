package app

import (
	"reflect"
	"testing"
)

func TestMapPlace_AliasesAndShapes(t *testing.T) {
	e, err := mapPlace(map[string]any{
		"place_name": "Hotel Transylvania",
		"location":   map[string]any{"country": "rom"},
		"prices":     map[string]any{"1 guest": 80.0, "2_guests": "120,5", "3 guests": 150},
		"dates":      "October",
		"facilities": []any{"pool", map[string]any{"name": "crypt"}},
		"rating":     map[string]any{"value": "4.5"},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if e.Name != "Hotel Transylvania" || e.Location != "ROM" {
		t.Fatalf("identity: %+v", e)
	}
	wantPrices := map[string]float64{"1 guest": 80, "2_guests": 120.5, "3 guests": 150}
	if !reflect.DeepEqual(e.Prices, wantPrices) {
		t.Fatalf("prices: %v", e.Prices)
	}
	if !reflect.DeepEqual(e.Dates, []string{"October"}) {
		t.Fatalf("single-string dates: %v", e.Dates)
	}
	if !reflect.DeepEqual(e.Amenities, []string{"pool", "crypt"}) {
		t.Fatalf("amenities: %v", e.Amenities)
	}
	if e.Rating == nil || *e.Rating != 4.5 {
		t.Fatalf("rating: %v", e.Rating)
	}
}

func TestMapPlace_DateListAndFlatLocation(t *testing.T) {
	e, err := mapPlace(map[string]any{
		"name":            "Cruise Ship",
		"country":         "OCEAN",
		"available_dates": []any{"July", "August"},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if e.Location != "OCEAN" || !reflect.DeepEqual(e.Dates, []string{"July", "August"}) || e.Prices != nil {
		t.Fatalf("unexpected: %+v", e)
	}
}

func TestMapPlace_BadPrice(t *testing.T) {
	_, err := mapPlace(map[string]any{
		"place_name": "X",
		"prices":     map[string]any{"1 guest": "cheap"},
	})
	if err == nil {
		t.Fatalf("expected error for non-numeric price")
	}
}

func TestMapActivityRows(t *testing.T) {
	rows, err := mapActivityRows(map[string]map[string]any{
		"Raft":   {"Swimming": true, "Archery": "no"},
		"Castle": {"Potion Mixing": "Yes", "Swimming": 0.0},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rows) != 2 || rows[0].Venue != "Castle" || rows[1].Venue != "Raft" {
		t.Fatalf("rows should be sorted by venue: %+v", rows)
	}
	if !rows[0].Offered["Potion Mixing"] || rows[0].Offered["Swimming"] {
		t.Fatalf("Castle flags: %v", rows[0].Offered)
	}
	if !rows[1].Offered["Swimming"] || rows[1].Offered["Archery"] {
		t.Fatalf("Raft flags: %v", rows[1].Offered)
	}

	if _, err := mapActivityRows(map[string]map[string]any{"Raft": {"Swimming": "maybe"}}); err == nil {
		t.Fatalf("expected error for bad flag")
	}
}
