package domain

import "context"

// CatalogSource hands already-parsed catalog data to the core.
type CatalogSource interface {
	LoadVenues(ctx context.Context) ([]VenueEntry, error)
	LoadActivities(ctx context.Context) ([]ActivityRow, error)
}

type VenueRepository interface {
	CatalogSource

	// Write paths. pos is the venue's index in the source catalog; reads
	// return venues ordered by it.
	UpsertVenue(ctx context.Context, pos int, v Venue) error
	ReplaceActivities(ctx context.Context, venue string, acts []Activity) error

	RecommendationLog
}

// RecommendationLog records per-request outcomes and data gaps.
type RecommendationLog interface {
	LogGap(ctx context.Context, venue string, size PartySize, reason string) error
	LogRecommendation(ctx context.Context, r Recommendation) error
}

// PlacesClient fetches raw catalog payloads from a remote content API.
type PlacesClient interface {
	GetPlaces(ctx context.Context) ([]map[string]any, error)
	GetActivities(ctx context.Context) (map[string]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
