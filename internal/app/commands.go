package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"stay_finder/internal/domain"
)

// RemoteSource turns a PlacesClient into a CatalogSource.
type RemoteSource struct {
	client domain.PlacesClient
}

func NewRemoteSource(c domain.PlacesClient) *RemoteSource {
	return &RemoteSource{client: c}
}

func (s *RemoteSource) LoadVenues(ctx context.Context) ([]domain.VenueEntry, error) {
	raw, err := s.client.GetPlaces(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: places endpoint: %w", domain.ErrSourceLoad, err)
		}
		return nil, err
	}
	entries, err := mapPlaces(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceLoad, err)
	}
	return entries, nil
}

// LoadActivities treats a missing activities endpoint as an empty table.
func (s *RemoteSource) LoadActivities(ctx context.Context) ([]domain.ActivityRow, error) {
	raw, err := s.client.GetActivities(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Msg("activities endpoint not found; no venue offers activities")
			return nil, nil
		}
		return nil, err
	}
	rows, err := mapActivityRows(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceLoad, err)
	}
	return rows, nil
}

// IngestionService copies a validated catalog into the venue repository.
type IngestionService struct {
	repo domain.VenueRepository
}

func NewIngestionService(r domain.VenueRepository) *IngestionService {
	return &IngestionService{repo: r}
}

// IngestVenue upserts one venue with its activities. Party-size buckets the
// venue does not price are recorded as data gaps; they never fail the venue.
func (s *IngestionService) IngestVenue(ctx context.Context, pos int, v domain.Venue, acts []domain.Activity) error {
	if err := s.repo.UpsertVenue(ctx, pos, v); err != nil {
		return fmt.Errorf("upsert venue %q: %w", v.Name, err)
	}
	if err := s.repo.ReplaceActivities(ctx, v.Name, acts); err != nil {
		return fmt.Errorf("replace activities for %q: %w", v.Name, err)
	}
	for size := domain.MinPartySize; size <= domain.MaxPartySize; size++ {
		if _, ok := v.Prices.Nightly(size); ok {
			continue
		}
		if err := s.repo.LogGap(ctx, v.Name, size, "missing price bucket"); err != nil {
			log.Warn().Err(err).Str("venue", v.Name).Msg("log gap failed")
		}
	}
	return nil
}
