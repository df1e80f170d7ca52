package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"stay_finder/internal/adapters/observability"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
	"stay_finder/internal/match"
)

// RecommendService answers traveler requests against a read-only catalog.
// It holds no per-request state and is safe for concurrent use.
type RecommendService struct {
	cat      *catalog.Catalog
	acts     *catalog.ActivityIndex
	cache    domain.Cache
	cacheTTL time.Duration
	audit    domain.RecommendationLog
}

// NewRecommendService wires the service. cache and audit may be nil.
func NewRecommendService(cat *catalog.Catalog, acts *catalog.ActivityIndex, c domain.Cache, ttl time.Duration, audit domain.RecommendationLog) *RecommendService {
	return &RecommendService{cat: cat, acts: acts, cache: c, cacheTTL: ttl, audit: audit}
}

// Recommend runs the filters selected by crit and picks one venue.
// An empty result is reported through Found=false, not an error.
func (s *RecommendService) Recommend(ctx context.Context, pref domain.Preference, crit domain.Criterion) (domain.Recommendation, error) {
	if crit == domain.CriterionActivity && !pref.HasActivity() {
		return domain.Recommendation{}, domain.NewValidationError("activity", "required when filtering by activity")
	}

	key := cacheKey(pref, crit)
	var rec domain.Recommendation
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rec); ok {
			rec.ID = uuid.NewString()
			// gaps are counted per answer, cached or not
			s.reportGaps(ctx, pref.PartySize(), rec.Incomplete)
			s.record(ctx, rec)
			return rec, nil
		}
	}

	rec, err := s.evaluate(ctx, pref, crit)
	if err != nil {
		return domain.Recommendation{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rec, int(s.cacheTTL.Seconds()))
	}
	s.record(ctx, rec)
	return rec, nil
}

func (s *RecommendService) evaluate(ctx context.Context, pref domain.Preference, crit domain.Criterion) (domain.Recommendation, error) {
	rec := domain.Recommendation{ID: uuid.NewString(), Criterion: crit}

	var (
		name   string
		err    error
		budget *match.BudgetResult
	)
	runBudget := func() []string {
		br := match.ByBudget(s.cat, pref.PartySize(), pref.Nights(), pref.Budget())
		budget = &br
		rec.Incomplete = br.Incomplete
		s.reportGaps(ctx, pref.PartySize(), br.Incomplete)
		return br.Matches
	}

	switch crit {
	case domain.CriterionLocation:
		rec.Matches.Location = match.ByLocation(s.cat, pref.Location())
		name, err = match.SelectFirst(rec.Matches.Location)
	case domain.CriterionBudget:
		rec.Matches.Budget = runBudget()
		name, err = match.SelectFirst(rec.Matches.Budget)
	case domain.CriterionDate:
		rec.Matches.Date = match.ByDate(s.cat, pref.Date())
		name, err = match.SelectFirst(rec.Matches.Date)
	case domain.CriterionActivity:
		rec.Matches.Activity = match.ByActivity(s.acts, pref.Activity())
		name, err = match.SelectFirst(rec.Matches.Activity)
	case domain.CriterionCombined:
		rec.Matches.Location = match.ByLocation(s.cat, pref.Location())
		rec.Matches.Budget = runBudget()
		rec.Matches.Date = match.ByDate(s.cat, pref.Date())
		name, err = match.SelectBest(rec.Matches.Location, rec.Matches.Budget, rec.Matches.Date)
	default:
		return domain.Recommendation{}, domain.NewValidationError("criterion", fmt.Sprintf("unknown criterion %q", crit))
	}

	if errors.Is(err, domain.ErrNoMatch) {
		log.Info().Str("criterion", string(crit)).Msg("no venue matched")
		return rec, nil
	}
	if err != nil {
		return domain.Recommendation{}, err
	}

	rec.Found = true
	rec.Venue = name
	rec.Activities = s.acts.ActivitiesOf(name)
	v, ok := s.cat.Get(name)
	if !ok {
		// activity table may name venues the catalog does not carry
		return rec, nil
	}
	rec.Record = &v

	var cost float64
	if budget != nil {
		cost, ok = budget.CostOf(name)
	} else {
		cost, ok = match.StayCost(v, pref.PartySize(), pref.Nights())
	}
	if ok {
		rec.TotalCost = &cost
		sp := BreakdownLeftover(pref.Budget(), cost)
		rec.Spending = &sp
	}
	return rec, nil
}

func (s *RecommendService) reportGaps(ctx context.Context, size domain.PartySize, venues []string) {
	for _, v := range venues {
		log.Warn().Str("venue", v).Str("bucket", size.BucketKey()).Msg("venue has no price for party size")
		observability.ObserveDataGap(int(size))
		if s.audit != nil {
			if err := s.audit.LogGap(ctx, v, size, "missing price bucket"); err != nil {
				log.Error().Err(err).Str("venue", v).Msg("log price gap failed")
			}
		}
	}
}

func (s *RecommendService) record(ctx context.Context, rec domain.Recommendation) {
	observability.ObserveRecommendation(string(rec.Criterion), rec.Found)
	if s.audit == nil {
		return
	}
	if err := s.audit.LogRecommendation(ctx, rec); err != nil {
		log.Error().Err(err).Str("id", rec.ID).Msg("log recommendation failed")
	}
}

// Venue resolves one catalog record and its activities.
func (s *RecommendService) Venue(name string) (domain.Venue, []domain.Activity, error) {
	v, ok := s.cat.Get(name)
	if !ok {
		return domain.Venue{}, nil, fmt.Errorf("venue %q: %w", name, domain.ErrNotFound)
	}
	return v, s.acts.ActivitiesOf(name), nil
}

// MatchQuery selects which filters Matches runs; zero fields are skipped.
type MatchQuery struct {
	Location domain.Location
	Date     string
	Activity domain.Activity
}

// Matches runs each requested filter independently and returns the raw lists.
func (s *RecommendService) Matches(q MatchQuery) domain.Matches {
	var m domain.Matches
	if q.Location != "" {
		m.Location = match.ByLocation(s.cat, q.Location)
	}
	if q.Date != "" {
		m.Date = match.ByDate(s.cat, q.Date)
	}
	if q.Activity != "" {
		m.Activity = match.ByActivity(s.acts, q.Activity)
	}
	return m
}

func cacheKey(pref domain.Preference, crit domain.Criterion) string {
	in := pref.Input()
	sig := fmt.Sprintf("%d|%d|%g|%s|%s|%s|%s", in.PartySize, in.Nights, in.Budget, in.Location, in.Date, in.Activity, crit)
	sum := sha1.Sum([]byte(sig))
	return "rec:" + hex.EncodeToString(sum[:])
}
