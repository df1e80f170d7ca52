package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"stay_finder/internal/app"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
)

// ---- fakes ----

type fakeCache struct {
	store map[string]any
	gets  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.gets++
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Recommendation:
		*d = v.(domain.Recommendation)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

type gap struct {
	venue string
	size  domain.PartySize
}

type fakeLog struct {
	gaps []gap
	recs []domain.Recommendation
}

func (f *fakeLog) LogGap(ctx context.Context, venue string, size domain.PartySize, reason string) error {
	f.gaps = append(f.gaps, gap{venue, size})
	return nil
}
func (f *fakeLog) LogRecommendation(ctx context.Context, r domain.Recommendation) error {
	f.recs = append(f.recs, r)
	return nil
}

// ---- fixtures ----

func newService(t *testing.T, c domain.Cache, audit domain.RecommendationLog) *app.RecommendService {
	t.Helper()
	cat, err := catalog.New([]domain.VenueEntry{
		{Name: "Castle", Location: "ROM", Prices: map[string]float64{"2 guests": 100}, Dates: []string{"October"}},
		{Name: "Keep", Location: "ROM", Prices: map[string]float64{"2 guests": 50}, Dates: []string{"June"}},
		{Name: "Raft", Location: "OCEAN", Prices: map[string]float64{"1 guest": 20}, Dates: []string{"July"}},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	acts, err := catalog.NewActivityIndex([]domain.ActivityRow{
		{Venue: "Raft", Offered: map[string]bool{"Swimming": true, "Dolphin Riding": true}},
		{Venue: "Castle", Offered: map[string]bool{"Potion Mixing": true, "Ballroom Dancing": true}},
	})
	if err != nil {
		t.Fatalf("activities: %v", err)
	}
	return app.NewRecommendService(cat, acts, c, 10*time.Minute, audit)
}

func pref(t *testing.T, in domain.PreferenceInput) domain.Preference {
	t.Helper()
	p, err := domain.NewPreference(in)
	if err != nil {
		t.Fatalf("NewPreference: %v", err)
	}
	return p
}

func scenario(t *testing.T) domain.Preference {
	return pref(t, domain.PreferenceInput{PartySize: 2, Nights: 2, Budget: 150, Location: "ROM", Date: "October"})
}

// ---- tests ----

func TestRecommend_CombinedScenario(t *testing.T) {
	audit := &fakeLog{}
	s := newService(t, nil, audit)

	rec, err := s.Recommend(context.Background(), scenario(t), domain.CriterionCombined)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !rec.Found || rec.Venue != "Castle" {
		t.Fatalf("expected Castle, got %+v", rec)
	}
	if !reflect.DeepEqual(rec.Matches.Location, []string{"Castle", "Keep"}) ||
		!reflect.DeepEqual(rec.Matches.Budget, []string{"Keep"}) ||
		!reflect.DeepEqual(rec.Matches.Date, []string{"Castle"}) {
		t.Fatalf("unexpected matches: %+v", rec.Matches)
	}
	// Raft has no 2-guest price: flagged, not over budget.
	if !reflect.DeepEqual(rec.Incomplete, []string{"Raft"}) {
		t.Fatalf("incomplete: %v", rec.Incomplete)
	}
	if len(audit.gaps) != 1 || audit.gaps[0] != (gap{"Raft", 2}) {
		t.Fatalf("gaps: %+v", audit.gaps)
	}
	if rec.Record == nil || rec.Record.Name != "Castle" {
		t.Fatalf("record: %+v", rec.Record)
	}
	if rec.TotalCost == nil || *rec.TotalCost != 200 {
		t.Fatalf("total cost: %v", rec.TotalCost)
	}
	if rec.Spending == nil || rec.Spending.Leftover != 0 {
		t.Fatalf("over-budget stay leaves nothing: %+v", rec.Spending)
	}
	want := []domain.Activity{domain.ActivityBallroomDancing, domain.ActivityPotionMixing}
	if !reflect.DeepEqual(rec.Activities, want) {
		t.Fatalf("activities: %v", rec.Activities)
	}
	if len(audit.recs) != 1 || audit.recs[0].ID == "" {
		t.Fatalf("recommendation not logged: %+v", audit.recs)
	}
}

func TestRecommend_SingleCriterionTakesFirst(t *testing.T) {
	s := newService(t, nil, nil)
	p := scenario(t)

	cases := map[domain.Criterion]string{
		domain.CriterionLocation: "Castle",
		domain.CriterionBudget:   "Keep",
		domain.CriterionDate:     "Castle",
	}
	for crit, want := range cases {
		rec, err := s.Recommend(context.Background(), p, crit)
		if err != nil {
			t.Fatalf("%s: %v", crit, err)
		}
		if !rec.Found || rec.Venue != want {
			t.Fatalf("%s: expected %s, got %+v", crit, want, rec)
		}
	}
}

func TestRecommend_BudgetSpending(t *testing.T) {
	s := newService(t, nil, nil)
	rec, err := s.Recommend(context.Background(), scenario(t), domain.CriterionBudget)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rec.TotalCost == nil || *rec.TotalCost != 100 {
		t.Fatalf("Keep costs 100 for two nights: %v", rec.TotalCost)
	}
	if rec.Spending == nil || rec.Spending.Leftover != 50 || rec.Spending.Shares[0].Amount != 15 {
		t.Fatalf("spending: %+v", rec.Spending)
	}
}

func TestRecommend_ActivityCriterion(t *testing.T) {
	s := newService(t, nil, nil)
	p := pref(t, domain.PreferenceInput{PartySize: 1, Nights: 3, Budget: 100, Location: "OCEAN", Date: "July", Activity: "Swimming"})

	rec, err := s.Recommend(context.Background(), p, domain.CriterionActivity)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !rec.Found || rec.Venue != "Raft" {
		t.Fatalf("expected Raft, got %+v", rec)
	}
	if rec.TotalCost == nil || *rec.TotalCost != 60 {
		t.Fatalf("cost computed from record: %v", rec.TotalCost)
	}
}

func TestRecommend_ActivityRequired(t *testing.T) {
	s := newService(t, nil, nil)
	_, err := s.Recommend(context.Background(), scenario(t), domain.CriterionActivity)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecommend_NoMatchIsAnOutcome(t *testing.T) {
	audit := &fakeLog{}
	s := newService(t, nil, audit)
	p := pref(t, domain.PreferenceInput{PartySize: 2, Nights: 1, Budget: 10, Location: "SVK", Date: "March"})

	for _, crit := range []domain.Criterion{domain.CriterionLocation, domain.CriterionBudget, domain.CriterionDate, domain.CriterionCombined} {
		rec, err := s.Recommend(context.Background(), p, crit)
		if err != nil {
			t.Fatalf("%s: empty result must not be an error: %v", crit, err)
		}
		if rec.Found || rec.Venue != "" || rec.Record != nil || rec.Spending != nil {
			t.Fatalf("%s: expected no match, got %+v", crit, rec)
		}
	}
	if len(audit.recs) != 4 {
		t.Fatalf("every outcome is logged, got %d", len(audit.recs))
	}
}

func TestRecommend_CacheMissThenHit(t *testing.T) {
	cache := &fakeCache{}
	s := newService(t, cache, nil)
	p := scenario(t)

	first, err := s.Recommend(context.Background(), p, domain.CriterionCombined)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cache.store) != 1 {
		t.Fatalf("expected one cached entry, got %d", len(cache.store))
	}

	second, err := s.Recommend(context.Background(), p, domain.CriterionCombined)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if second.Venue != first.Venue || second.ID == first.ID {
		t.Fatalf("cached answer should keep venue and get a fresh id: %+v vs %+v", first, second)
	}

	// different criterion, different key
	if _, err := s.Recommend(context.Background(), p, domain.CriterionDate); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(cache.store) != 2 {
		t.Fatalf("expected two cached entries, got %d", len(cache.store))
	}
}

func TestVenueAndMatches(t *testing.T) {
	s := newService(t, nil, nil)

	v, acts, err := s.Venue("Raft")
	if err != nil || v.Location != domain.LocationOCEAN || len(acts) != 2 {
		t.Fatalf("Raft: %+v %v %v", v, acts, err)
	}
	if _, _, err := s.Venue("Atlantis"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	m := s.Matches(app.MatchQuery{Location: domain.LocationROM, Activity: domain.ActivitySwimming})
	if !reflect.DeepEqual(m.Location, []string{"Castle", "Keep"}) || !reflect.DeepEqual(m.Activity, []string{"Raft"}) || m.Date != nil {
		t.Fatalf("matches: %+v", m)
	}
}

func TestRecommend_CacheHitReportsGaps(t *testing.T) {
	cache := &fakeCache{}
	audit := &fakeLog{}
	s := newService(t, cache, audit)
	p := scenario(t)

	for i := 0; i < 2; i++ {
		rec, err := s.Recommend(context.Background(), p, domain.CriterionCombined)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !reflect.DeepEqual(rec.Incomplete, []string{"Raft"}) {
			t.Fatalf("call %d: incomplete %v", i, rec.Incomplete)
		}
	}
	if cache.gets != 2 || len(cache.store) != 1 {
		t.Fatalf("second call should be a cache hit: gets=%d entries=%d", cache.gets, len(cache.store))
	}
	if len(audit.recs) != 2 || len(audit.gaps) != 2 {
		t.Fatalf("each answer logs its gaps: recs=%d gaps=%+v", len(audit.recs), audit.gaps)
	}
	if audit.gaps[1] != (gap{"Raft", 2}) {
		t.Fatalf("cached gap: %+v", audit.gaps[1])
	}
}
