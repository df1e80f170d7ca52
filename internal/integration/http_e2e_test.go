//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	httpserver "stay_finder/internal/adapters/http_server"
	redisad "stay_finder/internal/adapters/redis"
	"stay_finder/internal/app"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
	mysqlrepo "stay_finder/internal/storage/mysql"
	"stay_finder/internal/storage/mysql/mysqltest"
)

// ---------- the test ----------
func TestHTTP_EndToEnd_Recommendation(t *testing.T) {
	db := mysqltest.Start(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Ingest a small catalog the way cmd/ingestor does
	src, err := catalog.New([]domain.VenueEntry{
		{Name: "Castle", Location: "ROM", Prices: map[string]float64{"2 guests": 100}, Dates: []string{"October"}},
		{Name: "Keep", Location: "ROM", Prices: map[string]float64{"2 guests": 50}, Dates: []string{"June"}},
		{Name: "Raft", Location: "OCEAN", Prices: map[string]float64{"1 guest": 20}, Dates: []string{"July"}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	ing := app.NewIngestionService(repo)
	for pos, v := range src.Venues() {
		var acts []domain.Activity
		if v.Name == "Castle" {
			acts = []domain.Activity{domain.ActivityPotionMixing}
		}
		if err := ing.IngestVenue(ctx, pos, v, acts); err != nil {
			t.Fatalf("IngestVenue %s: %v", v.Name, err)
		}
	}

	// Serve from the stored catalog, with cache and audit log wired like cmd/api
	cat, err := catalog.Load(ctx, repo)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	idx, err := catalog.LoadActivities(ctx, repo)
	if err != nil {
		t.Fatalf("catalog.LoadActivities: %v", err)
	}
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{S: app.NewRecommendService(cat, idx, cache, time.Minute, repo)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Hit the endpoint twice; the second answer comes from redis
	body := `{"name":"Mavis","party_size":2,"nights":2,"budget":150,"location":"ROM","date":"October"}`
	var ids []string
	for i := 0; i < 2; i++ {
		res, err := http.Post(ts.URL+"/v1/recommendations", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			t.Fatalf("status %d", res.StatusCode)
		}
		var rec domain.Recommendation
		err = json.NewDecoder(res.Body).Decode(&rec)
		res.Body.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !rec.Found || rec.Venue != "Castle" || len(rec.Activities) != 1 {
			t.Fatalf("unexpected recommendation: %+v", rec)
		}
		ids = append(ids, rec.ID)
	}
	if ids[0] == ids[1] {
		t.Fatalf("every answer gets its own id: %v", ids)
	}

	var logged, gaps int
	if err := db.QueryRow(`SELECT COUNT(*) FROM recommendations WHERE venue_name = 'Castle'`).Scan(&logged); err != nil {
		t.Fatalf("count recommendations: %v", err)
	}
	if logged != 2 {
		t.Fatalf("expected 2 logged recommendations, got %d", logged)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM data_gaps`).Scan(&gaps); err != nil {
		t.Fatalf("count gaps: %v", err)
	}
	// Castle and Keep lack 1 and 3 guests, Raft lacks 2 and 3.
	if gaps != 6 {
		t.Fatalf("expected 6 gap rows, got %d", gaps)
	}
}
