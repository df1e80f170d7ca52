package catalogapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stay_finder/internal/adapters/catalogapi"
	"stay_finder/internal/domain"
)

func TestClient_GetPlaces_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"places": []map[string]any{{"place_name": "Castle"}},
			})
		}
	}))
	defer ts.Close()

	cl, err := catalogapi.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.GetPlaces(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0]["place_name"] != "Castle" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetPlaces_BareArrayOnLegacyPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/venues", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"place_name": "Keep"}, {"place_name": "Raft"}})
	})
	ts := httptest.NewServer(mux) // /places is a 404, so the client falls back
	defer ts.Close()

	cl, _ := catalogapi.New(ts.URL, "", 100)
	got, err := cl.GetPlaces(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[1]["place_name"] != "Raft" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_GetActivities(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activities" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]map[string]any{"Raft": {"Swimming": true}})
	}))
	defer ts.Close()

	cl, _ := catalogapi.New(ts.URL+"/", "", 100)
	got, err := cl.GetActivities(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["Raft"]["Swimming"] != true {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestClient_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := catalogapi.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.GetPlaces(ctx)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := catalogapi.New("", "k", 1); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
