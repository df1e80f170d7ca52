package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stay_finder/internal/app"
	"stay_finder/internal/domain"
)

type Handlers struct{ S *app.RecommendService }

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

// recommendRequest is the POST body: a raw preference plus the criterion to rank by.
type recommendRequest struct {
	app.RawPreference
	Criterion string `json:"criterion"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/recommendations", h.recommend)
	s.mux.Get("/v1/venues", h.listMatches)
	s.mux.Get("/v1/venues/{name}", h.getVenue)
	s.mux.Get("/v1/activities", h.listActivities)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemFields(w, http.StatusBadRequest, "Invalid preference", ve.Error(), ve.Fields)
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid preference", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}

	crit := domain.CriterionCombined
	if c := strings.TrimSpace(req.Criterion); c != "" {
		var err error
		if crit, err = domain.ParseCriterion(strings.ToLower(c)); err != nil {
			writeError(w, err)
			return
		}
	}
	pref, err := app.BuildPreference(req.RawPreference)
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.S.Recommend(r.Context(), pref, crit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// listMatches runs the filters named by query parameters and returns their raw lists.
func (h *Handlers) listMatches(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	var q app.MatchQuery
	if v := qs.Get("location"); v != "" {
		loc, err := app.NormalizeLocation(v)
		if err != nil {
			writeError(w, err)
			return
		}
		q.Location = loc
	}
	if v := qs.Get("date"); v != "" {
		m, err := app.NormalizeMonth(v)
		if err != nil {
			writeError(w, err)
			return
		}
		q.Date = m
	}
	if v := qs.Get("activity"); v != "" {
		a, err := app.NormalizeActivity(v)
		if err != nil {
			writeError(w, err)
			return
		}
		q.Activity = a
	}
	if q == (app.MatchQuery{}) {
		writeProblem(w, http.StatusBadRequest, "Missing filter", "one of location, date or activity is required")
		return
	}
	writeJSON(w, http.StatusOK, h.S.Matches(q))
}

type venueView struct {
	domain.Venue
	Activities []domain.Activity `json:"activities"`
}

func (h *Handlers) getVenue(w http.ResponseWriter, r *http.Request) {
	v, acts, err := h.S.Venue(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if acts == nil {
		acts = []domain.Activity{}
	}

	etag, body := calcETagAndBody(venueView{Venue: v, Activities: acts})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getVenue body")
	}
}

type activityItem struct {
	Index int             `json:"index"`
	Name  domain.Activity `json:"name"`
}

func (h *Handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	out := make([]activityItem, len(domain.Activities))
	for i, a := range domain.Activities {
		out[i] = activityItem{Index: i + 1, Name: a}
	}
	writeJSON(w, http.StatusOK, out)
}
