package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"stay_finder/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// Repo is the MySQL venue store. It implements domain.VenueRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertVenue replaces the venue row together with its prices and dates.
func (r *Repo) UpsertVenue(ctx context.Context, pos int, v domain.Venue) error {
	var amen []byte
	if len(v.Amenities) > 0 {
		var err error
		if amen, err = json.Marshal(v.Amenities); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, upsertVenueSQL,
		v.Name, pos, string(v.Location), valJSON(amen), valF64(v.Rating),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deletePricesSQL, v.Name); err != nil {
		return err
	}
	for size, price := range v.Prices {
		if _, err := tx.ExecContext(ctx, insertPriceSQL, v.Name, int(size), price); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, deleteDatesSQL, v.Name); err != nil {
		return err
	}
	for i, m := range v.Dates {
		if _, err := tx.ExecContext(ctx, insertDateSQL, v.Name, i, m); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) ReplaceActivities(ctx context.Context, venue string, acts []domain.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteActivitiesSQL, venue); err != nil {
		return err
	}
	if len(acts) > 0 {
		values := make([]string, 0, len(acts))
		args := make([]any, 0, len(acts)*2)
		for _, a := range acts {
			values = append(values, "(?,?)")
			args = append(args, venue, string(a))
		}
		if _, err := tx.ExecContext(ctx, insertActivityPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) LogGap(ctx context.Context, venue string, size domain.PartySize, reason string) error {
	_, err := r.db.ExecContext(ctx, insertGapSQL, venue, int(size), reason)
	return err
}

func (r *Repo) LogRecommendation(ctx context.Context, rec domain.Recommendation) error {
	matches, err := json.Marshal(rec.Matches)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertRecommendationSQL,
		rec.ID,
		string(rec.Criterion),
		rec.Found,
		valStr(rec.Venue),
		valF64(rec.TotalCost),
		string(matches),
	)
	return err
}

// LoadVenues reads the stored catalog back in ingestion order. Prices come
// out under their bucket keys so catalog.New validates them like any source.
func (r *Repo) LoadVenues(ctx context.Context) ([]domain.VenueEntry, error) {
	rows, err := r.db.QueryContext(ctx, listVenuesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: list venues: %w", domain.ErrSourceLoad, err)
	}
	defer rows.Close()

	var out []domain.VenueEntry
	idx := map[string]int{}
	for rows.Next() {
		var (
			e         domain.VenueEntry
			amenities sql.RawBytes
			rating    sql.NullFloat64
		)
		if err := rows.Scan(&e.Name, &e.Location, &amenities, &rating); err != nil {
			return nil, err
		}
		if len(amenities) > 0 {
			if err := json.Unmarshal(amenities, &e.Amenities); err != nil {
				return nil, fmt.Errorf("%w: venue %q amenities: %w", domain.ErrSourceLoad, e.Name, err)
			}
		}
		if rating.Valid {
			f := rating.Float64
			e.Rating = &f
		}
		idx[e.Name] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.fillPrices(ctx, out, idx); err != nil {
		return nil, err
	}
	if err := r.fillDates(ctx, out, idx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) fillPrices(ctx context.Context, out []domain.VenueEntry, idx map[string]int) error {
	rows, err := r.db.QueryContext(ctx, listPricesSQL)
	if err != nil {
		return fmt.Errorf("%w: list prices: %w", domain.ErrSourceLoad, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name  string
			size  int
			price float64
		)
		if err := rows.Scan(&name, &size, &price); err != nil {
			return err
		}
		i, ok := idx[name]
		if !ok {
			continue
		}
		if out[i].Prices == nil {
			out[i].Prices = map[string]float64{}
		}
		out[i].Prices[domain.PartySize(size).BucketKey()] = price
	}
	return rows.Err()
}

func (r *Repo) fillDates(ctx context.Context, out []domain.VenueEntry, idx map[string]int) error {
	rows, err := r.db.QueryContext(ctx, listDatesSQL)
	if err != nil {
		return fmt.Errorf("%w: list dates: %w", domain.ErrSourceLoad, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, month string
		if err := rows.Scan(&name, &month); err != nil {
			return err
		}
		if i, ok := idx[name]; ok {
			out[i].Dates = append(out[i].Dates, month)
		}
	}
	return rows.Err()
}

// LoadActivities returns one row per venue that offers anything.
func (r *Repo) LoadActivities(ctx context.Context) ([]domain.ActivityRow, error) {
	rows, err := r.db.QueryContext(ctx, listActivitiesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: list activities: %w", domain.ErrSourceLoad, err)
	}
	defer rows.Close()

	var out []domain.ActivityRow
	for rows.Next() {
		var venue, act string
		if err := rows.Scan(&venue, &act); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].Venue != venue {
			out = append(out, domain.ActivityRow{Venue: venue, Offered: map[string]bool{}})
		}
		out[len(out)-1].Offered[act] = true
	}
	return out, rows.Err()
}
