// Package catalogfile reads the venue catalog (JSON or YAML) and the activity
// table (CSV) from disk.
package catalogfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"stay_finder/internal/domain"
)

type Loader struct {
	CatalogPath    string
	ActivitiesPath string // optional; empty means no venue offers activities
}

func New(catalogPath, activitiesPath string) *Loader {
	return &Loader{CatalogPath: catalogPath, ActivitiesPath: activitiesPath}
}

type placesDoc struct {
	Places []placeDoc `json:"places" yaml:"places"`
}

type placeDoc struct {
	Name     string `json:"place_name" yaml:"place_name"`
	Location struct {
		Country string `json:"country" yaml:"country"`
	} `json:"location" yaml:"location"`
	Prices    map[string]float64 `json:"prices" yaml:"prices"`
	Dates     monthList          `json:"dates" yaml:"dates"`
	Amenities []string           `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	Rating    *float64           `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// monthList accepts either "October" or ["October", "November"].
type monthList []string

func (m *monthList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*m = monthList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("dates: want string or list of strings: %w", err)
	}
	*m = many
	return nil
}

func (m *monthList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*m = monthList{n.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := n.Decode(&many); err != nil {
			return err
		}
		*m = many
		return nil
	}
	return fmt.Errorf("dates: want string or list of strings (line %d)", n.Line)
}

func (l *Loader) LoadVenues(ctx context.Context) ([]domain.VenueEntry, error) {
	b, err := os.ReadFile(l.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSourceLoad, l.CatalogPath, err)
	}
	var doc placesDoc
	switch strings.ToLower(filepath.Ext(l.CatalogPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrSourceLoad, l.CatalogPath, err)
	}
	if doc.Places == nil {
		return nil, fmt.Errorf("%w: %s has no \"places\" list", domain.ErrSourceLoad, l.CatalogPath)
	}

	out := make([]domain.VenueEntry, 0, len(doc.Places))
	for _, p := range doc.Places {
		out = append(out, domain.VenueEntry{
			Name:      p.Name,
			Location:  p.Location.Country,
			Prices:    p.Prices,
			Dates:     p.Dates,
			Amenities: p.Amenities,
			Rating:    p.Rating,
		})
	}
	return out, nil
}

func (l *Loader) LoadActivities(ctx context.Context) ([]domain.ActivityRow, error) {
	if l.ActivitiesPath == "" {
		return nil, nil
	}
	f, err := os.Open(l.ActivitiesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrSourceLoad, l.ActivitiesPath, err)
	}
	defer f.Close()

	rows, err := ReadActivityCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceLoad, l.ActivitiesPath, err)
	}
	return rows, nil
}

// ReadActivityCSV parses "name,<activity>,..." tables. The first column is the
// venue; every other header names an activity.
func ReadActivityCSV(r io.Reader) ([]domain.ActivityRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("activity table is empty")
		}
		return nil, err
	}
	if len(header) < 2 {
		return nil, errors.New("activity table needs a venue column and at least one activity")
	}
	acts := header[1:]

	var out []domain.ActivityRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		row := domain.ActivityRow{Venue: strings.TrimSpace(rec[0]), Offered: make(map[string]bool, len(acts))}
		for i, a := range acts {
			on, err := parseCell(rec[i+1])
			if err != nil {
				return nil, fmt.Errorf("line %d, %s: %w", line, a, err)
			}
			row.Offered[strings.TrimSpace(a)] = on
		}
		out = append(out, row)
	}
	return out, nil
}

func parseCell(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x":
		return true, nil
	case "false", "no", "n", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("not a flag: %q", s)
}
