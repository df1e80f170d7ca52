package domain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Months holds the normalized month names ("January".."December").
var Months = func() []string {
	out := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, m.String())
	}
	return out
}()

func IsMonth(s string) bool {
	for _, m := range Months {
		if s == m {
			return true
		}
	}
	return false
}

// PreferenceInput is the raw, already-sanitized traveler input.
type PreferenceInput struct {
	Name      string  `json:"name"`
	PartySize int     `json:"party_size" validate:"min=1,max=3"`
	Nights    int     `json:"nights" validate:"gt=0"`
	Budget    float64 `json:"budget" validate:"gte=0"`
	Location  string  `json:"location" validate:"required,location"`
	Date      string  `json:"date" validate:"required,month"`
	Activity  string  `json:"activity,omitempty" validate:"omitempty,activity"`
}

// Preference is a validated, immutable traveler preference.
type Preference struct {
	name      string
	partySize PartySize
	nights    int
	budget    float64
	location  Location
	date      string
	activity  Activity
}

func (p Preference) Name() string         { return p.name }
func (p Preference) PartySize() PartySize { return p.partySize }
func (p Preference) Nights() int          { return p.nights }
func (p Preference) Budget() float64      { return p.budget }
func (p Preference) Location() Location   { return p.location }
func (p Preference) Date() string         { return p.date }
func (p Preference) Activity() Activity   { return p.activity }
func (p Preference) HasActivity() bool    { return p.activity != "" }

// Input returns the preference back in its raw form (cache keys, logs).
func (p Preference) Input() PreferenceInput {
	return PreferenceInput{
		Name:      p.name,
		PartySize: int(p.partySize),
		Nights:    p.nights,
		Budget:    p.budget,
		Location:  string(p.location),
		Date:      p.date,
		Activity:  string(p.activity),
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func prefValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
			return Location(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
			return IsMonth(fl.Field().String())
		})
		_ = v.RegisterValidation("activity", func(fl validator.FieldLevel) bool {
			return Activity(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// NewPreference validates in and freezes it. Party size is never clamped.
func NewPreference(in PreferenceInput) (Preference, error) {
	if err := prefValidator().Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Preference{}, fmt.Errorf("validate preference: %w", err)
		}
		out := &ValidationError{}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fieldName(fe.Field()), Message: fieldMessage(fe)})
		}
		return Preference{}, out
	}
	return Preference{
		name:      in.Name,
		partySize: PartySize(in.PartySize),
		nights:    in.Nights,
		budget:    in.Budget,
		location:  Location(in.Location),
		date:      in.Date,
		activity:  Activity(in.Activity),
	}, nil
}

func fieldName(goName string) string {
	switch goName {
	case "PartySize":
		return "party_size"
	case "Nights":
		return "nights"
	case "Budget":
		return "budget"
	case "Location":
		return "location"
	case "Date":
		return "date"
	case "Activity":
		return "activity"
	}
	return goName
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("must be between %d and %d", MinPartySize, MaxPartySize)
	case "gt":
		return "must be a positive integer"
	case "gte":
		return "must not be negative"
	case "required":
		return "is required"
	case "location":
		return fmt.Sprintf("unknown location code %q", fe.Value())
	case "month":
		return fmt.Sprintf("unknown month %q", fe.Value())
	case "activity":
		return fmt.Sprintf("unknown activity %q", fe.Value())
	}
	return "is invalid (" + fe.Tag() + ")"
}
