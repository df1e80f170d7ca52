package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"stay_finder/internal/adapters/catalogfile"
	"stay_finder/internal/adapters/observability"
	"stay_finder/internal/app"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "error"
	}
	log.Logger = observability.NewLoggerTo(os.Stderr, "dev", level)
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	catalogPath    string
	activitiesPath string
	criterion      string
	asJSON         bool
	interactive    bool
	raw            app.RawPreference
	activityIndex  int
	// set holds the names of flags given on the command line.
	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.StringVar(&o.catalogPath, "catalog", "data/places.json", "venue catalog (JSON or YAML)")
	fs.StringVar(&o.activitiesPath, "activities", "data/activities.csv", "activity table (CSV); empty for none")
	fs.StringVar(&o.criterion, "criterion", string(domain.CriterionCombined), "location|budget|date|activity|combined")
	fs.BoolVar(&o.asJSON, "json", false, "print the recommendation as JSON")
	fs.BoolVar(&o.interactive, "i", false, "prompt for preference fields on stdin")
	fs.StringVar(&o.raw.Name, "name", "", "traveler name")
	fs.IntVar(&o.raw.PartySize, "guests", 0, "number of guests (1-3)")
	fs.IntVar(&o.raw.Nights, "nights", 0, "nights staying")
	fs.Float64Var(&o.raw.Budget, "budget", 0, "total trip budget")
	fs.StringVar(&o.raw.Location, "location", "", "ROM, SVK, USA or OCEAN")
	fs.StringVar(&o.raw.Date, "month", "", "month of the visit")
	fs.StringVar(&o.raw.Activity, "activity", "", "activity name")
	fs.IntVar(&o.activityIndex, "activity-index", 0, "activity menu choice (1-5)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	if o.activityIndex != 0 {
		idx := o.activityIndex
		o.raw.ActivityIndex = &idx
	}
	return o, nil
}

// prompter asks for a field only when no flag supplied it.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p prompter) ask(label string) string {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p prompter) fill(raw *app.RawPreference, set map[string]bool, wantActivity bool) {
	if !set["name"] {
		raw.Name = p.ask("Enter your name: ")
	}
	if !set["guests"] {
		raw.PartySize, _ = strconv.Atoi(p.ask("Enter the number of guests (1-3): "))
	}
	if !set["nights"] {
		raw.Nights, _ = strconv.Atoi(p.ask("Enter how many nights you will be staying: "))
	}
	if !set["budget"] {
		raw.Budget, _ = strconv.ParseFloat(p.ask("Enter the max you are willing to spend for the entire trip: "), 64)
	}
	if !set["location"] {
		raw.Location = p.ask("Enter your preferred location (ROM, SVK, USA or OCEAN): ")
	}
	if !set["month"] {
		raw.Date = p.ask("Enter the month of your visit: ")
	}
	if wantActivity && !set["activity"] && !set["activity-index"] {
		for i, a := range domain.Activities {
			fmt.Fprintf(p.out, "%d. %s\n", i+1, a)
		}
		if n, err := strconv.Atoi(p.ask("Choose an activity: ")); err == nil {
			raw.ActivityIndex = &n
		}
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	crit, err := domain.ParseCriterion(strings.ToLower(o.criterion))
	if err != nil {
		return err
	}
	if o.interactive {
		prompter{in: bufio.NewScanner(stdin), out: stdout}.fill(&o.raw, o.set, crit == domain.CriterionActivity)
	}
	pref, err := app.BuildPreference(o.raw)
	if err != nil {
		return err
	}

	src := catalogfile.New(o.catalogPath, o.activitiesPath)
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return err
	}
	acts, err := catalog.LoadActivities(ctx, src)
	if err != nil {
		return err
	}

	rec, err := app.NewRecommendService(cat, acts, nil, 0, nil).Recommend(ctx, pref, crit)
	if err != nil {
		return err
	}
	if o.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	printText(stdout, pref, rec)
	return nil
}

func printText(w io.Writer, pref domain.Preference, rec domain.Recommendation) {
	if pref.Name() != "" {
		fmt.Fprintf(w, "Hello %s.\n", pref.Name())
	}
	for _, l := range []struct {
		label string
		names []string
		ran   bool
	}{
		{"Hotels in location", rec.Matches.Location, rec.Matches.Location != nil},
		{"Hotels within budget", rec.Matches.Budget, rec.Matches.Budget != nil},
		{"Hotels available in " + pref.Date(), rec.Matches.Date, rec.Matches.Date != nil},
		{"Hotels offering " + string(pref.Activity()), rec.Matches.Activity, rec.Matches.Activity != nil},
	} {
		if !l.ran {
			continue
		}
		if len(l.names) == 0 {
			fmt.Fprintf(w, "%s: none\n", l.label)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", l.label, strings.Join(l.names, ", "))
	}
	if len(rec.Incomplete) > 0 {
		fmt.Fprintf(w, "No price for %d guests at: %s\n", pref.PartySize(), strings.Join(rec.Incomplete, ", "))
	}

	if !rec.Found {
		fmt.Fprintln(w, "No hotel matches your preferences.")
		return
	}
	fmt.Fprintf(w, "Recommended hotel: %s\n", rec.Venue)
	if len(rec.Activities) > 0 {
		names := make([]string, len(rec.Activities))
		for i, a := range rec.Activities {
			names[i] = string(a)
		}
		fmt.Fprintf(w, "Activities: %s\n", strings.Join(names, ", "))
	}
	if rec.TotalCost != nil {
		fmt.Fprintf(w, "Total cost: %.2f\n", *rec.TotalCost)
	}
	if rec.Spending != nil && rec.Spending.Leftover > 0 {
		fmt.Fprintf(w, "Leftover budget: %.2f\n", rec.Spending.Leftover)
		for _, s := range rec.Spending.Shares {
			fmt.Fprintf(w, "  %s (%g%%): %.2f\n", s.Category, s.Percent, s.Amount)
		}
	}
}
