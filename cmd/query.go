package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/geo"
)

// addQueryFlags registers the flags shared by the search commands.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("location", "L", "", "Location: an address/city, or coordinates as \"lat,lng\"")
	cmd.Flags().StringP("keyword", "k", "", "Keyword to search for")
	cmd.Flags().Float64P("radius", "r", 0, "Search radius in km")
	cmd.Flags().String("from", "", "Start of date range (YYYY-MM-DD or RFC3339)")
	cmd.Flags().String("to", "", "End of date range (YYYY-MM-DD or RFC3339)")
	cmd.Flags().Float64("min-rating", 0, "Minimum rating (1-5)")
	cmd.Flags().Int("max-price", -1, "Maximum price level (0-4)")
	cmd.Flags().StringP("categories", "c", "", "Categories, comma separated (music, sports, arts, film, food, nightlife, outdoors, culture, shopping, wellness, attraction, lodging)")
	cmd.Flags().Bool("places-first", false, "Rank places ahead of events")
	cmd.Flags().Int("max", 20, "Maximum number of results")
	cmd.Flags().Duration("timeout", 10*time.Second, "Per-provider timeout")
	cmd.Flags().Bool("json", false, "Print the raw result set as JSON")
}

// queryFromFlags turns the flag surface into a normalized Query. The
// location flag is coordinates when it parses as "lat,lng", an address
// otherwise.
func queryFromFlags(cmd *cobra.Command) (activity.Query, error) {
	var q activity.Query

	location, _ := cmd.Flags().GetString("location")
	if coords, ok := geo.ParseCoordinates(location); ok {
		q.Coords = &coords
	} else {
		q.Address = location
	}

	q.Keyword, _ = cmd.Flags().GetString("keyword")
	q.RadiusKm, _ = cmd.Flags().GetFloat64("radius")
	q.MinRating, _ = cmd.Flags().GetFloat64("min-rating")
	q.PlacesFirst, _ = cmd.Flags().GetBool("places-first")

	if maxPrice, _ := cmd.Flags().GetInt("max-price"); maxPrice >= 0 {
		level := activity.PriceLevel(maxPrice)
		q.MaxPriceLevel = &level
	}

	if raw, _ := cmd.Flags().GetString("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			q.Categories = append(q.Categories, activity.Category(strings.TrimSpace(part)))
		}
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	var err error
	if q.DateFrom, err = parseDate(from, false); err != nil {
		return q, err
	}
	if q.DateTo, err = parseDate(to, true); err != nil {
		return q, err
	}
	return q, nil
}

// parseDate accepts a bare date or a full RFC3339 timestamp. Bare dates are
// read as UTC midnight; for range ends the whole day is included.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q. Use YYYY-MM-DD or RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	return &t, nil
}

// printResultSet renders the ranked activities as a table on stdout and the
// per-provider status report on stderr.
func printResultSet(rs *activity.ResultSet, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(rs)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, a := range rs.Activities {
		detail := "-"
		if a.Source == activity.SourceEvent && a.StartTime != nil {
			detail = a.StartTime.Format("2006-01-02 15:04")
		} else if a.Source == activity.SourcePlace && a.Rating > 0 {
			detail = fmt.Sprintf("%.1f (%d)", a.Rating, a.RatingN)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.Source, a.Category, a.Name, detail, a.URL)
	}
	w.Flush()

	for _, o := range rs.Outcomes {
		line := fmt.Sprintf("[%s] %s, %d results", o.Provider, o.Status, len(o.Activities))
		if o.ErrorDetail != "" {
			line += ": " + o.ErrorDetail
		}
		if o.Dropped > 0 {
			line += fmt.Sprintf(" (%d malformed entries dropped)", o.Dropped)
		}
		fmt.Fprintln(os.Stderr, line)
	}
}
