package activity

import (
	"testing"
	"time"

	"github.com/planscope/planscope/pkg/geo"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func level(n int) *PriceLevel {
	l := PriceLevel(n)
	return &l
}

func TestApplyFilters_Unconstrained(t *testing.T) {
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "e1", Name: "Jazz Night", StartTime: ts("2024-06-01T20:00:00Z")},
		{Source: SourcePlace, ProviderID: "p1", Name: "Blue Note", Rating: 4.5},
	}
	got := ApplyFilters(acts, Query{}, geo.Coordinates{})
	if len(got) != 2 {
		t.Fatalf("unspecified filters must impose no constraint, got %d of 2", len(got))
	}
}

func TestApplyFilters_DateRange(t *testing.T) {
	q := Query{DateFrom: ts("2024-06-01T00:00:00Z"), DateTo: ts("2024-06-02T00:00:00Z")}
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "in", StartTime: ts("2024-06-01T20:00:00Z")},
		{Source: SourceEvent, ProviderID: "early", StartTime: ts("2024-05-20T20:00:00Z")},
		{Source: SourceEvent, ProviderID: "late", StartTime: ts("2024-07-01T20:00:00Z")},
		// Places carry no start time and are not excluded by a date range.
		{Source: SourcePlace, ProviderID: "p1", Rating: 4.0},
	}
	got := ApplyFilters(acts, q, geo.Coordinates{})
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %#v", got)
	}
	if got[0].ProviderID != "in" || got[1].ProviderID != "p1" {
		t.Fatalf("wrong survivors: %#v", got)
	}
}

func TestApplyFilters_RatingAndPrice(t *testing.T) {
	q := Query{MinRating: 4.0, MaxPriceLevel: level(2)}
	acts := []Activity{
		{Source: SourcePlace, ProviderID: "good", Rating: 4.5, PriceLevel: level(1)},
		{Source: SourcePlace, ProviderID: "lowrated", Rating: 3.0, PriceLevel: level(1)},
		{Source: SourcePlace, ProviderID: "pricy", Rating: 4.8, PriceLevel: level(4)},
		// Unset price level passes a price ceiling.
		{Source: SourcePlace, ProviderID: "nopricing", Rating: 4.2},
	}
	got := ApplyFilters(acts, q, geo.Coordinates{})
	if len(got) != 2 || got[0].ProviderID != "good" || got[1].ProviderID != "nopricing" {
		t.Fatalf("wrong survivors: %#v", got)
	}
}

func TestApplyFilters_Keyword(t *testing.T) {
	q := Query{Keyword: "jazz"}
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "e1", Name: "Jazz Night"},
		{Source: SourceEvent, ProviderID: "e2", Name: "Rock Festival"},
		{Source: SourcePlace, ProviderID: "p1", Name: "JAZZ Cafe"},
	}
	got := ApplyFilters(acts, q, geo.Coordinates{})
	if len(got) != 2 {
		t.Fatalf("case-insensitive substring expected 2, got %#v", got)
	}
}

func TestApplyFilters_Categories(t *testing.T) {
	q := Query{Categories: []Category{CategoryMusic, CategoryFood}}
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "e1", Category: CategoryMusic},
		{Source: SourcePlace, ProviderID: "p1", Category: CategoryFood},
		{Source: SourcePlace, ProviderID: "p2", Category: CategoryShopping},
	}
	got := ApplyFilters(acts, q, geo.Coordinates{})
	if len(got) != 2 {
		t.Fatalf("expected 2 category matches, got %#v", got)
	}
}

func TestApplyFilters_Radius(t *testing.T) {
	origin := geo.Coordinates{Lat: 40.7128, Lng: -74.0060} // Manhattan
	q := Query{RadiusKm: 10}
	acts := []Activity{
		{Source: SourcePlace, ProviderID: "near", Location: Location{Coords: geo.Coordinates{Lat: 40.73, Lng: -74.0}}},
		{Source: SourcePlace, ProviderID: "boston", Location: Location{Coords: geo.Coordinates{Lat: 42.36, Lng: -71.06}}},
		// No coordinates: the radius predicate cannot apply.
		{Source: SourcePlace, ProviderID: "nocoords", Location: Location{Address: "somewhere"}},
	}
	got := ApplyFilters(acts, q, origin)
	if len(got) != 2 || got[0].ProviderID != "near" || got[1].ProviderID != "nocoords" {
		t.Fatalf("wrong survivors: %#v", got)
	}
}

func TestApplyFilters_SourceSubset(t *testing.T) {
	q := Query{Sources: []Source{SourceEvent}}
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "e1"},
		{Source: SourcePlace, ProviderID: "p1"},
	}
	got := ApplyFilters(acts, q, geo.Coordinates{})
	if len(got) != 1 || got[0].Source != SourceEvent {
		t.Fatalf("expected events only, got %#v", got)
	}
}
