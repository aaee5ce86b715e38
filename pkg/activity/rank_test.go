package activity

import (
	"testing"
	"time"
)

func TestRank_EventsBeforePlaces(t *testing.T) {
	acts := []Activity{
		{Source: SourcePlace, ProviderID: "p1", Rating: 5},
		{Source: SourceEvent, ProviderID: "e1", StartTime: ts("2024-06-01T20:00:00Z")},
	}
	Rank(acts, Query{})
	if acts[0].Source != SourceEvent {
		t.Fatalf("events must rank before places by default, got %#v", acts)
	}

	Rank(acts, Query{PlacesFirst: true})
	if acts[0].Source != SourcePlace {
		t.Fatalf("places_first must invert the source order, got %#v", acts)
	}
}

func TestRank_EventsByStartTime(t *testing.T) {
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "late", StartTime: ts("2024-06-03T20:00:00Z")},
		{Source: SourceEvent, ProviderID: "untimed"},
		{Source: SourceEvent, ProviderID: "early", StartTime: ts("2024-06-01T20:00:00Z")},
	}
	Rank(acts, Query{})
	want := []string{"early", "late", "untimed"}
	for i, id := range want {
		if acts[i].ProviderID != id {
			t.Fatalf("expected order %v, got %#v", want, acts)
		}
	}
}

func TestRank_PlacesByRatingDesc(t *testing.T) {
	acts := []Activity{
		{Source: SourcePlace, ProviderID: "ok", Rating: 3.9},
		{Source: SourcePlace, ProviderID: "best", Rating: 4.8},
		{Source: SourcePlace, ProviderID: "good", Rating: 4.2},
	}
	Rank(acts, Query{})
	want := []string{"best", "good", "ok"}
	for i, id := range want {
		if acts[i].ProviderID != id {
			t.Fatalf("expected order %v, got %#v", want, acts)
		}
	}
}

func TestRank_TieBreakByProviderID(t *testing.T) {
	when := ts("2024-06-01T20:00:00Z")
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "zzz", StartTime: when},
		{Source: SourceEvent, ProviderID: "aaa", StartTime: when},
	}
	Rank(acts, Query{})
	if acts[0].ProviderID != "aaa" {
		t.Fatalf("ties must break by provider id, got %#v", acts)
	}
}

func TestTruncate(t *testing.T) {
	acts := []Activity{{ProviderID: "1"}, {ProviderID: "2"}, {ProviderID: "3"}}
	if got := Truncate(acts, 2); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := Truncate(acts, 0); len(got) != 3 {
		t.Fatalf("no cap expected, got %d", len(got))
	}
}

func TestDedupe_KeepsMostRecent(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	acts := []Activity{
		{Source: SourceEvent, ProviderID: "e1", Name: "stale", FetchedAt: t0},
		{Source: SourcePlace, ProviderID: "e1", Name: "different source", FetchedAt: t0},
		{Source: SourceEvent, ProviderID: "e1", Name: "fresh", FetchedAt: t1},
	}
	got := Dedupe(acts)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after dedup, got %#v", got)
	}
	if got[0].Name != "fresh" {
		t.Fatalf("most recently fetched copy must win, got %#v", got[0])
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]Category{
		"Music":           CategoryMusic,
		"Arts & Theatre":  CategoryArts,
		"restaurant":      CategoryFood,
		"night_club":      CategoryNightlife,
		"museum":          CategoryCulture,
		"something weird": CategoryOther,
		"":                CategoryOther,
	}
	for raw, want := range cases {
		if got := NormalizeCategory(raw); got != want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", raw, got, want)
		}
	}
}
