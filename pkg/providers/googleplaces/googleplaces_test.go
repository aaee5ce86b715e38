package googleplaces

import (
	"testing"
	"time"

	"github.com/planscope/planscope/pkg/activity"
)

const nearbyFixture = `{
  "status": "OK",
  "results": [
    {
      "place_id": "pl1",
      "name": "Blue Note",
      "vicinity": "131 W 3rd St, New York",
      "rating": 4.6,
      "user_ratings_total": 2100,
      "price_level": 3,
      "types": ["night_club", "bar", "point_of_interest", "establishment"],
      "geometry": {"location": {"lat": 40.7308, "lng": -74.0007}}
    },
    {
      "place_id": "pl2",
      "name": "Mystery Spot",
      "types": ["establishment"],
      "geometry": {"location": {"lat": 40.74, "lng": -74.0}}
    },
    {
      "name": "No Id Diner",
      "geometry": {"location": {"lat": 40.75, "lng": -74.0}}
    },
    {
      "place_id": "pl4",
      "name": "Floating Nowhere"
    }
  ]
}`

func TestParsePlaces(t *testing.T) {
	now := time.Now()
	acts, dropped := parsePlaces(nearbyFixture, now)

	if len(acts) != 2 {
		t.Fatalf("expected 2 places, got %#v", acts)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped (no id, no location), got %d", dropped)
	}

	a := acts[0]
	if a.Source != activity.SourcePlace || a.ProviderID != "pl1" {
		t.Fatalf("bad identity: %#v", a)
	}
	if a.Category != activity.CategoryNightlife {
		t.Fatalf("first mappable type should win: %#v", a.Category)
	}
	if a.Rating != 4.6 || a.RatingN != 2100 {
		t.Fatalf("bad rating: %#v", a)
	}
	if a.PriceLevel == nil || *a.PriceLevel != 3 {
		t.Fatalf("bad price level: %#v", a.PriceLevel)
	}
	if a.Location.Address != "131 W 3rd St, New York" {
		t.Fatalf("bad address: %q", a.Location.Address)
	}
	if a.URL == "" {
		t.Fatal("places without a website still get a maps URL")
	}

	b := acts[1]
	if b.Category != activity.CategoryOther {
		t.Fatalf("establishment-only types map to other: %#v", b.Category)
	}
	if b.PriceLevel != nil || b.Rating != 0 {
		t.Fatalf("missing optional fields must stay unset: %#v", b)
	}
}

func TestRadiusMeters(t *testing.T) {
	cases := map[float64]int{
		0:    5000,
		-3:   5000,
		2:    2000,
		5:    5000,
		5000: 50000,
	}
	for km, want := range cases {
		if got := radiusMeters(km); got != want {
			t.Fatalf("radiusMeters(%f) = %d, want %d", km, got, want)
		}
	}
}

func TestSearchType(t *testing.T) {
	got := searchType([]activity.Category{activity.CategoryMusic, activity.CategoryFood})
	if got != "restaurant" {
		t.Fatalf("first mappable category should win, got %q", got)
	}
	if searchType(nil) != "" {
		t.Fatal("no categories means no type narrowing")
	}
	if searchType([]activity.Category{activity.CategoryMusic}) != "" {
		t.Fatal("music has no nearby-search type")
	}
}
