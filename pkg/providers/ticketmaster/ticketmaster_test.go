package ticketmaster

import (
	"testing"
	"time"

	"github.com/planscope/planscope/pkg/activity"
)

const searchFixture = `{
  "_embedded": {
    "events": [
      {
        "name": "Jazz Night",
        "id": "ev1",
        "url": "https://tickets.example/ev1",
        "dates": {"start": {"dateTime": "2024-06-01T20:00:00Z", "localDate": "2024-06-01", "localTime": "16:00:00"}},
        "classifications": [{"segment": {"name": "Music"}}],
        "priceRanges": [{"min": 30.0, "max": 120.0}],
        "_embedded": {
          "venues": [{
            "name": "Blue Hall",
            "address": {"line1": "1 Swing St"},
            "city": {"name": "New York"},
            "location": {"latitude": "40.7128", "longitude": "-74.0060"}
          }]
        }
      },
      {
        "name": "Local Date Only",
        "id": "ev2",
        "dates": {"start": {"localDate": "2024-06-02"}},
        "_embedded": {"venues": [{"name": "Park Stage", "city": {"name": "New York"}}]}
      },
      {
        "id": "ev3",
        "dates": {"start": {"localDate": "2024-06-03"}}
      },
      {
        "name": "Nowhere Show",
        "id": "ev4"
      }
    ]
  }
}`

func TestParseEvents(t *testing.T) {
	now := time.Now()
	acts, dropped := parseEvents(searchFixture, now)

	if len(acts) != 2 {
		t.Fatalf("expected 2 events, got %#v", acts)
	}
	if dropped != 2 {
		t.Fatalf("expected 2 dropped (missing name, missing location), got %d", dropped)
	}

	a := acts[0]
	if a.Source != activity.SourceEvent || a.ProviderID != "ev1" {
		t.Fatalf("bad identity: %#v", a)
	}
	if a.Name != "Jazz Night" || a.Category != activity.CategoryMusic {
		t.Fatalf("bad name/category: %#v", a)
	}
	if a.StartTime == nil || !a.StartTime.Equal(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)) {
		t.Fatalf("absolute dateTime must win: %#v", a.StartTime)
	}
	if a.Location.Coords.Lat != 40.7128 || a.Location.Coords.Lng != -74.0060 {
		t.Fatalf("bad coords: %#v", a.Location)
	}
	if a.Location.Address != "Blue Hall, 1 Swing St, New York" {
		t.Fatalf("bad address: %q", a.Location.Address)
	}
	if a.PriceLevel == nil || *a.PriceLevel != 2 {
		t.Fatalf("min price 30 should map to level 2: %#v", a.PriceLevel)
	}
	if a.RawRef == "" || !a.FetchedAt.Equal(now) {
		t.Fatalf("raw payload and fetch time must be retained: %#v", a)
	}

	b := acts[1]
	if b.StartTime == nil || !b.StartTime.Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("local date should parse as UTC midnight: %#v", b.StartTime)
	}
	if b.Location.Coords.Valid() {
		t.Fatalf("ev2 has no coordinates: %#v", b.Location)
	}
	if b.PriceLevel != nil {
		t.Fatalf("missing price must stay unset: %#v", b.PriceLevel)
	}
}

func TestParseEvents_EmptyBody(t *testing.T) {
	acts, dropped := parseEvents(`{"page": {"totalElements": 0}}`, time.Now())
	if len(acts) != 0 || dropped != 0 {
		t.Fatalf("empty response must produce nothing, got %d/%d", len(acts), dropped)
	}
}

func TestPriceLevelFromAmount(t *testing.T) {
	cases := map[float64]activity.PriceLevel{
		0:   0,
		10:  1,
		24:  1,
		25:  2,
		74:  2,
		100: 3,
		200: 4,
	}
	for min, want := range cases {
		if got := priceLevelFromAmount(min); got != want {
			t.Fatalf("priceLevelFromAmount(%f) = %d, want %d", min, got, want)
		}
	}
}
