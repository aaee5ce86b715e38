package activity

import (
	"time"

	"github.com/planscope/planscope/pkg/geo"
)

// Source identifies which kind of provider an Activity came from.
type Source string

const (
	SourceEvent Source = "event"
	SourcePlace Source = "place"
)

// OutcomeStatus is the per-provider result of one search attempt.
type OutcomeStatus string

const (
	StatusOK    OutcomeStatus = "ok"
	StatusEmpty OutcomeStatus = "empty"
	StatusError OutcomeStatus = "error"
)

// PriceLevel follows the 0-4 scale (0 = free, 4 = very expensive).
type PriceLevel int

// Location is a coordinate pair plus an optional human-readable address.
type Location struct {
	Coords  geo.Coordinates `json:"coords"`
	Address string          `json:"address,omitempty"`
}

// Activity is the normalized, provider-agnostic record. (Source, ProviderID)
// uniquely identifies one entity; duplicates are collapsed keeping the most
// recently fetched copy.
type Activity struct {
	Source     Source      `json:"source"`
	ProviderID string      `json:"provider_id"`
	Name       string      `json:"name"`
	Category   Category    `json:"category"`
	Location   Location    `json:"location"`
	StartTime  *time.Time  `json:"start_time,omitempty"`
	Rating     float64     `json:"rating,omitempty"`
	RatingN    int         `json:"rating_count,omitempty"`
	PriceLevel *PriceLevel `json:"price_level,omitempty"`
	URL        string      `json:"url,omitempty"`
	FetchedAt  time.Time   `json:"-"`

	// RawRef keeps the raw provider payload for later detail extraction
	// (calendar link construction). Never surfaced in errors or logs.
	RawRef string `json:"-"`
}

// Key returns the dedup identity of the activity.
func (a Activity) Key() string {
	return string(a.Source) + ":" + a.ProviderID
}

// Query is the normalized search request shared by all providers.
// Location is exactly one of Address or Coords.
type Query struct {
	Keyword       string           `json:"keyword,omitempty"`
	Address       string           `json:"address,omitempty"`
	Coords        *geo.Coordinates `json:"coords,omitempty"`
	RadiusKm      float64          `json:"radius_km,omitempty"`
	DateFrom      *time.Time       `json:"date_from,omitempty"`
	DateTo        *time.Time       `json:"date_to,omitempty"`
	MinRating     float64          `json:"min_rating,omitempty"`
	MaxPriceLevel *PriceLevel      `json:"max_price_level,omitempty"`
	Categories    []Category       `json:"categories,omitempty"`
	Sources       []Source         `json:"sources,omitempty"`
	PlacesFirst   bool             `json:"places_first,omitempty"`
}

// WantsSource reports whether the query includes the given source.
// An empty Sources list means all sources.
func (q Query) WantsSource(s Source) bool {
	if len(q.Sources) == 0 {
		return true
	}
	for _, want := range q.Sources {
		if want == s {
			return true
		}
	}
	return false
}

// ProviderOutcome is the result of one adapter invocation. Adapters never
// fail past their boundary; transport and parse errors end up here.
type ProviderOutcome struct {
	Provider    Source        `json:"provider"`
	Status      OutcomeStatus `json:"status"`
	Activities  []Activity    `json:"activities,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	// Dropped counts raw entries discarded for missing essential fields.
	Dropped int `json:"dropped,omitempty"`
}

// ResultSet is the merged, filtered, ranked answer for one query, plus the
// per-provider status report so callers can tell "no results" from "this
// provider failed". Rebuilt on every query, never persisted.
type ResultSet struct {
	Activities []Activity        `json:"activities"`
	Outcomes   []ProviderOutcome `json:"provider_outcomes"`
}

// Dedupe collapses activities sharing (Source, ProviderID), keeping the most
// recently fetched copy. First-seen position is preserved so the caller's
// ordering survives for everything else.
func Dedupe(acts []Activity) []Activity {
	pos := make(map[string]int, len(acts))
	out := make([]Activity, 0, len(acts))
	for _, a := range acts {
		if i, seen := pos[a.Key()]; seen {
			if a.FetchedAt.After(out[i].FetchedAt) {
				out[i] = a
			}
			continue
		}
		pos[a.Key()] = len(out)
		out = append(out, a)
	}
	return out
}
