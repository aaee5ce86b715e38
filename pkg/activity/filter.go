package activity

import (
	"strings"

	"github.com/planscope/planscope/pkg/geo"
)

// ApplyFilters keeps only activities satisfying every predicate the query
// specifies, as an AND. Providers may pre-filter on their side, but that is
// treated as advisory only; every predicate is re-checked here. origin is the
// resolved query location; pass an invalid Coordinates to skip the radius
// check (address-only aggregation where resolution failed).
func ApplyFilters(acts []Activity, q Query, origin geo.Coordinates) []Activity {
	out := make([]Activity, 0, len(acts))
	for _, a := range acts {
		if matchesFilters(a, q, origin) {
			out = append(out, a)
		}
	}
	return out
}

func matchesFilters(a Activity, q Query, origin geo.Coordinates) bool {
	if !q.WantsSource(a.Source) {
		return false
	}
	// Date range constrains timed activities only; places carry no start
	// time and are not excluded by it.
	if a.StartTime != nil {
		if q.DateFrom != nil && a.StartTime.Before(*q.DateFrom) {
			return false
		}
		if q.DateTo != nil && a.StartTime.After(*q.DateTo) {
			return false
		}
	}
	if q.MinRating > 0 && a.Rating < q.MinRating {
		return false
	}
	if q.MaxPriceLevel != nil && a.PriceLevel != nil && *a.PriceLevel > *q.MaxPriceLevel {
		return false
	}
	if q.Keyword != "" && !matchesKeyword(a, q.Keyword) {
		return false
	}
	if len(q.Categories) > 0 && !containsCategory(q.Categories, a.Category) {
		return false
	}
	if q.RadiusKm > 0 && origin.Valid() && a.Location.Coords.Valid() {
		if geo.DistanceKm(origin, a.Location.Coords) > q.RadiusKm {
			return false
		}
	}
	return true
}

func matchesKeyword(a Activity, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(a.Name), kw) {
		return true
	}
	return strings.Contains(strings.ToLower(string(a.Category)), kw)
}

func containsCategory(set []Category, c Category) bool {
	for _, want := range set {
		if want == c {
			return true
		}
	}
	return false
}
