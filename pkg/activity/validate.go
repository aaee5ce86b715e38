package activity

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed query. It is raised before any network
// call and surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Reason)
}

// invalidChars are rejected in free-text inputs (addresses, keywords) to keep
// provider query strings sane.
const invalidChars = "<>:/\\|?*{}()[]@%&$#^=+`"

func validateText(field, value string, required bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return &ValidationError{Field: field, Reason: "is required"}
		}
		return nil
	}
	if len(value) < 2 {
		return &ValidationError{Field: field, Reason: "must be at least 2 characters long"}
	}
	if len(value) > 200 {
		return &ValidationError{Field: field, Reason: "is too long"}
	}
	if strings.ContainsAny(value, invalidChars) {
		return &ValidationError{Field: field, Reason: "contains invalid characters"}
	}
	return nil
}

// Validate checks the query invariants: location is exactly one of address or
// coordinates, date_from <= date_to when both are present, numeric ranges,
// and known enum values. Unset optional fields impose no constraint.
func (q Query) Validate() error {
	hasAddr := strings.TrimSpace(q.Address) != ""
	hasCoords := q.Coords != nil

	if hasAddr && hasCoords {
		return &ValidationError{Field: "location", Reason: "address and coordinates are mutually exclusive"}
	}
	if !hasAddr && !hasCoords {
		return &ValidationError{Field: "location", Reason: "either an address or coordinates are required"}
	}
	if hasAddr {
		if err := validateText("location", q.Address, true); err != nil {
			return err
		}
	}
	if hasCoords && !q.Coords.Valid() {
		return &ValidationError{Field: "location", Reason: "coordinates out of range"}
	}
	if err := validateText("keyword", q.Keyword, false); err != nil {
		return err
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateFrom.After(*q.DateTo) {
		return &ValidationError{Field: "date_from", Reason: "must not be after date_to"}
	}
	if q.RadiusKm < 0 {
		return &ValidationError{Field: "radius_km", Reason: "must not be negative"}
	}
	if q.MinRating < 0 || q.MinRating > 5 {
		return &ValidationError{Field: "min_rating", Reason: "must be between 0 and 5"}
	}
	if q.MaxPriceLevel != nil && (*q.MaxPriceLevel < 0 || *q.MaxPriceLevel > 4) {
		return &ValidationError{Field: "max_price_level", Reason: "must be between 0 and 4"}
	}
	for _, c := range q.Categories {
		if !KnownCategory(c) {
			return &ValidationError{Field: "categories", Reason: fmt.Sprintf("unknown category %q", string(c))}
		}
	}
	for _, s := range q.Sources {
		if s != SourceEvent && s != SourcePlace {
			return &ValidationError{Field: "sources", Reason: fmt.Sprintf("unknown source %q", string(s))}
		}
	}
	return nil
}
