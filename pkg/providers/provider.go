package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/geo"
)

// ErrNotFound is returned by Lookup when the provider has no entity for the
// given id.
var ErrNotFound = errors.New("activity not found")

// Provider defines a common interface over heterogeneous activity sources,
// abstracting away each provider's API shape. Adding a provider means adding
// an implementation, not touching the engine.
//
// Search never fails past its boundary: transport and parse errors are
// converted into an error-status ProviderOutcome so one provider's failure
// can never interrupt its siblings.
type Provider interface {
	Name() activity.Source
	// NeedsCoordinates reports whether the provider requires a resolved
	// coordinate pair. Providers returning false accept the query's raw
	// address when resolution failed.
	NeedsCoordinates() bool
	Search(ctx context.Context, q activity.Query, origin geo.Coordinates) activity.ProviderOutcome
	// Lookup fetches a single activity by its provider-scoped id.
	Lookup(ctx context.Context, id string) (activity.Activity, error)
}

// ErrorOutcome builds an error-status outcome. detail must never contain
// credentials or raw payload fragments.
func ErrorOutcome(p activity.Source, detail string) activity.ProviderOutcome {
	return activity.ProviderOutcome{Provider: p, Status: activity.StatusError, ErrorDetail: detail}
}

// Outcome wraps a parsed activity list into ok/empty status.
func Outcome(p activity.Source, acts []activity.Activity, dropped int) activity.ProviderOutcome {
	status := activity.StatusOK
	if len(acts) == 0 {
		status = activity.StatusEmpty
	}
	return activity.ProviderOutcome{Provider: p, Status: status, Activities: acts, Dropped: dropped}
}

// TransportDetail classifies a transport failure without echoing the error
// itself; transport errors embed the full request URL, credentials included.
func TransportDetail(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return "canceled"
	}
	return "transport error"
}

// StatusDetail formats a non-200 reply for the outcome record.
func StatusDetail(code int) string {
	return fmt.Sprintf("unexpected status %d", code)
}
