package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/planscope/planscope/internal/utils"
	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/calendar"
	"github.com/planscope/planscope/pkg/geo"
	"github.com/planscope/planscope/pkg/providers"
)

// AggregationError is raised only when no usable result exists: every
// applicable provider failed, or location resolution failed and no provider
// can proceed without coordinates. It carries the per-provider details for
// diagnosis.
type AggregationError struct {
	Details map[activity.Source]string
}

func (e *AggregationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for p, detail := range e.Details {
		parts = append(parts, string(p)+": "+detail)
	}
	sort.Strings(parts)
	return "aggregation failed: " + strings.Join(parts, "; ")
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	// ProviderTimeout bounds each adapter call individually.
	ProviderTimeout time.Duration
	// MaxResults caps the ranked result list.
	MaxResults int
	// Clock supplies "now" for date-range defaulting.
	Clock func() time.Time
}

const (
	defaultProviderTimeout = 10 * time.Second
	defaultMaxResults      = 20
)

// Engine aggregates activities from all registered providers. It owns no
// per-request state; the geocode cache inside the resolver is the only
// structure shared across requests.
type Engine struct {
	resolver  geo.Resolver
	providers []providers.Provider
	opts      Options
}

// New builds an engine over the given resolver and providers. Dependencies
// are injected here; the engine never reads process-wide state.
func New(resolver geo.Resolver, provs []providers.Provider, opts Options) *Engine {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{resolver: resolver, providers: provs, opts: opts}
}

// Aggregate runs the full pipeline: validate, resolve the location once, fan
// out to every applicable provider concurrently, then merge, deduplicate,
// filter, rank and truncate. A single provider failing never fails the call;
// its outcome record tells the caller what happened.
func (e *Engine) Aggregate(ctx context.Context, q activity.Query) (*activity.ResultSet, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	reqLog := utils.Log.WithField("req", uuid.NewString()[:8])

	// Events searched without a window default to "from now": past events
	// are never what the caller wants.
	if q.DateFrom == nil && q.DateTo == nil {
		now := e.opts.Clock()
		q.DateFrom = &now
	}

	origin, resErr := e.resolveOrigin(ctx, q)
	if resErr != nil {
		reqLog.WithError(resErr).Debug("location resolution failed, continuing with address fallback")
	}

	var active []providers.Provider
	var skipped []activity.ProviderOutcome
	for _, p := range e.providers {
		if !q.WantsSource(p.Name()) {
			continue
		}
		if resErr != nil && p.NeedsCoordinates() {
			skipped = append(skipped, providers.ErrorOutcome(p.Name(), "skipped: location unresolved"))
			continue
		}
		active = append(active, p)
	}

	outcomes := e.fanOut(ctx, reqLog, active, q, origin)
	outcomes = append(outcomes, skipped...)

	if err := e.checkFatal(outcomes, resErr); err != nil {
		return nil, err
	}

	var merged []activity.Activity
	for _, o := range outcomes {
		merged = append(merged, o.Activities...)
	}
	merged = activity.Dedupe(merged)
	merged = activity.ApplyFilters(merged, q, origin)
	activity.Rank(merged, q)
	merged = activity.Truncate(merged, e.opts.MaxResults)

	reqLog.WithFields(logrus.Fields{
		"providers": len(outcomes),
		"results":   len(merged),
	}).Debug("aggregation complete")

	return &activity.ResultSet{Activities: merged, Outcomes: outcomes}, nil
}

// SearchEvents is Aggregate restricted to the event source.
func (e *Engine) SearchEvents(ctx context.Context, q activity.Query) (*activity.ResultSet, error) {
	q.Sources = []activity.Source{activity.SourceEvent}
	return e.Aggregate(ctx, q)
}

// SearchPlaces is Aggregate restricted to the place source.
func (e *Engine) SearchPlaces(ctx context.Context, q activity.Query) (*activity.ResultSet, error) {
	q.Sources = []activity.Source{activity.SourcePlace}
	return e.Aggregate(ctx, q)
}

// LookupActivity re-fetches a single activity through its owning provider.
// Result sets are stateless, so calendar construction for a previously
// returned activity goes through the provider's by-id endpoint.
func (e *Engine) LookupActivity(ctx context.Context, source activity.Source, id string) (activity.Activity, error) {
	if id == "" {
		return activity.Activity{}, &activity.ValidationError{Field: "id", Reason: "is required"}
	}
	for _, p := range e.providers {
		if p.Name() == source {
			return p.Lookup(ctx, id)
		}
	}
	return activity.Activity{}, &activity.ValidationError{Field: "source", Reason: fmt.Sprintf("no provider for %q", string(source))}
}

// CalendarLink builds a calendar deep link for the identified activity.
func (e *Engine) CalendarLink(ctx context.Context, source activity.Source, id string) (string, error) {
	a, err := e.LookupActivity(ctx, source, id)
	if err != nil {
		return "", err
	}
	return calendar.BuildLink(a)
}

// resolveOrigin resolves the query location exactly once. Coordinate queries
// pass through without a network call.
func (e *Engine) resolveOrigin(ctx context.Context, q activity.Query) (geo.Coordinates, error) {
	if q.Coords != nil {
		return *q.Coords, nil
	}
	return e.resolver.Resolve(ctx, q.Address)
}

// fanOut invokes each provider in its own goroutine under a per-provider
// timeout. Each goroutine owns its outcome exclusively, so no locking is
// needed; results meet on a buffered channel. If the caller's deadline
// expires, whatever already arrived is kept and the laggards are recorded as
// timeouts. Outcomes are reordered by provider registration so the report is
// deterministic regardless of completion order.
func (e *Engine) fanOut(ctx context.Context, reqLog *logrus.Entry, active []providers.Provider, q activity.Query, origin geo.Coordinates) []activity.ProviderOutcome {
	if len(active) == 0 {
		return nil
	}

	type indexed struct {
		idx int
		o   activity.ProviderOutcome
	}

	results := make(chan indexed, len(active))
	var wg sync.WaitGroup
	for i, p := range active {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
			defer cancel()
			started := time.Now()
			o := p.Search(pctx, q, origin)
			reqLog.WithFields(logrus.Fields{
				"provider": p.Name(),
				"status":   o.Status,
				"count":    len(o.Activities),
				"took":     time.Since(started).Round(time.Millisecond),
			}).Debug("provider finished")
			results <- indexed{idx: i, o: o}
		}(i, p)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make(map[int]activity.ProviderOutcome, len(active))
collect:
	for range active {
		select {
		case r, ok := <-results:
			if !ok {
				break collect
			}
			collected[r.idx] = r.o
		case <-ctx.Done():
			break collect
		}
	}

	// Report in registration order; completion order never shows through.
	outcomes := make([]activity.ProviderOutcome, 0, len(active))
	for i, p := range active {
		if o, ok := collected[i]; ok {
			outcomes = append(outcomes, o)
			continue
		}
		outcomes = append(outcomes, providers.ErrorOutcome(p.Name(), "timeout"))
	}
	return outcomes
}

// checkFatal decides whether anything usable came back.
func (e *Engine) checkFatal(outcomes []activity.ProviderOutcome, resErr error) error {
	if len(outcomes) == 0 {
		details := map[activity.Source]string{}
		if resErr != nil {
			details["resolver"] = resErr.Error()
		}
		return &AggregationError{Details: details}
	}
	for _, o := range outcomes {
		if o.Status != activity.StatusError {
			return nil
		}
	}
	details := make(map[activity.Source]string, len(outcomes))
	for _, o := range outcomes {
		details[o.Provider] = o.ErrorDetail
	}
	return &AggregationError{Details: details}
}
