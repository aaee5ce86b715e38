package ticketmaster

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/planscope/planscope/internal/utils"
	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/geo"
	"github.com/planscope/planscope/pkg/providers"
	"github.com/planscope/planscope/pkg/whttp"
)

const (
	searchEndpoint = "https://app.ticketmaster.com/discovery/v2/events.json"
	eventEndpoint  = "https://app.ticketmaster.com/discovery/v2/events/"

	// maxPageSize caps how many raw events one search may request.
	maxPageSize = 50
	// defaultRadiusKm is used when the query sets no radius.
	defaultRadiusKm = 50
)

// Client adapts the Ticketmaster Discovery API to the Provider interface.
type Client struct {
	apiKey string
	http   *retryablehttp.Client
}

// New builds a Ticketmaster provider for the given API key. A nil client
// uses the shared default.
func New(apiKey string, client *retryablehttp.Client) *Client {
	return &Client{apiKey: apiKey, http: client}
}

func (c *Client) Name() activity.Source { return activity.SourceEvent }

// NeedsCoordinates is false: the Discovery API accepts a city string, so the
// adapter can proceed when geocoding fails.
func (c *Client) NeedsCoordinates() bool { return false }

func (c *Client) Search(ctx context.Context, q activity.Query, origin geo.Coordinates) activity.ProviderOutcome {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("size", strconv.Itoa(maxPageSize))
	params.Set("unit", "km")

	radius := int(q.RadiusKm)
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	params.Set("radius", strconv.Itoa(radius))

	if origin.Valid() {
		params.Set("latlong", origin.String())
	} else {
		params.Set("city", q.Address)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.DateFrom != nil {
		params.Set("startDateTime", q.DateFrom.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if q.DateTo != nil {
		// Pad the window by a day: the API misses same-day events at the
		// boundary. Local filtering trims the overshoot.
		params.Set("endDateTime", q.DateTo.AddDate(0, 0, 1).UTC().Format("2006-01-02T15:04:05Z"))
	}

	res, err := whttp.Send(ctx, &whttp.Request{URL: searchEndpoint, Params: params}, c.http)
	if err != nil {
		return providers.ErrorOutcome(c.Name(), providers.TransportDetail(ctx, err))
	}
	if res.StatusCode != 200 {
		return providers.ErrorOutcome(c.Name(), providers.StatusDetail(res.StatusCode))
	}

	acts, dropped := parseEvents(res.Body, time.Now())
	if dropped > 0 {
		utils.Log.Debugf("ticketmaster: dropped %d malformed events", dropped)
	}
	return providers.Outcome(c.Name(), acts, dropped)
}

// Lookup fetches a single event by id for calendar-link construction.
func (c *Client) Lookup(ctx context.Context, id string) (activity.Activity, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)

	res, err := whttp.Send(ctx, &whttp.Request{URL: eventEndpoint + url.PathEscape(id) + ".json", Params: params}, c.http)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("ticketmaster lookup: %s", providers.TransportDetail(ctx, err))
	}
	if res.StatusCode == 404 {
		return activity.Activity{}, providers.ErrNotFound
	}
	if res.StatusCode != 200 {
		return activity.Activity{}, fmt.Errorf("ticketmaster lookup: %s", providers.StatusDetail(res.StatusCode))
	}

	a, ok := parseEvent(gjson.Parse(res.Body), time.Now())
	if !ok {
		return activity.Activity{}, providers.ErrNotFound
	}
	return a, nil
}

func parseEvents(body string, fetchedAt time.Time) (acts []activity.Activity, dropped int) {
	for _, ev := range gjson.Get(body, "_embedded.events").Array() {
		a, ok := parseEvent(ev, fetchedAt)
		if !ok {
			dropped++
			continue
		}
		acts = append(acts, a)
	}
	return acts, dropped
}

// parseEvent maps one raw Discovery event onto the normalized model. Events
// missing an essential field (name, id, any location) are rejected; missing
// optional fields are simply left unset.
func parseEvent(ev gjson.Result, fetchedAt time.Time) (activity.Activity, bool) {
	name := ev.Get("name").Str
	id := ev.Get("id").Str
	if name == "" || id == "" {
		return activity.Activity{}, false
	}

	a := activity.Activity{
		Source:     activity.SourceEvent,
		ProviderID: id,
		Name:       name,
		Category:   activity.NormalizeCategory(ev.Get("classifications.0.segment.name").Str),
		URL:        ev.Get("url").Str,
		FetchedAt:  fetchedAt,
		RawRef:     ev.Raw,
	}

	venue := ev.Get("_embedded.venues.0")
	a.Location.Coords = geo.Coordinates{
		Lat: venue.Get("location.latitude").Float(),
		Lng: venue.Get("location.longitude").Float(),
	}
	a.Location.Address = venueAddress(venue)
	if !a.Location.Coords.Valid() && a.Location.Address == "" {
		return activity.Activity{}, false
	}

	if t, ok := parseStart(ev.Get("dates.start")); ok {
		a.StartTime = &t
	}
	if min := ev.Get("priceRanges.0.min"); min.Exists() {
		level := priceLevelFromAmount(min.Float())
		a.PriceLevel = &level
	}
	return a, true
}

func venueAddress(venue gjson.Result) string {
	name := venue.Get("name").Str
	line := venue.Get("address.line1").Str
	city := venue.Get("city.name").Str

	addr := ""
	for _, part := range []string{name, line, city} {
		if part == "" {
			continue
		}
		if addr != "" {
			addr += ", "
		}
		addr += part
	}
	return addr
}

// parseStart prefers the absolute dateTime; local date/time pairs are second
// choice and read as UTC, which is close enough for day-granular filtering.
func parseStart(start gjson.Result) (time.Time, bool) {
	if dt := start.Get("dateTime").Str; dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			return t.UTC(), true
		}
	}
	localDate := start.Get("localDate").Str
	if localDate == "" {
		return time.Time{}, false
	}
	localTime := start.Get("localTime").Str
	if localTime == "" {
		localTime = "00:00:00"
	}
	t, err := time.Parse("2006-01-02 15:04:05", localDate+" "+localTime)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// priceLevelFromAmount buckets a minimum ticket price onto the shared 0-4
// price scale used by the place provider.
func priceLevelFromAmount(min float64) activity.PriceLevel {
	switch {
	case min <= 0:
		return 0
	case min < 25:
		return 1
	case min < 75:
		return 2
	case min < 150:
		return 3
	default:
		return 4
	}
}
