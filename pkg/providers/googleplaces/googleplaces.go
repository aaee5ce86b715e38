package googleplaces

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
	nearbyEndpoint  = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	detailsEndpoint = "https://maps.googleapis.com/maps/api/place/details/json"

	detailsFields = "name,place_id,geometry,formatted_address,website,url,rating,user_ratings_total,price_level,types"

	// defaultRadiusM is the nearby-search radius when the query sets none.
	defaultRadiusM = 5000
	maxRadiusM     = 50000
)

// typeForCategory maps unified categories onto Google Places types for
// provider-side narrowing. Narrowing is advisory; the engine re-filters.
var typeForCategory = map[activity.Category]string{
	activity.CategoryFood:       "restaurant",
	activity.CategoryNightlife:  "night_club",
	activity.CategoryOutdoors:   "park",
	activity.CategoryCulture:    "museum",
	activity.CategoryShopping:   "shopping_mall",
	activity.CategoryWellness:   "spa",
	activity.CategoryAttraction: "tourist_attraction",
	activity.CategoryFilm:       "movie_theater",
	activity.CategoryArts:       "art_gallery",
	activity.CategoryLodging:    "lodging",
	activity.CategorySports:     "stadium",
}

// Client adapts the Google Places API to the Provider interface.
type Client struct {
	apiKey string
	http   *retryablehttp.Client
}

// New builds a Places provider for the given API key. A nil client uses the
// shared default.
func New(apiKey string, client *retryablehttp.Client) *Client {
	return &Client{apiKey: apiKey, http: client}
}

func (c *Client) Name() activity.Source { return activity.SourcePlace }

// NeedsCoordinates is true: nearby search only takes a lat,lng center.
func (c *Client) NeedsCoordinates() bool { return true }

func (c *Client) Search(ctx context.Context, q activity.Query, origin geo.Coordinates) activity.ProviderOutcome {
	if !origin.Valid() {
		return providers.ErrorOutcome(c.Name(), "skipped: no resolved coordinates")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("location", origin.String())
	params.Set("radius", strconv.Itoa(radiusMeters(q.RadiusKm)))
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if t := searchType(q.Categories); t != "" {
		params.Set("type", t)
	}

	res, err := whttp.Send(ctx, &whttp.Request{URL: nearbyEndpoint, Params: params}, c.http)
	if err != nil {
		return providers.ErrorOutcome(c.Name(), providers.TransportDetail(ctx, err))
	}
	if res.StatusCode != 200 {
		return providers.ErrorOutcome(c.Name(), providers.StatusDetail(res.StatusCode))
	}

	switch status := gjson.Get(res.Body, "status").Str; status {
	case "OK", "ZERO_RESULTS":
	default:
		// The body's error_message may quote the request; report the
		// status code only.
		return providers.ErrorOutcome(c.Name(), "places status "+status)
	}

	acts, dropped := parsePlaces(res.Body, time.Now())
	if dropped > 0 {
		utils.Log.Debugf("googleplaces: dropped %d malformed places", dropped)
	}
	return providers.Outcome(c.Name(), acts, dropped)
}

// Lookup fetches full details for one place id.
func (c *Client) Lookup(ctx context.Context, id string) (activity.Activity, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("place_id", id)
	params.Set("fields", detailsFields)

	res, err := whttp.Send(ctx, &whttp.Request{URL: detailsEndpoint, Params: params}, c.http)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("places lookup: %s", providers.TransportDetail(ctx, err))
	}
	if res.StatusCode != 200 {
		return activity.Activity{}, fmt.Errorf("places lookup: %s", providers.StatusDetail(res.StatusCode))
	}

	switch status := gjson.Get(res.Body, "status").Str; status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return activity.Activity{}, providers.ErrNotFound
	default:
		return activity.Activity{}, fmt.Errorf("places lookup: status %s", status)
	}

	a, ok := parsePlace(gjson.Get(res.Body, "result"), time.Now())
	if !ok {
		return activity.Activity{}, providers.ErrNotFound
	}
	return a, nil
}

func radiusMeters(radiusKm float64) int {
	m := int(radiusKm * 1000)
	if m <= 0 {
		m = defaultRadiusM
	}
	if m > maxRadiusM {
		m = maxRadiusM
	}
	return m
}

// searchType picks the first requested category the API can narrow on.
func searchType(categories []activity.Category) string {
	for _, c := range categories {
		if t, ok := typeForCategory[c]; ok {
			return t
		}
	}
	return ""
}

func parsePlaces(body string, fetchedAt time.Time) (acts []activity.Activity, dropped int) {
	for _, p := range gjson.Get(body, "results").Array() {
		a, ok := parsePlace(p, fetchedAt)
		if !ok {
			dropped++
			continue
		}
		acts = append(acts, a)
	}
	return acts, dropped
}

// parsePlace maps one raw place onto the normalized model. place_id, name
// and a usable location are essential; everything else degrades to unset.
func parsePlace(p gjson.Result, fetchedAt time.Time) (activity.Activity, bool) {
	id := p.Get("place_id").Str
	name := p.Get("name").Str
	if id == "" || name == "" {
		return activity.Activity{}, false
	}

	a := activity.Activity{
		Source:     activity.SourcePlace,
		ProviderID: id,
		Name:       name,
		Category:   placeCategory(p.Get("types")),
		Rating:     p.Get("rating").Float(),
		RatingN:    int(p.Get("user_ratings_total").Int()),
		FetchedAt:  fetchedAt,
		RawRef:     p.Raw,
	}

	loc := p.Get("geometry.location")
	a.Location.Coords = geo.Coordinates{Lat: loc.Get("lat").Float(), Lng: loc.Get("lng").Float()}
	a.Location.Address = p.Get("vicinity").Str
	if a.Location.Address == "" {
		a.Location.Address = p.Get("formatted_address").Str
	}
	if !a.Location.Coords.Valid() && a.Location.Address == "" {
		return activity.Activity{}, false
	}

	if pl := p.Get("price_level"); pl.Exists() {
		level := activity.PriceLevel(pl.Int())
		a.PriceLevel = &level
	}

	a.URL = p.Get("website").Str
	if a.URL == "" {
		if u := p.Get("url").Str; u != "" {
			a.URL = u
		} else {
			a.URL = "https://www.google.com/maps/place/?q=place_id:" + url.QueryEscape(id)
		}
	}
	return a, true
}

// placeCategory scans the raw type list for the first one that unifies into
// a known category; bare "establishment"-only places end up as other.
func placeCategory(types gjson.Result) activity.Category {
	for _, t := range types.Array() {
		if c := activity.NormalizeCategory(t.Str); c != activity.CategoryOther {
			return c
		}
	}
	return activity.CategoryOther
}
