package geo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/planscope/planscope/pkg/whttp"
)

// ResolutionError means a free-text address could not be geocoded. Whether
// this is fatal depends on the caller: providers that accept a raw address
// can still proceed without coordinates.
type ResolutionError struct {
	Address string
	Reason  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q: %s", e.Address, e.Reason)
}

// Resolver converts a free-text location into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

const geocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleResolver geocodes through the Google Geocoding API.
type GoogleResolver struct {
	apiKey string
	client *retryablehttp.Client
}

// NewGoogleResolver builds a resolver for the given API key. A nil client
// uses the shared default.
func NewGoogleResolver(apiKey string, client *retryablehttp.Client) *GoogleResolver {
	return &GoogleResolver{apiKey: apiKey, client: client}
}

func (r *GoogleResolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", r.apiKey)

	res, err := whttp.Send(ctx, &whttp.Request{URL: geocodeEndpoint, Params: params}, r.client)
	if err != nil {
		// Error strings from the transport may embed the full request
		// URL, key included. Report only that the call failed.
		return Coordinates{}, &ResolutionError{Address: address, Reason: "geocoding request failed"}
	}
	if res.StatusCode != 200 {
		return Coordinates{}, &ResolutionError{Address: address, Reason: fmt.Sprintf("geocoding returned status %d", res.StatusCode)}
	}

	switch status := gjson.Get(res.Body, "status").Str; status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, &ResolutionError{Address: address, Reason: "no match"}
	default:
		return Coordinates{}, &ResolutionError{Address: address, Reason: "geocoding status " + status}
	}

	loc := gjson.Get(res.Body, "results.0.geometry.location")
	coords := Coordinates{
		Lat: loc.Get("lat").Float(),
		Lng: loc.Get("lng").Float(),
	}
	if !coords.Valid() {
		return Coordinates{}, &ResolutionError{Address: address, Reason: "no usable geometry in response"}
	}
	return coords, nil
}
