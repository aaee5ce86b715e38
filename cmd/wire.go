package cmd

import (
	"context"
	"time"

	"github.com/spf13/viper"

	"github.com/planscope/planscope/internal/credentials"
	"github.com/planscope/planscope/internal/utils"
	"github.com/planscope/planscope/pkg/engine"
	"github.com/planscope/planscope/pkg/geo"
	"github.com/planscope/planscope/pkg/providers"
	"github.com/planscope/planscope/pkg/providers/googleplaces"
	"github.com/planscope/planscope/pkg/providers/ticketmaster"
)

// buildEngine wires the resolver, providers and options from config.
// Providers without a configured API key are left out with a warning; the
// engine still runs with whatever remains.
func buildEngine(maxResults int, timeout time.Duration) *engine.Engine {
	creds := credentials.FromViper()

	var provs []providers.Provider
	if key, err := creds.APIKey("ticketmaster"); err != nil {
		utils.Log.Warn(err)
	} else {
		provs = append(provs, ticketmaster.New(key, nil))
	}

	placesKey, placesErr := creds.APIKey("googleplaces")
	if placesErr != nil {
		utils.Log.Warn(placesErr)
	} else {
		provs = append(provs, googleplaces.New(placesKey, nil))
	}

	if len(provs) == 0 {
		utils.Log.Fatal("No providers configured; nothing to search")
	}

	var resolver geo.Resolver
	if placesErr != nil {
		// Geocoding shares the Places key. Without it, coordinate
		// queries still work and address queries fall back to
		// address-capable providers.
		resolver = unavailableResolver{}
	} else {
		var store *geo.Store
		if path := viper.GetString("cache.path"); path != "" {
			var err error
			store, err = geo.OpenStore(path)
			if err != nil {
				utils.Log.Warnf("Could not open geocode cache at %s, continuing without it", path)
				store = nil
			}
		}
		resolver = geo.NewCachedResolver(geo.NewGoogleResolver(placesKey, nil), geo.DefaultCacheSize, store)
	}

	return engine.New(resolver, provs, engine.Options{
		ProviderTimeout: timeout,
		MaxResults:      maxResults,
	})
}

type unavailableResolver struct{}

func (unavailableResolver) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	return geo.Coordinates{}, &geo.ResolutionError{Address: address, Reason: "no geocoding key configured"}
}
