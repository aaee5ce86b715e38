// Package credentials supplies provider API keys to the engine wiring.
// Values come from the viper config (file or environment) and are never
// logged or embedded in error messages.
package credentials

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store hands out API keys by provider name.
type Store interface {
	APIKey(provider string) (string, error)
}

// ViperStore reads keys from viper under "<provider>.apikey".
type ViperStore struct{}

func FromViper() *ViperStore {
	return &ViperStore{}
}

func (s *ViperStore) APIKey(provider string) (string, error) {
	key := viper.GetString(strings.ToLower(provider) + ".apikey")
	if key == "" {
		// Name the missing config key; never echo values here.
		return "", fmt.Errorf("no API key configured: set %s.apikey in the config file or %s_APIKEY in the environment",
			strings.ToLower(provider), strings.ToUpper(provider))
	}
	return key, nil
}

// StaticStore is a fixed key map, used by tests and library consumers.
type StaticStore map[string]string

func (s StaticStore) APIKey(provider string) (string, error) {
	key, ok := s[strings.ToLower(provider)]
	if !ok || key == "" {
		return "", fmt.Errorf("no API key configured for %s", strings.ToLower(provider))
	}
	return key, nil
}
