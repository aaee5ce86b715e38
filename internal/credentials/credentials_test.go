package credentials

import (
	"strings"
	"testing"
)

func TestStaticStore(t *testing.T) {
	store := StaticStore{"ticketmaster": "tm-key-123"}

	key, err := store.APIKey("Ticketmaster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "tm-key-123" {
		t.Fatalf("got %q", key)
	}

	_, err = store.APIKey("googleplaces")
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if strings.Contains(err.Error(), "tm-key-123") {
		t.Fatal("error messages must never echo key material")
	}
}
