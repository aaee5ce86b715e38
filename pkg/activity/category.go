package activity

import "strings"

// Category is the unified activity category shared by all providers.
type Category string

const (
	CategoryMusic      Category = "music"
	CategorySports     Category = "sports"
	CategoryArts       Category = "arts"
	CategoryFilm       Category = "film"
	CategoryFood       Category = "food"
	CategoryNightlife  Category = "nightlife"
	CategoryOutdoors   Category = "outdoors"
	CategoryCulture    Category = "culture"
	CategoryShopping   Category = "shopping"
	CategoryWellness   Category = "wellness"
	CategoryAttraction Category = "attraction"
	CategoryLodging    Category = "lodging"
	CategoryOther      Category = "other"
)

// unificationMap is the source of truth for category normalization.
// It groups raw, provider-specific category strings (Ticketmaster segment
// names, Google place types, and common aliases) under a unified category.
var unificationMap = map[Category][]string{
	CategoryMusic:      {"music", "concert", "concerts"},
	CategorySports:     {"sports", "sport", "stadium"},
	CategoryArts:       {"arts & theatre", "arts", "theatre", "theater", "dance", "art_gallery", "gallery"},
	CategoryFilm:       {"film", "movie_theater", "cinema", "movies"},
	CategoryFood:       {"food", "restaurant", "restaurants", "cafe", "coffee", "bakery"},
	CategoryNightlife:  {"night_club", "club", "bar", "pub", "nightlife"},
	CategoryOutdoors:   {"park", "parks", "hiking", "hiking_area", "trail", "campground", "outdoors"},
	CategoryCulture:    {"museum", "museums", "library", "culture"},
	CategoryShopping:   {"shopping", "shopping_mall", "mall", "store", "book_store"},
	CategoryWellness:   {"spa", "gym", "fitness", "wellness"},
	CategoryAttraction: {"tourist_attraction", "attraction", "amusement_park", "zoo", "aquarium", "point_of_interest"},
	CategoryLodging:    {"lodging", "hotel"},
	CategoryOther:      {"other", "miscellaneous", "undefined", "establishment"},
}

// categoryIndex is a reverse map generated from unificationMap for lookups.
var categoryIndex map[string]Category

func init() {
	categoryIndex = make(map[string]Category)
	for unified, raws := range unificationMap {
		for _, raw := range raws {
			categoryIndex[raw] = unified
		}
	}
}

// NormalizeCategory maps a raw provider category string onto the unified set.
// Unknown strings fall back to CategoryOther rather than failing the entry.
func NormalizeCategory(raw string) Category {
	catLower := strings.ToLower(strings.TrimSpace(raw))
	if catLower == "" {
		return CategoryOther
	}
	if unified, ok := categoryIndex[catLower]; ok {
		return unified
	}
	return CategoryOther
}

// KnownCategory reports whether c is part of the unified set.
func KnownCategory(c Category) bool {
	_, ok := unificationMap[c]
	return ok
}
