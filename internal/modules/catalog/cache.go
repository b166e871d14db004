package catalog

import "safaribook/internal/pkg/cache"

const (
	kindHotels  = "hotels"
	kindSafaris = "safaris"
	kindCities  = "cities"
)

// listKey is "{kind}_{city}" with "all" for the unfiltered listing.
func listKey(kind, citySlug string) string {
	if citySlug == "" {
		citySlug = "all"
	}
	return kind + "_" + citySlug
}

// getOrLoad serves a listing from the store or loads and stores it.
// Failed loads are not cached, and neither are loads overtaken by a flush.
func getOrLoad[T any](store cache.Store, key string, load func() ([]T, error)) ([]T, error) {
	if v, ok := store.Get(key); ok {
		if rows, ok := v.([]T); ok {
			return rows, nil
		}
	}

	gen := store.Generation()
	rows, err := load()
	if err != nil {
		return nil, err
	}
	store.SetIfGeneration(key, rows, gen)
	return rows, nil
}
