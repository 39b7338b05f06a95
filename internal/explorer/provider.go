package explorer

import (
	"context"
)

// Geocoder turns free-form search text into a location.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) (Location, error)
}

// Fetcher abstracts an upstream source for one category (e.g. Yelp, TMDB, Open-Meteo).
// Implementations return normalized records; batch metadata is assigned by the cache.
type Fetcher[T any] interface {
	Name() string
	Fetch(ctx context.Context, loc Location) ([]T, error)
}

// LocationStore persists resolved locations.
type LocationStore interface {
	// FindLocation returns ErrNotFound when no row matches searchQuery.
	FindLocation(ctx context.Context, searchQuery string) (Location, error)
	// CreateLocation inserts loc and returns it with its generated ID. It returns
	// ErrLocationExists when a row with the same search query already exists.
	CreateLocation(ctx context.Context, loc Location) (Location, error)
}

// BatchStore persists the records of one category, grouped by location.
type BatchStore[T any] interface {
	Load(ctx context.Context, locationID int64) ([]T, error)
	Insert(ctx context.Context, rec T) error
	Evict(ctx context.Context, locationID int64) error
}

// Stores bundles the persistence capabilities the service needs.
type Stores struct {
	Locations  LocationStore
	Weather    BatchStore[Weather]
	Businesses BatchStore[Business]
	Movies     BatchStore[Movie]
	Meetups    BatchStore[Meetup]
	Trails     BatchStore[Trail]
}

// Providers bundles the upstream sources, one per category.
type Providers struct {
	Geocoder   Geocoder
	Weather    Fetcher[Weather]
	Businesses Fetcher[Business]
	Movies     Fetcher[Movie]
	Meetups    Fetcher[Meetup]
	Trails     Fetcher[Trail]
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T any] func(ctx context.Context, loc Location) ([]T, error)

func (f FetcherFunc[T]) Name() string {
	return "func"
}

func (f FetcherFunc[T]) Fetch(ctx context.Context, loc Location) ([]T, error) {
	return f(ctx, loc)
}

// GeocoderFunc adapts a function to the Geocoder interface.
type GeocoderFunc func(ctx context.Context, query string) (Location, error)

func (f GeocoderFunc) Name() string {
	return "func"
}

func (f GeocoderFunc) Geocode(ctx context.Context, query string) (Location, error) {
	return f(ctx, query)
}
