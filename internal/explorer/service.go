package explorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Service resolves locations and serves every cached category for them.
type Service struct {
	locations  *LocationResolver
	weather    *Cache[Weather]
	businesses *Cache[Business]
	movies     *Cache[Movie]
	meetups    *Cache[Meetup]
	trails     *Cache[Trail]
	log        *logrus.Entry
}

// NewService wires one cache per category from stores and providers.
func NewService(stores Stores, providers Providers, opts ...Option) *Service {
	o := newOptions(opts)
	return &Service{
		locations:  NewLocationResolver(stores.Locations, providers.Geocoder, opts...),
		weather:    NewCache(CategoryWeather, stores.Weather, providers.Weather, opts...),
		businesses: NewCache(CategoryBusinesses, stores.Businesses, providers.Businesses, opts...),
		movies:     NewCache(CategoryMovies, stores.Movies, providers.Movies, opts...),
		meetups:    NewCache(CategoryMeetups, stores.Meetups, providers.Meetups, opts...),
		trails:     NewCache(CategoryTrails, stores.Trails, providers.Trails, opts...),
		log:        o.logger.WithField("component", "service"),
	}
}

// Location resolves search text to a stored location.
func (s *Service) Location(ctx context.Context, query string) (Location, error) {
	return s.locations.Resolve(ctx, query)
}

// Weather returns the daily forecast for loc.
func (s *Service) Weather(ctx context.Context, loc Location) ([]Weather, error) {
	return s.weather.Resolve(ctx, loc)
}

// Businesses returns businesses near loc.
func (s *Service) Businesses(ctx context.Context, loc Location) ([]Business, error) {
	return s.businesses.Resolve(ctx, loc)
}

// Movies returns movies matching loc's search text.
func (s *Service) Movies(ctx context.Context, loc Location) ([]Movie, error) {
	return s.movies.Resolve(ctx, loc)
}

// Meetups returns upcoming meetups near loc.
func (s *Service) Meetups(ctx context.Context, loc Location) ([]Meetup, error) {
	return s.meetups.Resolve(ctx, loc)
}

// Trails returns hiking trails near loc.
func (s *Service) Trails(ctx context.Context, loc Location) ([]Trail, error) {
	return s.trails.Resolve(ctx, loc)
}

// Warm resolves query and every category for it so that later requests hit the cache.
// Category failures do not stop the remaining categories; they are returned joined.
func (s *Service) Warm(ctx context.Context, query string) error {
	loc, err := s.Location(ctx, query)
	if err != nil {
		return fmt.Errorf("resolve location %q: %w", query, err)
	}

	warmers := []struct {
		category Category
		resolve  func(context.Context, Location) error
	}{
		{CategoryWeather, func(ctx context.Context, l Location) error { _, err := s.Weather(ctx, l); return err }},
		{CategoryBusinesses, func(ctx context.Context, l Location) error { _, err := s.Businesses(ctx, l); return err }},
		{CategoryMovies, func(ctx context.Context, l Location) error { _, err := s.Movies(ctx, l); return err }},
		{CategoryMeetups, func(ctx context.Context, l Location) error { _, err := s.Meetups(ctx, l); return err }},
		{CategoryTrails, func(ctx context.Context, l Location) error { _, err := s.Trails(ctx, l); return err }},
	}

	var errs []error
	for _, w := range warmers {
		if err := w.resolve(ctx, loc); err != nil {
			s.log.WithError(err).Warnf("[Service] Warming %s for %q failed", w.category, query)
			errs = append(errs, fmt.Errorf("%s: %w", w.category, err))
		}
	}
	return errors.Join(errs...)
}
