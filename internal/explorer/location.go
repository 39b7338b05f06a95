package explorer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// LocationResolver maps search text to a stored Location, geocoding it on first use.
// Stored locations never expire.
type LocationResolver struct {
	store    LocationStore
	geocoder Geocoder
	opts     options
	log      *logrus.Entry
	flight   singleflight.Group
}

// NewLocationResolver creates a resolver backed by store and geocoder.
func NewLocationResolver(store LocationStore, geocoder Geocoder, opts ...Option) *LocationResolver {
	o := newOptions(opts)
	return &LocationResolver{
		store:    store,
		geocoder: geocoder,
		opts:     o,
		log:      o.logger.WithField("component", "location"),
	}
}

// Resolve returns the Location stored for searchQuery, creating it when absent.
func (r *LocationResolver) Resolve(ctx context.Context, searchQuery string) (Location, error) {
	if strings.TrimSpace(searchQuery) == "" {
		return Location{}, ErrInvalidQuery
	}

	// The shared call outlives a cancelled caller so that joined callers
	// still get the location.
	ch := r.flight.DoChan(searchQuery, func() (interface{}, error) {
		return r.resolve(context.WithoutCancel(ctx), searchQuery)
	})

	select {
	case <-ctx.Done():
		return Location{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Location{}, res.Err
		}
		return res.Val.(Location), nil
	}
}

func (r *LocationResolver) resolve(ctx context.Context, searchQuery string) (Location, error) {
	loc, err := r.store.FindLocation(ctx, searchQuery)
	if err == nil {
		r.log.Debugf("[Location] Hit for %q (id %d)", searchQuery, loc.ID)
		return loc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		err = storeFailure(err)
		r.log.WithError(err).Errorf("[Location] Failed to look up %q", searchQuery)
		return Location{}, err
	}

	geo, err := callProvider(ctx, r.opts, r.geocoder.Name(), func(ctx context.Context) (Location, error) {
		return r.geocoder.Geocode(ctx, searchQuery)
	})
	if err != nil {
		r.log.WithError(err).Errorf("[Location] Geocoding %q failed", searchQuery)
		return Location{}, err
	}

	loc = Location{
		SearchQuery:    searchQuery,
		FormattedQuery: geo.FormattedQuery,
		Latitude:       geo.Latitude,
		Longitude:      geo.Longitude,
		CreatedAt:      r.opts.now().UTC().Truncate(time.Microsecond),
	}

	created, err := r.store.CreateLocation(ctx, loc)
	if errors.Is(err, ErrLocationExists) {
		// Another writer created the row first; its row is canonical.
		r.log.Infof("[Location] %q was created concurrently, reading stored row", searchQuery)
		existing, findErr := r.store.FindLocation(ctx, searchQuery)
		if findErr != nil {
			findErr = storeFailure(findErr)
			r.log.WithError(findErr).Errorf("[Location] Failed to re-read %q", searchQuery)
			return Location{}, findErr
		}
		return existing, nil
	}
	if err != nil {
		err = storeFailure(err)
		r.log.WithError(err).Errorf("[Location] Failed to store %q", searchQuery)
		return Location{}, err
	}

	r.log.Infof("[Location] Stored %q as %q (id %d)", searchQuery, created.FormattedQuery, created.ID)
	return created, nil
}
