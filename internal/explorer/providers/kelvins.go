package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/city-explorer/internal/common"
	"github.com/i474232898/city-explorer/internal/explorer"
)

// KelvinsGeocoder implements explorer.Geocoder on top of github.com/kelvins/geocoder,
// which also talks to Google but exposes no context or HTTP client. Calls are
// abandoned, not cancelled, when ctx ends.
type KelvinsGeocoder struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewKelvinsGeocoder sets the package-level API key of the geocoder library.
func NewKelvinsGeocoder(apiKey string) *KelvinsGeocoder {
	geocoder.ApiKey = apiKey
	return &KelvinsGeocoder{
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (p *KelvinsGeocoder) Name() string {
	return "kelvins-geocoder"
}

func (p *KelvinsGeocoder) Geocode(ctx context.Context, query string) (explorer.Location, error) {
	type result struct {
		loc explorer.Location
		err error
	}

	done := make(chan result, 1)
	go func() {
		loc, err := p.lookup(query)
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return explorer.Location{}, fmt.Errorf("%w: %s: %w", explorer.ErrProviderUnavailable, p.Name(), ctx.Err())
	case r := <-done:
		return r.loc, r.err
	}
}

func (p *KelvinsGeocoder) lookup(query string) (explorer.Location, error) {
	point, err := p.geocode(geocoder.Address{City: query})
	if err != nil {
		if common.ContainsAnyFold(err.Error(), "ZERO_RESULTS", "no results") {
			return explorer.Location{}, fmt.Errorf("%w: no geocoding results for %q", explorer.ErrProviderEmpty, query)
		}
		return explorer.Location{}, fmt.Errorf("%w: %s: %w", explorer.ErrProviderUnavailable, p.Name(), err)
	}

	// The forward lookup only yields coordinates; the reverse lookup supplies
	// a display address. Fall back to the search text if it fails.
	formatted := query
	if addrs, err := p.reverse(point); err == nil && len(addrs) > 0 && addrs[0].FormattedAddress != "" {
		formatted = addrs[0].FormattedAddress
	}

	return explorer.Location{
		SearchQuery:    query,
		FormattedQuery: formatted,
		Latitude:       point.Latitude,
		Longitude:      point.Longitude,
	}, nil
}
