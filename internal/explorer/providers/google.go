package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// GoogleGeocoder implements explorer.Geocoder with the Google Geocoding API.
type GoogleGeocoder struct {
	httpProvider
	apiKey string
}

func NewGoogleGeocoder(client *http.Client, apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		httpProvider: newHTTPProvider("google-geocode", "https://maps.googleapis.com/maps/api/geocode/json", client),
		apiKey:       apiKey,
	}
}

func (p *GoogleGeocoder) Geocode(ctx context.Context, query string) (explorer.Location, error) {
	if p.apiKey == "" {
		return explorer.Location{}, p.unavailable(errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("address", query)
		values.Set("key", p.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return explorer.Location{}, err
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return explorer.Location{}, fmt.Errorf("%w: no geocoding results for %q", explorer.ErrProviderEmpty, query)
	default:
		return explorer.Location{}, p.unavailable(fmt.Errorf("status %s: %s", payload.Status, payload.ErrorMessage))
	}
	if len(payload.Results) == 0 {
		return explorer.Location{}, fmt.Errorf("%w: no geocoding results for %q", explorer.ErrProviderEmpty, query)
	}

	first := payload.Results[0]
	return explorer.Location{
		SearchQuery:    query,
		FormattedQuery: first.FormattedAddress,
		Latitude:       first.Geometry.Location.Lat,
		Longitude:      first.Geometry.Location.Lng,
	}, nil
}
