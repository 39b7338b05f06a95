package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// YelpProvider implements explorer.Fetcher with the Yelp Fusion business search.
type YelpProvider struct {
	httpProvider
	apiKey string
}

func NewYelpProvider(client *http.Client, apiKey string) *YelpProvider {
	return &YelpProvider{
		httpProvider: newHTTPProvider("yelp", "https://api.yelp.com/v3/businesses/search", client),
		apiKey:       apiKey,
	}
}

func (p *YelpProvider) Fetch(ctx context.Context, loc explorer.Location) ([]explorer.Business, error) {
	if p.apiKey == "" {
		return nil, p.unavailable(errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		// Yelp accepts either free text or coordinates; prefer the user's text.
		if loc.SearchQuery != "" {
			values.Set("location", loc.SearchQuery)
		} else {
			values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
			values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		}

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		return req, nil
	}

	var payload struct {
		Businesses []struct {
			Name     string  `json:"name"`
			ImageURL string  `json:"image_url"`
			Price    string  `json:"price"`
			Rating   float64 `json:"rating"`
			URL      string  `json:"url"`
		} `json:"businesses"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return nil, err
	}

	businesses := make([]explorer.Business, 0, len(payload.Businesses))
	for _, b := range payload.Businesses {
		businesses = append(businesses, explorer.Business{
			Name:     b.Name,
			ImageURL: b.ImageURL,
			Price:    b.Price,
			Rating:   b.Rating,
			URL:      b.URL,
		})
	}
	return businesses, nil
}
