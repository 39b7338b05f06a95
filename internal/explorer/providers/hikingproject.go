package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// HikingProjectProvider implements explorer.Fetcher with the Hiking Project trail search.
type HikingProjectProvider struct {
	httpProvider
	apiKey      string
	maxDistance int // miles
}

func NewHikingProjectProvider(client *http.Client, apiKey string) *HikingProjectProvider {
	return &HikingProjectProvider{
		httpProvider: newHTTPProvider("hikingproject", "https://www.hikingproject.com/data/get-trails", client),
		apiKey:       apiKey,
		maxDistance:  10,
	}
}

func (p *HikingProjectProvider) Fetch(ctx context.Context, loc explorer.Location) ([]explorer.Trail, error) {
	if p.apiKey == "" {
		return nil, p.unavailable(errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", loc.Latitude))
		values.Set("lon", fmt.Sprintf("%f", loc.Longitude))
		values.Set("maxDistance", fmt.Sprintf("%d", p.maxDistance))
		values.Set("key", p.apiKey)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		Trails []struct {
			Name            string  `json:"name"`
			Location        string  `json:"location"`
			Length          float64 `json:"length"`
			Stars           float64 `json:"stars"`
			StarVotes       int     `json:"starVotes"`
			Summary         string  `json:"summary"`
			URL             string  `json:"url"`
			ConditionStatus string  `json:"conditionStatus"`
			ConditionDate   string  `json:"conditionDate"` // "2006-01-02 15:04:05"
		} `json:"trails"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return nil, err
	}

	trails := make([]explorer.Trail, 0, len(payload.Trails))
	for _, tr := range payload.Trails {
		date, clock, _ := strings.Cut(tr.ConditionDate, " ")
		trails = append(trails, explorer.Trail{
			Name:          tr.Name,
			Location:      tr.Location,
			Length:        tr.Length,
			Stars:         tr.Stars,
			StarVotes:     tr.StarVotes,
			Summary:       tr.Summary,
			TrailURL:      tr.URL,
			Conditions:    tr.ConditionStatus,
			ConditionDate: date,
			ConditionTime: clock,
		})
	}
	return trails, nil
}
