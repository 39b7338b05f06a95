package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/city-explorer/internal/explorer"
)

const tmdbPosterBase = "https://image.tmdb.org/t/p/w200_and_h300_bestv2"

// TMDBProvider implements explorer.Fetcher by searching The Movie Database for
// titles matching the location's search text.
type TMDBProvider struct {
	httpProvider
	apiKey string
}

func NewTMDBProvider(client *http.Client, apiKey string) *TMDBProvider {
	return &TMDBProvider{
		httpProvider: newHTTPProvider("tmdb", "https://api.themoviedb.org/3/search/movie", client),
		apiKey:       apiKey,
	}
}

func (p *TMDBProvider) Fetch(ctx context.Context, loc explorer.Location) ([]explorer.Movie, error) {
	if p.apiKey == "" {
		return nil, p.unavailable(errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("api_key", p.apiKey)
		values.Set("query", loc.SearchQuery)
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		Results []struct {
			Title       string  `json:"title"`
			Overview    string  `json:"overview"`
			VoteAverage float64 `json:"vote_average"`
			VoteCount   int     `json:"vote_count"`
			PosterPath  string  `json:"poster_path"`
			Popularity  float64 `json:"popularity"`
			ReleaseDate string  `json:"release_date"`
		} `json:"results"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return nil, err
	}

	movies := make([]explorer.Movie, 0, len(payload.Results))
	for _, m := range payload.Results {
		var image string
		if m.PosterPath != "" {
			image = tmdbPosterBase + m.PosterPath
		}
		movies = append(movies, explorer.Movie{
			Title:        m.Title,
			Overview:     m.Overview,
			AverageVotes: m.VoteAverage,
			TotalVotes:   m.VoteCount,
			ImageURL:     image,
			Popularity:   m.Popularity,
			ReleasedOn:   m.ReleaseDate,
		})
	}
	return movies, nil
}
