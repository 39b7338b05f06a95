package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// MeetupProvider implements explorer.Fetcher with Meetup's upcoming events search.
type MeetupProvider struct {
	httpProvider
	apiKey string
	page   int
}

func NewMeetupProvider(client *http.Client, apiKey string) *MeetupProvider {
	return &MeetupProvider{
		httpProvider: newHTTPProvider("meetup", "https://api.meetup.com/find/upcoming_events", client),
		apiKey:       apiKey,
		page:         20,
	}
}

func (p *MeetupProvider) Fetch(ctx context.Context, loc explorer.Location) ([]explorer.Meetup, error) {
	if p.apiKey == "" {
		return nil, p.unavailable(errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("sign", "true")
		values.Set("photo-host", "public")
		values.Set("page", fmt.Sprintf("%d", p.page))
		if loc.Latitude != 0 || loc.Longitude != 0 {
			values.Set("lat", fmt.Sprintf("%f", loc.Latitude))
			values.Set("lon", fmt.Sprintf("%f", loc.Longitude))
		} else {
			values.Set("text", loc.SearchQuery)
		}
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		Events []struct {
			Link    string `json:"link"`
			Name    string `json:"name"`
			Created int64  `json:"created"` // unix millis
			Group   struct {
				Name string `json:"name"`
			} `json:"group"`
		} `json:"events"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return nil, err
	}

	meetups := make([]explorer.Meetup, 0, len(payload.Events))
	for _, e := range payload.Events {
		var created string
		if e.Created > 0 {
			created = time.UnixMilli(e.Created).UTC().Format(displayDate)
		}
		meetups = append(meetups, explorer.Meetup{
			Link:         e.Link,
			Name:         e.Name,
			CreationDate: created,
			Host:         e.Group.Name,
		})
	}
	return meetups, nil
}
