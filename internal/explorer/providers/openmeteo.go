package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// OpenMeteoProvider implements explorer.Fetcher for daily forecasts from Open-Meteo.
// Open-Meteo does not require an API key.
type OpenMeteoProvider struct {
	httpProvider
	days int
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		httpProvider: newHTTPProvider("openmeteo", "https://api.open-meteo.com/v1/forecast", client),
		days:         8,
	}
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc explorer.Location) ([]explorer.Weather, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
		values.Set("timezone", "auto")
		values.Set("forecast_days", fmt.Sprintf("%d", p.days))
		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			WeatherCode []int     `json:"weathercode"`
			TempMax     []float64 `json:"temperature_2m_max"`
			TempMin     []float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}

	if err := p.getJSON(ctx, buildRequest, &payload); err != nil {
		return nil, err
	}

	daily := payload.Daily
	days := make([]explorer.Weather, 0, len(daily.Time))
	for i, day := range daily.Time {
		ts, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}

		forecast := describeWeatherCode(valueAt(daily.WeatherCode, i, -1))
		if i < len(daily.TempMax) && i < len(daily.TempMin) {
			forecast = fmt.Sprintf("%s, high %.0f°C, low %.0f°C", forecast, daily.TempMax[i], daily.TempMin[i])
		}

		days = append(days, explorer.Weather{
			Forecast: forecast,
			Time:     ts.Format(displayDate),
		})
	}
	return days, nil
}

// describeWeatherCode maps WMO weather interpretation codes to a short summary.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code >= 1 && code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return "Rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "Snow"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown conditions"
	}
}

func valueAt[T any](s []T, i int, def T) T {
	if i < len(s) {
		return s[i]
	}
	return def
}
