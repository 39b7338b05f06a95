package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// displayDate is the day format used in weather and meetup responses.
const displayDate = "Mon Jan 02 2006"

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("api key is not configured")
)

// httpProvider holds what every upstream adapter needs: a shared client and
// its own circuit breaker. Requests are never retried.
type httpProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func newHTTPProvider(name, baseURL string, client *http.Client) httpProvider {
	return httpProvider{
		name:    name,
		baseURL: baseURL,
		client:  client,
		circuit: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// Name returns the provider name used in logs and metrics.
func (p httpProvider) Name() string {
	return p.name
}

// getJSON executes the request built by buildRequest through the circuit
// breaker and decodes a 2xx JSON body into dst. Every failure is wrapped in
// explorer.ErrProviderUnavailable.
func (p httpProvider) getJSON(ctx context.Context, buildRequest func() (*http.Request, error), dst any) error {
	if p.client == nil {
		return p.unavailable(errNoHTTPClient)
	}

	req, err := buildRequest()
	if err != nil {
		return p.unavailable(err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	_, err = p.circuit.Execute(func() (interface{}, error) {
		resp, execErr := p.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		if decErr := json.NewDecoder(resp.Body).Decode(dst); decErr != nil {
			return nil, fmt.Errorf("decode response: %w", decErr)
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return p.unavailable(fmt.Errorf("%w: %v", errCircuitOpen, err))
	}
	if err != nil {
		return p.unavailable(err)
	}
	return nil
}

func (p httpProvider) unavailable(err error) error {
	return fmt.Errorf("%w: %s: %w", explorer.ErrProviderUnavailable, p.name, err)
}
