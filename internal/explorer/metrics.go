package explorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeHit     = "hit"
	outcomeMiss    = "miss"
	outcomeRefresh = "refresh"
	outcomeError   = "error"
)

var (
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "city_explorer_cache_lookups_total",
			Help: "Cache lookups by category and outcome (hit, miss, refresh, error)",
		},
		[]string{"category", "outcome"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "city_explorer_provider_request_duration_seconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "status"},
	)
)

func providerStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
