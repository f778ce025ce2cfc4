package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PowerAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paradecast_power_api_calls_total",
			Help: "Total NASA POWER API calls",
		},
		[]string{"endpoint", "status"},
	)

	PowerAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paradecast_power_api_latency_seconds",
			Help:    "NASA POWER API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	GeocodeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paradecast_geocode_lookups_total",
			Help: "Total geocoding lookups by outcome",
		},
		[]string{"outcome"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paradecast_cache_requests_total",
			Help: "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paradecast_http_requests_total",
			Help: "HTTP requests served by route and status",
		},
		[]string{"route", "status"},
	)

	FallbackSummariesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paradecast_fallback_summaries_total",
			Help: "Weather summaries served from fallback constants",
		},
	)
)
