// Package power fetches daily point observations from the NASA POWER API.
package power

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lox/paradecast/internal/httputil"
	"github.com/lox/paradecast/internal/metrics"
)

// Sentinel marks a missing observation in POWER responses. Samples equal to
// it must be discarded before any statistic is computed.
const Sentinel = -999.0

// Parameter identifiers understood by the daily point endpoint.
const (
	ParamTemp        = "T2M"
	ParamTempMax     = "T2M_MAX"
	ParamTempMin     = "T2M_MIN"
	ParamPrecip      = "PRECTOTCORR"
	ParamWind        = "WS10M"
	ParamHumidity    = "RH2M"
	ParamCloudAmount = "CLOUD_AMT"
	ParamUVIndex     = "ALLSKY_SFC_UV_INDEX"
)

const (
	defaultBaseURL = "https://power.larc.nasa.gov"
	dailyPath      = "/api/temporal/daily/point"
	dateLayout     = "20060102"
)

// PayloadCache stores raw provider responses keyed by request shape, so a
// repeated query does not re-fetch a decade of dailies.
type PayloadCache interface {
	GetPayload(key string) ([]byte, bool, error)
	PutPayload(key string, body []byte) error
}

// Client talks to the POWER daily point endpoint. A circuit breaker guards
// the upstream: once it opens, calls fail fast and the caller degrades to
// its documented fallback behaviour.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	cache   PayloadCache
}

// NewClient builds a Client. cache may be nil to disable payload caching.
func NewClient(baseURL string, timeout time.Duration, cache PayloadCache) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  httputil.NewClientWithTimeout(timeout),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "nasa-power",
			Timeout: time.Minute,
		}),
		cache: cache,
	}
}

// BreakerState reports the circuit breaker state ("closed", "half-open"
// or "open") for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// DailyData is a per-parameter map of yyyymmdd date keys to values,
// sentinel values included as returned by the provider.
type DailyData struct {
	Parameters map[string]map[string]float64
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// FetchDaily requests the given parameters for one coordinate over an
// inclusive date range.
func (c *Client) FetchDaily(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*DailyData, error) {
	query := url.Values{
		"parameters": {strings.Join(params, ",")},
		"community":  {"RE"},
		"longitude":  {strconv.FormatFloat(lon, 'f', 4, 64)},
		"latitude":   {strconv.FormatFloat(lat, 'f', 4, 64)},
		"start":      {start.Format(dateLayout)},
		"end":        {end.Format(dateLayout)},
		"format":     {"JSON"},
	}
	reqURL := c.baseURL + dailyPath + "?" + query.Encode()
	cacheKey := cacheKey(params, lat, lon, start, end)

	body, ok := c.cachedPayload(cacheKey)
	if !ok {
		fetched, err := c.fetch(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		body = fetched
		if c.cache != nil {
			if err := c.cache.PutPayload(cacheKey, body); err != nil {
				log.Printf("power payload cache write: %v", err)
			}
		}
	}

	var data powerResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if data.Properties.Parameter == nil {
		return nil, fmt.Errorf("response missing parameter data")
	}

	return &DailyData{Parameters: data.Properties.Parameter}, nil
}

func (c *Client) cachedPayload(key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.GetPayload(key)
	if err != nil {
		log.Printf("power payload cache read: %v", err)
		return nil, false
	}
	if ok {
		metrics.CacheRequestsTotal.WithLabelValues("power", "hit").Inc()
		return body, true
	}
	metrics.CacheRequestsTotal.WithLabelValues("power", "miss").Inc()
	return nil, false
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	started := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch daily: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("fetch daily: status %d: %s", resp.StatusCode, string(b))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	})
	metrics.PowerAPILatency.WithLabelValues("daily").Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.PowerAPICallsTotal.WithLabelValues("daily", "error").Inc()
		return nil, err
	}
	metrics.PowerAPICallsTotal.WithLabelValues("daily", "ok").Inc()
	return result.([]byte), nil
}

func cacheKey(params []string, lat, lon float64, start, end time.Time) string {
	return fmt.Sprintf("%s|%.4f,%.4f|%s|%s",
		strings.Join(params, ","), lat, lon, start.Format(dateLayout), end.Format(dateLayout))
}

// Series returns the parameter's values in date order with sentinel values
// removed. A missing parameter yields an empty slice.
func (d *DailyData) Series(param string) []float64 {
	byDate := d.Parameters[param]
	if len(byDate) == 0 {
		return nil
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	values := make([]float64, 0, len(dates))
	for _, date := range dates {
		if v := byDate[date]; v != Sentinel {
			values = append(values, v)
		}
	}
	return values
}

// SeriesByYear groups the parameter's valid values by calendar year.
func (d *DailyData) SeriesByYear(param string) map[int][]float64 {
	byYear := make(map[int][]float64)
	for date, v := range d.Parameters[param] {
		if v == Sentinel || len(date) < 4 {
			continue
		}
		year, err := strconv.Atoi(date[:4])
		if err != nil {
			continue
		}
		byYear[year] = append(byYear[year], v)
	}
	return byYear
}
