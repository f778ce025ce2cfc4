// Package geocode resolves free-form place names to coordinates using the
// OpenStreetMap Nominatim service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/paradecast/internal/httputil"
	"github.com/lox/paradecast/internal/metrics"
	"github.com/lox/paradecast/internal/models"
)

// ErrNotFound means the service answered but had no match for the name.
// It is terminal: callers must propagate it, never substitute a location.
var ErrNotFound = errors.New("location not found")

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Resolver turns a place name into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, name string) (models.Coordinates, error)
}

// Client is a Nominatim client with an explicit retry policy: timeouts and
// 5xx responses are retried with exponential backoff up to MaxRetries,
// everything else fails immediately.
type Client struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	maxRetries uint64
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  "paradecast/1.0",
		client:     httputil.NewClientWithTimeout(timeout),
		maxRetries: uint64(maxRetries),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve geocodes a place name. ErrNotFound is returned when Nominatim has
// no match; transient failures are retried before surfacing.
func (c *Client) Resolve(ctx context.Context, name string) (models.Coordinates, error) {
	params := url.Values{
		"q":               {name},
		"format":          {"json"},
		"limit":           {"1"},
		"accept-language": {"en"},
	}
	reqURL := c.baseURL + "/search?" + params.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			// Transport errors (including timeouts) are worth retrying.
			return fmt.Errorf("geocode request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("geocode: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("geocode: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("error").Inc()
		return models.Coordinates{}, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("error").Inc()
		return models.Coordinates{}, fmt.Errorf("unmarshal: %w", err)
	}

	if len(results) == 0 {
		metrics.GeocodeLookupsTotal.WithLabelValues("not_found").Inc()
		return models.Coordinates{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}

	metrics.GeocodeLookupsTotal.WithLabelValues("ok").Inc()
	return models.Coordinates{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}
