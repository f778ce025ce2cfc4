// Package climate is the historical weather aggregation and scoring engine:
// it reduces a decade of daily point samples into summaries, extreme-event
// probabilities, climate trends, and multi-location rankings.
package climate

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lox/paradecast/internal/geocode"
	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/power"
)

// Provider fetches daily point observations from the remote climate data
// source.
type Provider interface {
	FetchDaily(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*power.DailyData, error)
}

// Service wires the geocoder and provider into the computation pipeline.
// All state is per-request; the service itself is safe for concurrent use.
type Service struct {
	resolver geocode.Resolver
	provider Provider
	clock    clockwork.Clock
	workers  int
}

func NewService(resolver geocode.Resolver, provider Provider, clock clockwork.Clock, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		resolver: resolver,
		provider: provider,
		clock:    clock,
		workers:  workers,
	}
}

// Resolve geocodes a place name via the configured resolver.
func (s *Service) Resolve(ctx context.Context, name string) (models.Coordinates, error) {
	return s.resolver.Resolve(ctx, name)
}

// DefaultTrendYears returns the default analysis window: the ten complete
// calendar years preceding the current one.
func (s *Service) DefaultTrendYears() (startYear, endYear int) {
	endYear = s.clock.Now().Year() - 1
	return endYear - 9, endYear
}
