package climate

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/scoring"
)

// ErrNoLocations means every candidate location failed to resolve.
var ErrNoLocations = errors.New("no locations could be resolved")

// CompareLocations scores each candidate location for the date and activity
// and ranks them. Locations that fail to resolve are skipped; the call fails
// only when none survive. Ties keep input order (stable sort).
func (s *Service) CompareLocations(ctx context.Context, locations []string, date time.Time, activity string) (models.ComparisonResult, error) {
	results := make([]*models.LocationResult, len(locations))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, location := range locations {
		wg.Add(1)
		go func(i int, location string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			coords, err := s.resolver.Resolve(ctx, location)
			if err != nil {
				log.Printf("compare: skipping %q: %v", location, err)
				return
			}

			summary := s.WeatherSummary(ctx, coords.Latitude, coords.Longitude, date)
			probs := Probabilities(summary)

			results[i] = &models.LocationResult{
				Location:      location,
				Score:         scoring.Score(summary, activity),
				WeatherData:   summary,
				Probabilities: probs,
			}
		}(i, location)
	}
	wg.Wait()

	ranked := make([]models.LocationResult, 0, len(locations))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}
	if len(ranked) == 0 {
		return models.ComparisonResult{}, ErrNoLocations
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	return models.ComparisonResult{
		BestLocation:   ranked[0].Location,
		ComparisonData: ranked,
		Activity:       activity,
		Date:           date.Format("2006-01-02"),
	}, nil
}
