package climate

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/power"
	"github.com/lox/paradecast/internal/stats"
)

// Extreme-day thresholds for the yearly climate records.
const (
	extremeHeatDayC = 32.0
	extremeColdDayC = 5.0
	heavyRainDayMm  = 10.0
	minTrendYears   = 3
	yearsPerDecade  = 10
)

var trendParams = []string{power.ParamTemp, power.ParamPrecip}

// Trends fetches full-calendar-year daily data for each year in the
// inclusive range and fits linear trends over the yearly aggregates. Years
// whose fetch fails are omitted; with fewer than three data years the result
// reports insufficient data instead of failing.
func (s *Service) Trends(ctx context.Context, lat, lon float64, startYear, endYear int) models.TrendResult {
	records := s.fetchYearlyRecords(ctx, lat, lon, startYear, endYear)

	var tempYears, tempValues []float64
	for _, rec := range records {
		if rec.AvgTemp != nil {
			tempYears = append(tempYears, float64(rec.Year))
			tempValues = append(tempValues, *rec.AvgTemp)
		}
	}

	if len(tempYears) < minTrendYears {
		return models.TrendResult{
			TrendDirection: models.TrendInsufficientData,
			YearlyData:     records,
			Analysis:       models.TrendAnalysis{},
		}
	}

	tempSlope, _ := stats.LinearFit(tempYears, tempValues)

	// The precipitation fit runs against the 0-based position in the list of
	// years that have data, not the calendar year, so with gap years its
	// x-axis diverges from the temperature fit's.
	var precipIndex, precipValues []float64
	for _, rec := range records {
		if rec.TotalPrecip != nil {
			precipIndex = append(precipIndex, float64(len(precipIndex)))
			precipValues = append(precipValues, *rec.TotalPrecip)
		}
	}
	precipSlope, _ := stats.LinearFit(precipIndex, precipValues)

	direction := models.TrendDecreasing
	if tempSlope > 0 {
		direction = models.TrendIncreasing
	}

	return models.TrendResult{
		TrendDirection:     direction,
		TemperatureTrend:   tempSlope,
		PrecipitationTrend: precipSlope,
		YearlyData:         records,
		Analysis: models.TrendAnalysis{
			TempChangePerDecade:     tempSlope * yearsPerDecade,
			IncreasingExtremeEvents: increasingExtremes(records),
		},
	}
}

// fetchYearlyRecords pulls each year independently with bounded concurrency,
// skipping years whose fetch fails.
func (s *Service) fetchYearlyRecords(ctx context.Context, lat, lon float64, startYear, endYear int) []models.YearlyClimateRecord {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		records []models.YearlyClimateRecord
	)
	sem := make(chan struct{}, s.workers)

	for year := startYear; year <= endYear; year++ {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

			data, err := s.provider.FetchDaily(ctx, trendParams, lat, lon, start, end)
			if err != nil {
				log.Printf("trends (%.3f, %.3f): skipping year %d: %v", lat, lon, year, err)
				return
			}

			rec := yearlyRecord(year, data)
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
		}(year)
	}
	wg.Wait()

	sort.Slice(records, func(i, j int) bool { return records[i].Year < records[j].Year })
	return records
}

func yearlyRecord(year int, data *power.DailyData) models.YearlyClimateRecord {
	temps := data.Series(power.ParamTemp)
	precip := data.Series(power.ParamPrecip)

	rec := models.YearlyClimateRecord{Year: year}

	if len(temps) > 0 {
		avg := stats.Round2(stats.Mean(temps))
		rec.AvgTemp = &avg
	}
	if len(precip) > 0 {
		total := stats.Round2(stats.Sum(precip))
		rec.TotalPrecip = &total
	}

	for _, t := range temps {
		if t > extremeHeatDayC {
			rec.ExtremeHeatDays++
		}
		if t < extremeColdDayC {
			rec.ExtremeColdDays++
		}
	}
	for _, p := range precip {
		if p > heavyRainDayMm {
			rec.HeavyRainDays++
		}
	}
	return rec
}

// increasingExtremes compares extreme-heat-day totals between the last three
// and first three yearly records.
func increasingExtremes(records []models.YearlyClimateRecord) bool {
	if len(records) < minTrendYears {
		return false
	}
	var first, last int
	for _, rec := range records[:minTrendYears] {
		first += rec.ExtremeHeatDays
	}
	for _, rec := range records[len(records)-minTrendYears:] {
		last += rec.ExtremeHeatDays
	}
	return last > first
}
