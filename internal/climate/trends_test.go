package climate

import (
	"context"
	"math"
	"testing"

	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/power"
)

// warmingProvider builds ten years of synthetic data with the yearly mean
// temperature rising by exactly 0.2°C per year.
func warmingProvider(startYear, endYear int) *fakeProvider {
	byYear := make(map[int]*power.DailyData)
	for year := startYear; year <= endYear; year++ {
		mean := 10 + 0.2*float64(year-startYear)
		byYear[year] = dailyData(year, map[string][]float64{
			power.ParamTemp:   {mean, mean, mean, mean},
			power.ParamPrecip: {1, 2, 3},
		})
	}
	return &fakeProvider{byYear: byYear}
}

func TestTrendsWarmingSeries(t *testing.T) {
	s := newTestService(warmingProvider(2014, 2023), nil)

	result := s.Trends(context.Background(), -36.79, 146.97, 2014, 2023)

	if result.TrendDirection != models.TrendIncreasing {
		t.Errorf("direction = %q, want increasing", result.TrendDirection)
	}
	if math.Abs(result.TemperatureTrend-0.2) > 0.001 {
		t.Errorf("temperature trend = %v, want ~0.2", result.TemperatureTrend)
	}
	if math.Abs(result.Analysis.TempChangePerDecade-2.0) > 0.01 {
		t.Errorf("change per decade = %v, want ~2.0", result.Analysis.TempChangePerDecade)
	}
	if len(result.YearlyData) != 10 {
		t.Errorf("yearly data = %d records, want 10", len(result.YearlyData))
	}
	for i, rec := range result.YearlyData {
		if i > 0 && rec.Year <= result.YearlyData[i-1].Year {
			t.Errorf("yearly data out of order at %d", i)
		}
		if rec.TotalPrecip == nil || *rec.TotalPrecip != 6 {
			t.Errorf("year %d total precip = %v, want 6", rec.Year, rec.TotalPrecip)
		}
	}
}

func TestTrendsSkipsFailedYears(t *testing.T) {
	provider := warmingProvider(2014, 2023)
	provider.errYear = map[int]bool{2017: true, 2020: true}
	s := newTestService(provider, nil)

	result := s.Trends(context.Background(), 0, 0, 2014, 2023)

	if len(result.YearlyData) != 8 {
		t.Fatalf("yearly data = %d records, want 8 after skipping failures", len(result.YearlyData))
	}
	for _, rec := range result.YearlyData {
		if rec.Year == 2017 || rec.Year == 2020 {
			t.Errorf("failed year %d present in results", rec.Year)
		}
	}
	if result.TrendDirection != models.TrendIncreasing {
		t.Errorf("direction = %q, want increasing despite gaps", result.TrendDirection)
	}
}

func TestTrendsInsufficientData(t *testing.T) {
	provider := warmingProvider(2014, 2023)
	provider.errYear = map[int]bool{}
	for year := 2014; year <= 2023; year++ {
		if year != 2015 && year != 2019 {
			provider.errYear[year] = true
		}
	}
	s := newTestService(provider, nil)

	result := s.Trends(context.Background(), 0, 0, 2014, 2023)

	if result.TrendDirection != models.TrendInsufficientData {
		t.Errorf("direction = %q, want insufficient_data", result.TrendDirection)
	}
	if result.TemperatureTrend != 0 || result.PrecipitationTrend != 0 {
		t.Errorf("trends = (%v, %v), want zeroed", result.TemperatureTrend, result.PrecipitationTrend)
	}
	if len(result.YearlyData) != 2 {
		t.Errorf("partial yearly data = %d records, want 2", len(result.YearlyData))
	}
}

func TestTrendsFlatSeriesIsDecreasing(t *testing.T) {
	// A zero slope resolves to decreasing (ties go down).
	byYear := make(map[int]*power.DailyData)
	for year := 2018; year <= 2022; year++ {
		byYear[year] = dailyData(year, map[string][]float64{
			power.ParamTemp:   {15, 15, 15},
			power.ParamPrecip: {2, 2},
		})
	}
	s := newTestService(&fakeProvider{byYear: byYear}, nil)

	result := s.Trends(context.Background(), 0, 0, 2018, 2022)
	if result.TrendDirection != models.TrendDecreasing {
		t.Errorf("direction = %q, want decreasing for flat series", result.TrendDirection)
	}
}

func TestTrendsExtremeDayCounts(t *testing.T) {
	byYear := map[int]*power.DailyData{
		2020: dailyData(2020, map[string][]float64{
			power.ParamTemp:   {35, 33, 20, 2, 4, 10},
			power.ParamPrecip: {12, 0.5, 11, 0},
		}),
		2021: dailyData(2021, map[string][]float64{
			power.ParamTemp:   {20, 21},
			power.ParamPrecip: {0},
		}),
		2022: dailyData(2022, map[string][]float64{
			power.ParamTemp:   {22, 23},
			power.ParamPrecip: {1},
		}),
	}
	s := newTestService(&fakeProvider{byYear: byYear}, nil)

	result := s.Trends(context.Background(), 0, 0, 2020, 2022)

	rec := result.YearlyData[0]
	if rec.ExtremeHeatDays != 2 {
		t.Errorf("heat days = %d, want 2 (>32)", rec.ExtremeHeatDays)
	}
	if rec.ExtremeColdDays != 2 {
		t.Errorf("cold days = %d, want 2 (<5)", rec.ExtremeColdDays)
	}
	if rec.HeavyRainDays != 2 {
		t.Errorf("heavy rain days = %d, want 2 (>10mm)", rec.HeavyRainDays)
	}
}

func TestIncreasingExtremes(t *testing.T) {
	heat := func(year, days int) models.YearlyClimateRecord {
		return models.YearlyClimateRecord{Year: year, ExtremeHeatDays: days}
	}

	rising := []models.YearlyClimateRecord{
		heat(2014, 1), heat(2015, 1), heat(2016, 1),
		heat(2021, 4), heat(2022, 5), heat(2023, 6),
	}
	if !increasingExtremes(rising) {
		t.Error("rising heat days not flagged as increasing")
	}

	flat := []models.YearlyClimateRecord{
		heat(2021, 2), heat(2022, 2), heat(2023, 2),
	}
	if increasingExtremes(flat) {
		t.Error("three identical records flagged as increasing")
	}

	if increasingExtremes(nil) {
		t.Error("empty records flagged as increasing")
	}
}
