package climate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lox/paradecast/internal/geocode"
	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/power"
)

// fakeProvider serves canned daily data, keyed by the start year of the
// requested range when byYear is set.
type fakeProvider struct {
	data    *power.DailyData
	byYear  map[int]*power.DailyData
	err     error
	errYear map[int]bool
	calls   int
}

func (f *fakeProvider) FetchDaily(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*power.DailyData, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.errYear != nil && f.errYear[start.Year()] {
		return nil, errors.New("provider unavailable")
	}
	if f.byYear != nil {
		return f.byYear[start.Year()], nil
	}
	return f.data, nil
}

type fakeResolver struct {
	coords map[string]models.Coordinates
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (models.Coordinates, error) {
	c, ok := f.coords[name]
	if !ok {
		return models.Coordinates{}, geocode.ErrNotFound
	}
	return c, nil
}

func newTestService(p Provider, r geocode.Resolver) *Service {
	if r == nil {
		r = &fakeResolver{}
	}
	return NewService(r, p, clockwork.NewFakeClockAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)), 2)
}

// dailyData builds a DailyData with one sample per given value, dated
// sequentially within the given year.
func dailyData(year int, series map[string][]float64) *power.DailyData {
	params := make(map[string]map[string]float64)
	for param, values := range series {
		byDate := make(map[string]float64, len(values))
		day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for _, v := range values {
			byDate[day.Format("20060102")] = v
			day = day.AddDate(0, 0, 1)
		}
		params[param] = byDate
	}
	return &power.DailyData{Parameters: params}
}

func eventDate() time.Time {
	return time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
}

func TestWeatherSummaryAggregates(t *testing.T) {
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{
		power.ParamTemp:        {20, 22, 24, 18},
		power.ParamTempMin:     {10, 11, 12, 13},
		power.ParamTempMax:     {28, 29, 30, 31},
		power.ParamPrecip:      {0, 0.4, 0.2, 0.2},
		power.ParamWind:        {5, 5, 5, 5},
		power.ParamHumidity:    {60, 62, 58, 60},
		power.ParamCloudAmount: {30, 40, 30, 40},
		power.ParamUVIndex:     {6, 6, 6, 6},
	})}
	s := newTestService(provider, nil)

	w := s.WeatherSummary(context.Background(), -36.79, 146.97, eventDate())

	if w.DataSource != models.SourceLive {
		t.Errorf("data source = %q, want live", w.DataSource)
	}
	if w.AvgTempC != 21 {
		t.Errorf("avg temp = %v, want 21", w.AvgTempC)
	}
	if w.AvgWindSpeedKmh != 18 {
		t.Errorf("wind = %v, want 5 m/s * 3.6 = 18 km/h", w.AvgWindSpeedKmh)
	}
	if w.YearsAnalyzed != 4 {
		t.Errorf("years analyzed = %d, want 4 samples", w.YearsAnalyzed)
	}
	if w.AvgPrecipitationMmHr != 0.2 {
		t.Errorf("precip = %v, want 0.2", w.AvgPrecipitationMmHr)
	}
	if len(w.TemperatureDist.Percentiles) != 5 {
		t.Errorf("percentiles = %v, want 5 entries", w.TemperatureDist.Percentiles)
	}
	if w.TemperatureDist.Mean != 21 {
		t.Errorf("distribution mean = %v, want 21", w.TemperatureDist.Mean)
	}
	if len(w.RawTemperatureSeries) != 4 {
		t.Errorf("raw temperature series = %v", w.RawTemperatureSeries)
	}
}

func TestWeatherSummaryRequestsDecadeWindow(t *testing.T) {
	var gotStart, gotEnd time.Time
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{power.ParamTemp: {20}})}
	s := NewService(&fakeResolver{}, providerFunc(func(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*power.DailyData, error) {
		gotStart, gotEnd = start, end
		return provider.data, nil
	}), clockwork.NewFakeClock(), 1)

	s.WeatherSummary(context.Background(), 0, 0, eventDate())

	if gotStart.Year() != 2015 || gotStart.Month() != time.July || gotStart.Day() != 15 {
		t.Errorf("start = %v, want 2015-07-15", gotStart)
	}
	if gotEnd.Year() != 2024 || gotEnd.Month() != time.July || gotEnd.Day() != 15 {
		t.Errorf("end = %v, want 2024-07-15", gotEnd)
	}
}

type providerFunc func(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*power.DailyData, error)

func (f providerFunc) FetchDaily(ctx context.Context, params []string, lat, lon float64, start, end time.Time) (*power.DailyData, error) {
	return f(ctx, params, lat, lon, start, end)
}

func TestWeatherSummaryFallbackOnProviderError(t *testing.T) {
	s := newTestService(&fakeProvider{err: errors.New("power is down")}, nil)

	w := s.WeatherSummary(context.Background(), 0, 0, eventDate())

	assertFallback(t, w)
}

func TestWeatherSummaryFallbackOnEmptyTemps(t *testing.T) {
	// Every temperature is the missing-data sentinel.
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{
		power.ParamTemp: {power.Sentinel, power.Sentinel},
	})}
	s := newTestService(provider, nil)

	w := s.WeatherSummary(context.Background(), 0, 0, eventDate())

	assertFallback(t, w)
}

func assertFallback(t *testing.T, w models.WeatherSummary) {
	t.Helper()
	if w.DataSource != models.SourceFallback {
		t.Errorf("data source = %q, want fallback", w.DataSource)
	}
	if w.YearsAnalyzed != 0 {
		t.Errorf("years analyzed = %d, want 0", w.YearsAnalyzed)
	}
	want := []struct {
		name string
		got  float64
		want float64
	}{
		{"temp", w.AvgTempC, 20.0},
		{"precip", w.AvgPrecipitationMmHr, 0.5},
		{"wind", w.AvgWindSpeedKmh, 15.0},
		{"humidity", w.AvgHumidityPercent, 50.0},
		{"cloud", w.AvgCloudCoverPercent, 40.0},
		{"uv", w.AvgUVIndex, 5.0},
	}
	for _, f := range want {
		if f.got != f.want {
			t.Errorf("fallback %s = %v, want %v", f.name, f.got, f.want)
		}
	}
}

func TestWeatherSummaryPartialSeriesUsesFieldFallbacks(t *testing.T) {
	// Temperature present, everything else missing: per-field constants
	// apply but the summary still counts as live data.
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{
		power.ParamTemp: {20, 21, 22},
	})}
	s := newTestService(provider, nil)

	w := s.WeatherSummary(context.Background(), 0, 0, eventDate())

	if w.DataSource != models.SourceLive {
		t.Errorf("data source = %q, want live", w.DataSource)
	}
	if w.AvgPrecipitationMmHr != 0.5 || w.AvgWindSpeedKmh != 15 || w.AvgCloudCoverPercent != 40 {
		t.Errorf("expected field fallbacks, got %+v", w)
	}
	if w.AvgTempC != 21 {
		t.Errorf("avg temp = %v, want 21", w.AvgTempC)
	}
}

func TestWeatherSummaryAllStatsFinite(t *testing.T) {
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{
		power.ParamTemp: {21, 21, 21}, // zero variance
	})}
	s := newTestService(provider, nil)

	w := s.WeatherSummary(context.Background(), 0, 0, eventDate())

	for name, v := range map[string]float64{
		"avg_temp":  w.AvgTempC,
		"dist mean": w.TemperatureDist.Mean,
		"dist std":  w.TemperatureDist.Std,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want finite", name, v)
		}
	}
	for k, v := range w.TemperatureDist.Percentiles {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("percentile %s = %v, want finite", k, v)
		}
	}
}

func TestDefaultTrendYears(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s := NewService(&fakeResolver{}, &fakeProvider{}, clock, 1)

	start, end := s.DefaultTrendYears()
	if start != 2015 || end != 2024 {
		t.Errorf("default trend years = %d..%d, want 2015..2024", start, end)
	}
}

func ExampleService_WeatherSummary() {
	provider := &fakeProvider{data: dailyData(2020, map[string][]float64{
		power.ParamTemp: {20, 22},
	})}
	s := newTestService(provider, nil)
	w := s.WeatherSummary(context.Background(), -36.79, 146.97, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	fmt.Println(w.AvgTempC, w.DataSource)
	// Output: 21 live
}
