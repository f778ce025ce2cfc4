package climate

import (
	"context"
	"log"
	"time"

	"github.com/lox/paradecast/internal/metrics"
	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/power"
	"github.com/lox/paradecast/internal/stats"
)

// Degraded-mode constants, substituted whenever the provider fails or a
// series comes back empty. The aggregator never raises.
const (
	fallbackTempC    = 20.0
	fallbackMinTempC = 15.0
	fallbackMaxTempC = 25.0
	fallbackPrecip   = 0.5
	fallbackWindKmh  = 15.0
	fallbackHumidity = 50.0
	fallbackCloud    = 40.0
	fallbackUV       = 5.0
)

// windMsToKmh converts an averaged wind speed from m/s to km/h.
const windMsToKmh = 3.6

var summaryParams = []string{
	power.ParamTemp,
	power.ParamTempMax,
	power.ParamTempMin,
	power.ParamPrecip,
	power.ParamWind,
	power.ParamHumidity,
	power.ParamCloudAmount,
	power.ParamUVIndex,
}

// WeatherSummary aggregates the same month/day window across the ten years
// preceding the event date into a single summary. It degrades to fixed
// constants rather than failing.
func (s *Service) WeatherSummary(ctx context.Context, lat, lon float64, eventDate time.Time) models.WeatherSummary {
	start := time.Date(eventDate.Year()-10, eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(eventDate.Year()-1, eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)

	data, err := s.provider.FetchDaily(ctx, summaryParams, lat, lon, start, end)
	if err != nil {
		log.Printf("weather summary (%.3f, %.3f): provider failed, using fallback: %v", lat, lon, err)
		metrics.FallbackSummariesTotal.Inc()
		return FallbackSummary()
	}

	temps := data.Series(power.ParamTemp)
	if len(temps) == 0 {
		log.Printf("weather summary (%.3f, %.3f): no usable temperature data, using fallback", lat, lon)
		metrics.FallbackSummariesTotal.Inc()
		return FallbackSummary()
	}

	precip := data.Series(power.ParamPrecip)
	wind := data.Series(power.ParamWind)
	humidity := data.Series(power.ParamHumidity)
	cloud := data.Series(power.ParamCloudAmount)
	uv := data.Series(power.ParamUVIndex)

	summary := models.WeatherSummary{
		AvgTempC:             stats.Round2(stats.Mean(temps)),
		MinTempC:             percentileOr(data.Series(power.ParamTempMin), 10, fallbackMinTempC),
		MaxTempC:             percentileOr(data.Series(power.ParamTempMax), 90, fallbackMaxTempC),
		AvgPrecipitationMmHr: meanOr(precip, 1, fallbackPrecip),
		AvgWindSpeedKmh:      meanOr(wind, windMsToKmh, fallbackWindKmh),
		AvgHumidityPercent:   meanOr(humidity, 1, fallbackHumidity),
		AvgCloudCoverPercent: meanOr(cloud, 1, fallbackCloud),
		AvgUVIndex:           meanOr(uv, 1, fallbackUV),
		DataSource:           models.SourceLive,
		YearsAnalyzed:        len(temps),
		TemperatureDist:      temperatureDistribution(temps),

		RawTemperatureSeries:   temps,
		RawPrecipitationSeries: precip,
		RawWindSeries:          wind,
		RawHumiditySeries:      humidity,
	}
	return summary
}

// FallbackSummary is the documented degraded-mode response.
func FallbackSummary() models.WeatherSummary {
	return models.WeatherSummary{
		AvgTempC:             fallbackTempC,
		MinTempC:             fallbackMinTempC,
		MaxTempC:             fallbackMaxTempC,
		AvgPrecipitationMmHr: fallbackPrecip,
		AvgWindSpeedKmh:      fallbackWindKmh,
		AvgHumidityPercent:   fallbackHumidity,
		AvgCloudCoverPercent: fallbackCloud,
		AvgUVIndex:           fallbackUV,
		DataSource:           models.SourceFallback,
		YearsAnalyzed:        0,
		TemperatureDist: models.TemperatureDistribution{
			Percentiles: map[string]float64{},
		},
	}
}

// temperatureDistribution summarises the pooled temperature series after
// outlier removal; it feeds the probability estimator's display layer.
func temperatureDistribution(temps []float64) models.TemperatureDistribution {
	filtered := stats.RemoveOutliers(temps)
	if len(filtered) == 0 {
		filtered = temps
	}
	return models.TemperatureDistribution{
		Mean: stats.Round2(stats.Mean(filtered)),
		Std:  stats.Round2(stats.StdDev(filtered)),
		Percentiles: map[string]float64{
			"p10": stats.Round2(stats.Percentile(filtered, 10)),
			"p25": stats.Round2(stats.Percentile(filtered, 25)),
			"p50": stats.Round2(stats.Percentile(filtered, 50)),
			"p75": stats.Round2(stats.Percentile(filtered, 75)),
			"p90": stats.Round2(stats.Percentile(filtered, 90)),
		},
	}
}

// meanOr averages a series with a unit conversion factor applied after
// averaging, or returns the fallback when the series is empty.
func meanOr(xs []float64, factor, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	return stats.Round2(stats.Mean(xs) * factor)
}

// percentileOr takes the p-th percentile of the outlier-filtered series, or
// the fallback when empty.
func percentileOr(xs []float64, p float64, fallback float64) float64 {
	filtered := stats.RemoveOutliers(xs)
	if len(filtered) == 0 {
		return fallback
	}
	return stats.Round2(stats.Percentile(filtered, p))
}
