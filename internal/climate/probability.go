package climate

import (
	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/stats"
)

// Fixed extreme-condition thresholds. These are not activity-dependent.
const (
	ThresholdVeryHotC     = 32.0
	ThresholdVeryColdC    = 5.0
	ThresholdVeryWetMmHr  = 2.0
	ThresholdVeryWindyKmh = 30.0
	ThresholdHumidityPct  = 75.0
)

// Defaults reported when a series carries no samples.
const (
	defaultVeryHotPct   = 15.0
	defaultVeryColdPct  = 10.0
	defaultVeryWetPct   = 20.0
	defaultVeryWindyPct = 15.0
	defaultHumidityPct  = 25.0
)

// Probabilities models each parameter's pooled decade of samples as a normal
// distribution and evaluates tail probabilities against fixed thresholds.
// Empty series yield documented low-confidence defaults; it never fails.
func Probabilities(w models.WeatherSummary) models.ExtremeProbabilities {
	windKmh := make([]float64, len(w.RawWindSeries))
	for i, v := range w.RawWindSeries {
		windKmh[i] = v * windMsToKmh
	}

	return models.ExtremeProbabilities{
		VeryHot:               tailAbove(w.RawTemperatureSeries, ThresholdVeryHotC, defaultVeryHotPct),
		VeryCold:              tailBelow(w.RawTemperatureSeries, ThresholdVeryColdC, defaultVeryColdPct),
		VeryWet:               tailAbove(w.RawPrecipitationSeries, ThresholdVeryWetMmHr, defaultVeryWetPct),
		VeryWindy:             tailAbove(windKmh, ThresholdVeryWindyKmh, defaultVeryWindyPct),
		UncomfortableHumidity: tailAbove(w.RawHumiditySeries, ThresholdHumidityPct, defaultHumidityPct),
	}
}

// tailAbove estimates P(X > threshold) as a percentage.
func tailAbove(series []float64, threshold, defaultPct float64) models.ProbabilityEstimate {
	if len(series) == 0 {
		return models.ProbabilityEstimate{
			Probability: defaultPct,
			Threshold:   threshold,
			Confidence:  confidenceLabel(0),
		}
	}
	mean := stats.Mean(series)
	std := stats.StdDev(series)
	p := (1 - stats.NormalCDF(threshold, mean, std)) * 100
	return models.ProbabilityEstimate{
		Probability: stats.Round2(clampPct(p)),
		Threshold:   threshold,
		Confidence:  confidenceLabel(len(series)),
	}
}

// tailBelow estimates P(X < threshold) as a percentage.
func tailBelow(series []float64, threshold, defaultPct float64) models.ProbabilityEstimate {
	if len(series) == 0 {
		return models.ProbabilityEstimate{
			Probability: defaultPct,
			Threshold:   threshold,
			Confidence:  confidenceLabel(0),
		}
	}
	mean := stats.Mean(series)
	std := stats.StdDev(series)
	p := stats.NormalCDF(threshold, mean, std) * 100
	return models.ProbabilityEstimate{
		Probability: stats.Round2(clampPct(p)),
		Threshold:   threshold,
		Confidence:  confidenceLabel(len(series)),
	}
}

func clampPct(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// confidenceLabel grades an estimate purely on the number of samples behind
// it, not on statistical error bounds.
func confidenceLabel(n int) string {
	switch {
	case n >= 1000:
		return models.ConfidenceHigh
	case n >= 500:
		return models.ConfidenceMedium
	case n >= 100:
		return models.ConfidenceLow
	default:
		return models.ConfidenceVeryLow
	}
}
