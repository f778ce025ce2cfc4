// Package stats holds the numeric routines shared by the aggregation,
// probability, and trend code. All functions are pure.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation, or 0 for an empty slice.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// Sum returns the total of the slice.
func Sum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum
}

// Percentile computes the p-th percentile (0..100) using linear interpolation
// between closest ranks. Returns 0 for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// RemoveOutliers drops samples outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
// Fewer than 4 samples is too few for a reliable quartile estimate, so the
// input is returned unchanged.
func RemoveOutliers(xs []float64) []float64 {
	if len(xs) < 4 {
		return xs
	}
	q1 := Percentile(xs, 25)
	q3 := Percentile(xs, 75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	kept := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x >= lower && x <= upper {
			kept = append(kept, x)
		}
	}
	return kept
}

// NormalCDF evaluates the cumulative distribution function of a normal
// distribution with the given mean and standard deviation at x. A zero (or
// negative) std degenerates to a step function at the mean.
func NormalCDF(x, mean, std float64) float64 {
	if std <= 0 {
		if x < mean {
			return 0
		}
		return 1
	}
	return 0.5 * (1 + math.Erf((x-mean)/(std*math.Sqrt2)))
}

// LinearFit fits y = slope*x + intercept by least squares. With fewer than
// two points, or zero variance in x, the slope is 0 and the intercept is the
// mean of y.
func LinearFit(xs, ys []float64) (slope, intercept float64) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, Mean(ys)
	}
	mx := Mean(xs)
	my := Mean(ys)

	var sxy, sxx float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, my
	}
	slope = sxy / sxx
	return slope, my - slope*mx
}

// RecencyWeight returns the weight applied to a year's average when combining
// a decade of data: 1 for the current year, decaying so that a year ten years
// back counts roughly half.
func RecencyWeight(currentYear, year int) float64 {
	return 1 / (1 + float64(currentYear-year)*0.1)
}

// WeightedRecentAverage combines per-year sample groups into a single mean
// that favours recent years. Each year is outlier-filtered before its mean is
// taken. The second return is false when no year contributes any samples.
func WeightedRecentAverage(byYear map[int][]float64, currentYear int) (float64, bool) {
	var weightedSum, totalWeight float64
	for year, values := range byYear {
		filtered := RemoveOutliers(values)
		if len(filtered) == 0 {
			continue
		}
		w := RecencyWeight(currentYear, year)
		weightedSum += Mean(filtered) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0, false
	}
	return weightedSum / totalWeight, true
}

// Round2 rounds to two decimal places, matching the precision the summary
// fields are reported at.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
