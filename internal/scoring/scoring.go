// Package scoring maps a historical weather summary and an activity to a
// 1-5 suitability score, with advisory recommendations and a justification.
package scoring

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lox/paradecast/internal/models"
)

// Named activities with dedicated weight profiles.
const (
	ActivityHiking        = "Hiking"
	ActivityCycling       = "Cycling"
	ActivityPicnic        = "Picnic"
	ActivityRunning       = "Running / Outdoor Sports"
	ActivityOutdoorMarket = "Outdoor Market"
	ActivityBeach         = "Beach"
	ActivityCamping       = "Camping"
	ActivityFestival      = "Festival"
)

// factorWeights distributes importance over the five scored factors.
// Each vector sums to 1.0.
type factorWeights struct {
	Temp     float64
	Precip   float64
	Wind     float64
	Humidity float64
	Cloud    float64
}

var activityWeights = map[string]factorWeights{
	ActivityHiking:        {0.30, 0.30, 0.25, 0.10, 0.05},
	ActivityCycling:       {0.20, 0.30, 0.35, 0.10, 0.05},
	ActivityPicnic:        {0.15, 0.40, 0.35, 0.05, 0.05},
	ActivityRunning:       {0.40, 0.15, 0.10, 0.30, 0.05},
	ActivityOutdoorMarket: {0.20, 0.35, 0.40, 0.02, 0.03},
	ActivityBeach:         {0.35, 0.30, 0.15, 0.10, 0.10},
	ActivityCamping:       {0.25, 0.35, 0.20, 0.10, 0.10},
	ActivityFestival:      {0.20, 0.40, 0.25, 0.10, 0.05},
}

var classifications = map[int]string{
	1: "Not Recommended",
	2: "Poor",
	3: "Fair",
	4: "Good",
	5: "Excellent",
}

// Unsafe-condition cutoffs: any one of these forces a score of 1.
const (
	vetoPrecipMmHr  = 2.5
	vetoWindKmh     = 40.0
	vetoMaxTempC    = 40.0
	vetoMinAvgTempC = 0.0
)

var titleCaser = cases.Title(language.English)

// Canonical normalises a free-form activity label to its weight-table key.
// Unrecognised activities come back unchanged (they score with the Hiking
// profile).
func Canonical(activity string) string {
	if _, ok := activityWeights[activity]; ok {
		return activity
	}
	titled := titleCaser.String(activity)
	if _, ok := activityWeights[titled]; ok {
		return titled
	}
	return activity
}

// Score computes the 1-5 suitability score for the activity.
func Score(w models.WeatherSummary, activity string) int {
	if w.AvgPrecipitationMmHr > vetoPrecipMmHr ||
		w.AvgWindSpeedKmh > vetoWindKmh ||
		w.MaxTempC > vetoMaxTempC ||
		w.AvgTempC < vetoMinAvgTempC {
		return 1
	}

	activity = Canonical(activity)
	weights, ok := activityWeights[activity]
	if !ok {
		weights = activityWeights[ActivityHiking]
	}

	total := float64(tempScore(w.AvgTempC, activity))*weights.Temp +
		float64(precipScore(w.AvgPrecipitationMmHr))*weights.Precip +
		float64(windScore(w.AvgWindSpeedKmh, activity))*weights.Wind +
		float64(humidityScore(w.AvgHumidityPercent, activity))*weights.Humidity +
		float64(cloudScore(w.AvgCloudCoverPercent))*weights.Cloud

	return int(math.Round(total))
}

// Classification maps a score to its display label.
func Classification(score int) string {
	if label, ok := classifications[score]; ok {
		return label
	}
	return "Unknown"
}

func tempScore(t float64, activity string) int {
	if activity == ActivityBeach || activity == "Swimming" {
		switch {
		case t >= 25 && t <= 32:
			return 5
		case (t >= 22 && t < 25) || (t > 32 && t <= 35):
			return 4
		case t >= 20 && t < 22:
			return 3
		case (t >= 18 && t < 20) || (t > 35 && t <= 38):
			return 2
		default:
			return 1
		}
	}
	switch {
	case t >= 18 && t <= 24:
		return 5
	case (t >= 12 && t < 18) || (t > 24 && t <= 28):
		return 4
	case (t >= 8 && t < 12) || (t > 28 && t <= 32):
		return 3
	case (t >= 5 && t < 8) || (t > 32 && t <= 35):
		return 2
	default:
		return 1
	}
}

func precipScore(p float64) int {
	switch {
	case p == 0:
		return 5
	case p <= 0.5:
		return 4
	case p <= 1.5:
		return 3
	case p <= 2.5:
		return 2
	default:
		return 1
	}
}

func windScore(w float64, activity string) int {
	if activity == ActivityCycling {
		switch {
		case w < 5:
			return 5
		case w < 15:
			return 4
		case w < 25:
			return 3
		case w < 35:
			return 2
		default:
			return 1
		}
	}
	switch {
	case w < 10:
		return 5
	case w < 20:
		return 4
	case w < 30:
		return 3
	case w < 40:
		return 2
	default:
		return 1
	}
}

func humidityScore(h float64, activity string) int {
	if activity == ActivityRunning || activity == ActivityCycling {
		switch {
		case h >= 30 && h <= 50:
			return 5
		case h > 50 && h <= 60:
			return 4
		case (h > 60 && h <= 70) || (h >= 20 && h < 30):
			return 3
		case h > 70 && h <= 80:
			return 2
		default:
			return 1
		}
	}
	switch {
	case h >= 40 && h <= 60:
		return 5
	case (h >= 30 && h < 40) || (h > 60 && h <= 70):
		return 4
	case h > 70 && h <= 80:
		return 3
	default:
		return 2
	}
}

func cloudScore(c float64) int {
	if c >= 20 && c <= 50 {
		return 5
	}
	return 3
}

// Recommendations builds up to five advisory strings from the probability
// estimates and the summary. When nothing triggers, a single favourable
// message is returned.
func Recommendations(w models.WeatherSummary, activity string, probs models.ExtremeProbabilities) []string {
	activity = Canonical(activity)
	var recs []string

	if probs.VeryHot.Probability > 30 {
		recs = append(recs, "High heat risk - Bring extra water and sun protection")
	}
	if probs.VeryCold.Probability > 30 {
		recs = append(recs, "Cold weather expected - Dress in layers")
	}
	if probs.VeryWet.Probability > 40 {
		recs = append(recs, "Rain likely - Bring waterproof gear")
	}
	if probs.VeryWindy.Probability > 40 {
		recs = append(recs, "Windy conditions - Secure loose items")
	}
	if probs.UncomfortableHumidity.Probability > 50 {
		recs = append(recs, "High humidity - Plan for frequent breaks")
	}
	if w.AvgUVIndex > 7 {
		recs = append(recs, "High UV levels - Apply sunscreen frequently")
	}
	if activity == ActivityHiking && w.AvgTempC > 28 {
		recs = append(recs, "Start early morning to avoid peak heat")
	}
	if activity == ActivityCycling && w.AvgWindSpeedKmh > 20 {
		recs = append(recs, "Strong headwinds possible - Plan route accordingly")
	}
	if (activity == ActivityPicnic || activity == ActivityOutdoorMarket) && w.AvgCloudCoverPercent < 20 {
		recs = append(recs, "Limited shade - Bring umbrellas or pop-up tents")
	}

	if len(recs) == 0 {
		recs = append(recs, "Conditions look favorable for your activity")
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// Justification renders a human-readable explanation keyed on the score
// bucket alone.
func Justification(w models.WeatherSummary, activity string, score int) string {
	temp := w.AvgTempC
	precip := w.AvgPrecipitationMmHr
	wind := w.AvgWindSpeedKmh

	switch score {
	case 5:
		return fmt.Sprintf("Excellent conditions for %s with comfortable temperature (%.1f°C), minimal precipitation (%.1f mm/hr), and gentle winds (%.1f km/h).", activity, temp, precip, wind)
	case 4:
		return fmt.Sprintf("Good conditions for %s. Temperature is %.1f°C with low chance of rain (%.1f mm/hr) and moderate winds (%.1f km/h).", activity, temp, precip, wind)
	case 3:
		return fmt.Sprintf("Fair conditions for %s. Temperature of %.1f°C may be less ideal, with some chance of precipitation (%.1f mm/hr) or wind (%.1f km/h).", activity, temp, precip, wind)
	case 2:
		return fmt.Sprintf("Poor conditions for %s. Challenging weather with temperature at %.1f°C, precipitation risk of %.1f mm/hr, and winds at %.1f km/h.", activity, temp, precip, wind)
	default:
		return fmt.Sprintf("Not recommended for %s. Extreme conditions detected with significant weather challenges that may pose safety concerns.", activity)
	}
}
