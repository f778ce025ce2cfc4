package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/lox/paradecast/internal/models"
)

func idealSummary() models.WeatherSummary {
	return models.WeatherSummary{
		AvgTempC:             21,
		MinTempC:             15,
		MaxTempC:             26,
		AvgPrecipitationMmHr: 0,
		AvgWindSpeedKmh:      8,
		AvgHumidityPercent:   50,
		AvgCloudCoverPercent: 30,
	}
}

func TestScoreIdealHiking(t *testing.T) {
	w := idealSummary()
	if got := Score(w, ActivityHiking); got != 5 {
		t.Errorf("Score = %d, want 5", got)
	}
	if got := Classification(5); got != "Excellent" {
		t.Errorf("Classification(5) = %q", got)
	}
}

func TestScoreVeto(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.WeatherSummary)
	}{
		{"heavy precipitation", func(w *models.WeatherSummary) { w.AvgPrecipitationMmHr = 3.0 }},
		{"dangerous wind", func(w *models.WeatherSummary) { w.AvgWindSpeedKmh = 45 }},
		{"extreme heat", func(w *models.WeatherSummary) { w.AvgTempC = 38; w.MaxTempC = 41 }},
		{"sub-zero average", func(w *models.WeatherSummary) { w.AvgTempC = -2 }},
	}

	activities := []string{ActivityHiking, ActivityCycling, ActivityBeach, "unknown activity"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := idealSummary()
			tt.mutate(&w)
			for _, activity := range activities {
				if got := Score(w, activity); got != 1 {
					t.Errorf("%s/%s: Score = %d, want 1", tt.name, activity, got)
				}
			}
			if got := Classification(1); got != "Not Recommended" {
				t.Errorf("Classification(1) = %q", got)
			}
		})
	}
}

func TestScoreDeterminism(t *testing.T) {
	w := idealSummary()
	w.AvgTempC = 26.5
	w.AvgPrecipitationMmHr = 0.8

	first := Score(w, ActivityCamping)
	probs := models.ExtremeProbabilities{}
	firstRecs := Recommendations(w, ActivityCamping, probs)

	for i := 0; i < 10; i++ {
		if got := Score(w, ActivityCamping); got != first {
			t.Fatalf("score changed between identical calls: %d != %d", got, first)
		}
		if recs := Recommendations(w, ActivityCamping, probs); !reflect.DeepEqual(recs, firstRecs) {
			t.Fatalf("recommendations changed between identical calls")
		}
	}
}

func TestBeachTemperatureBanding(t *testing.T) {
	w := idealSummary()
	w.AvgTempC = 28
	w.AvgHumidityPercent = 55

	// 28°C is ideal for the beach but only "good" for hiking.
	if beach, hiking := tempScore(w.AvgTempC, ActivityBeach), tempScore(w.AvgTempC, ActivityHiking); beach <= hiking {
		t.Errorf("beach temp score %d should exceed hiking %d at 28°C", beach, hiking)
	}
}

func TestCyclingWindBandingIsStricter(t *testing.T) {
	for _, wind := range []float64{6, 16, 26, 36} {
		cycling := windScore(wind, ActivityCycling)
		def := windScore(wind, ActivityHiking)
		if cycling >= def {
			t.Errorf("wind %.0f km/h: cycling score %d should be below default %d", wind, cycling, def)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	for activity, w := range activityWeights {
		sum := w.Temp + w.Precip + w.Wind + w.Humidity + w.Cloud
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("%s weights sum to %v, want 1.0", activity, sum)
		}
	}
}

func TestUnknownActivityUsesHikingProfile(t *testing.T) {
	w := idealSummary()
	if got, want := Score(w, "spelunking"), Score(w, ActivityHiking); got != want {
		t.Errorf("unknown activity score %d != hiking score %d", got, want)
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hiking", ActivityHiking},
		{"hiking", ActivityHiking},
		{"BEACH", ActivityBeach},
		{"outdoor market", ActivityOutdoorMarket},
		{"base jumping", "base jumping"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.in); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecommendationsTriggers(t *testing.T) {
	w := idealSummary()
	w.AvgUVIndex = 8
	probs := models.ExtremeProbabilities{
		VeryHot: models.ProbabilityEstimate{Probability: 45, Threshold: 32},
		VeryWet: models.ProbabilityEstimate{Probability: 55, Threshold: 2},
	}

	recs := Recommendations(w, ActivityHiking, probs)
	joined := strings.Join(recs, "\n")
	for _, want := range []string{"heat risk", "waterproof", "UV"} {
		if !strings.Contains(joined, want) {
			t.Errorf("recommendations missing %q: %v", want, recs)
		}
	}
}

func TestRecommendationsCap(t *testing.T) {
	w := idealSummary()
	w.AvgTempC = 29 // also trips the hiking early-start advice
	w.AvgUVIndex = 9
	probs := models.ExtremeProbabilities{
		VeryHot:               models.ProbabilityEstimate{Probability: 90},
		VeryCold:              models.ProbabilityEstimate{Probability: 90},
		VeryWet:               models.ProbabilityEstimate{Probability: 90},
		VeryWindy:             models.ProbabilityEstimate{Probability: 90},
		UncomfortableHumidity: models.ProbabilityEstimate{Probability: 90},
	}

	recs := Recommendations(w, ActivityHiking, probs)
	if len(recs) != 5 {
		t.Errorf("recommendations = %d entries, want capped at 5", len(recs))
	}
}

func TestRecommendationsFavorableFallback(t *testing.T) {
	recs := Recommendations(idealSummary(), ActivityPicnic, models.ExtremeProbabilities{})
	if len(recs) != 1 || !strings.Contains(recs[0], "favorable") {
		t.Errorf("recs = %v, want single favourable message", recs)
	}
}

func TestJustificationBuckets(t *testing.T) {
	w := idealSummary()
	seen := map[string]bool{}
	for score := 1; score <= 5; score++ {
		j := Justification(w, ActivityFestival, score)
		if j == "" {
			t.Fatalf("empty justification for score %d", score)
		}
		if seen[j] {
			t.Errorf("duplicate justification across score buckets: %q", j)
		}
		seen[j] = true
		if !strings.Contains(j, ActivityFestival) {
			t.Errorf("justification for score %d does not name the activity", score)
		}
	}
}
