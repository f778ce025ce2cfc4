package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lox/paradecast/internal/models"
)

// validationCase pairs a well-known location with the climate every weather
// dataset should roughly agree on. The harness exists to catch systematic
// provider or aggregation errors, not to assert exact values.
type validationCase struct {
	Location       string
	Date           time.Time
	TempRange      *[2]float64
	MaxTempRange   *[2]float64
	HighHumidity   bool
	Cold           bool
	VeryHot        bool
	HighPrecip     bool
	ModeratePrecip bool
}

var validationCases = []validationCase{
	{
		Location:     "Miami, Florida",
		Date:         time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		TempRange:    &[2]float64{25, 32},
		HighHumidity: true,
	},
	{
		Location:  "Anchorage, Alaska",
		Date:      time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		TempRange: &[2]float64{-15, 5},
		Cold:      true,
	},
	{
		Location:   "Seattle, Washington",
		Date:       time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC),
		TempRange:  &[2]float64{5, 12},
		HighPrecip: true,
	},
	{
		Location:     "Phoenix, Arizona",
		Date:         time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
		MaxTempRange: &[2]float64{35, 45},
		VeryHot:      true,
	},
	{
		Location:       "London, UK",
		Date:           time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
		TempRange:      &[2]float64{2, 12},
		ModeratePrecip: true,
	},
}

type ValidationResult struct {
	Location    string                `json:"location"`
	Date        string                `json:"date"`
	WeatherData models.WeatherSummary `json:"weather_data"`
	Validations map[string]bool       `json:"validations"`
	AllPassed   bool                  `json:"all_passed"`
}

type ValidationSummary struct {
	TotalValidations int    `json:"total_validations"`
	Passed           int    `json:"passed"`
	Failed           int    `json:"failed"`
	SuccessRate      string `json:"success_rate"`
}

type ValidationReport struct {
	Summary ValidationSummary  `json:"summary"`
	Results []ValidationResult `json:"results"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	report := ValidationReport{Results: make([]ValidationResult, 0, len(validationCases))}

	for _, tc := range validationCases {
		coords, err := s.climate.Resolve(r.Context(), tc.Location)
		if err != nil {
			log.Printf("api: validate %q: %v", tc.Location, err)
			continue
		}

		summary := s.climate.WeatherSummary(r.Context(), coords.Latitude, coords.Longitude, tc.Date)
		validations := runValidations(tc, summary)

		allPassed := true
		for _, ok := range validations {
			report.Summary.TotalValidations++
			if ok {
				report.Summary.Passed++
			} else {
				allPassed = false
			}
		}

		report.Results = append(report.Results, ValidationResult{
			Location:    tc.Location,
			Date:        tc.Date.Format(dateLayout),
			WeatherData: summary,
			Validations: validations,
			AllPassed:   allPassed,
		})
	}

	report.Summary.Failed = report.Summary.TotalValidations - report.Summary.Passed
	if report.Summary.TotalValidations > 0 {
		rate := float64(report.Summary.Passed) / float64(report.Summary.TotalValidations) * 100
		report.Summary.SuccessRate = fmt.Sprintf("%.1f%%", rate)
	} else {
		report.Summary.SuccessRate = "0%"
	}

	writeJSON(w, http.StatusOK, report)
}

func runValidations(tc validationCase, w models.WeatherSummary) map[string]bool {
	validations := make(map[string]bool)

	if tc.TempRange != nil {
		validations["temp_in_range"] = w.AvgTempC >= tc.TempRange[0] && w.AvgTempC <= tc.TempRange[1]
	}
	if tc.MaxTempRange != nil {
		validations["max_temp_in_range"] = w.MaxTempC >= tc.MaxTempRange[0] && w.MaxTempC <= tc.MaxTempRange[1]
	}
	if tc.HighHumidity {
		validations["high_humidity"] = w.AvgHumidityPercent > 70
	}
	if tc.Cold {
		validations["is_cold"] = w.AvgTempC < 10
	}
	if tc.VeryHot {
		validations["is_very_hot"] = w.MaxTempC > 30
	}
	if tc.HighPrecip {
		validations["high_precipitation"] = w.AvgPrecipitationMmHr > 1.5
	}
	if tc.ModeratePrecip {
		validations["moderate_precipitation"] = w.AvgPrecipitationMmHr > 0.5
	}
	return validations
}
