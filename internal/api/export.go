package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lox/paradecast/internal/models"
)

type exportMetadata struct {
	Location    string             `json:"location"`
	Coordinates models.Coordinates `json:"coordinates"`
	Date        string             `json:"date"`
	Activity    string             `json:"activity"`
	GeneratedAt time.Time          `json:"generated_at"`
}

type exportDocument struct {
	Metadata    exportMetadata        `json:"metadata"`
	WeatherData models.WeatherSummary `json:"weather_data"`
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	req, date, ok := s.decodeCheck(w, r)
	if !ok {
		return
	}
	coords, ok := s.resolve(r.Context(), w, req.Location)
	if !ok {
		return
	}
	summary := s.climate.WeatherSummary(r.Context(), coords.Latitude, coords.Longitude, date)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=weather_%s_%s.csv", req.Location, req.Date))

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Metric", "Value", "Unit"},
		{"Location", req.Location, ""},
		{"Date", req.Date, ""},
		{"Activity", req.Activity, ""},
		{"Average Temperature", formatValue(summary.AvgTempC), "°C"},
		{"Max Temperature", formatValue(summary.MaxTempC), "°C"},
		{"Min Temperature", formatValue(summary.MinTempC), "°C"},
		{"Precipitation", formatValue(summary.AvgPrecipitationMmHr), "mm/hr"},
		{"Wind Speed", formatValue(summary.AvgWindSpeedKmh), "km/h"},
		{"Humidity", formatValue(summary.AvgHumidityPercent), "%"},
		{"Data Source", summary.DataSource, ""},
		{"Years Analyzed", strconv.Itoa(summary.YearsAnalyzed), ""},
	}
	if err := cw.WriteAll(rows); err != nil {
		log.Printf("api: write csv export: %v", err)
	}
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	req, date, ok := s.decodeCheck(w, r)
	if !ok {
		return
	}
	coords, ok := s.resolve(r.Context(), w, req.Location)
	if !ok {
		return
	}
	summary := s.climate.WeatherSummary(r.Context(), coords.Latitude, coords.Longitude, date)

	doc := exportDocument{
		Metadata: exportMetadata{
			Location:    req.Location,
			Coordinates: coords,
			Date:        req.Date,
			Activity:    req.Activity,
			GeneratedAt: s.clock.Now().UTC(),
		},
		WeatherData: summary,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=weather_%s_%s.json", req.Location, req.Date))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		log.Printf("api: write json export: %v", err)
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
