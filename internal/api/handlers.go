package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/lox/paradecast/internal/climate"
	"github.com/lox/paradecast/internal/geocode"
	"github.com/lox/paradecast/internal/models"
	"github.com/lox/paradecast/internal/scoring"
)

const dateLayout = "2006-01-02"

type CheckRequest struct {
	Activity string `json:"activity" validate:"required"`
	Location string `json:"location" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
}

type CheckResponse struct {
	Score           int                         `json:"score"`
	Classification  string                      `json:"classification"`
	Justification   string                      `json:"justification"`
	WeatherData     models.WeatherSummary       `json:"weather_data"`
	RequestData     CheckRequest                `json:"request_data"`
	Probabilities   models.ExtremeProbabilities `json:"probabilities"`
	Recommendations []string                    `json:"recommendations"`
}

type CompareRequest struct {
	Locations []string `json:"locations" validate:"required,min=1,max=10,dive,required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Activity  string   `json:"activity" validate:"required"`
}

func (s *Server) decodeCheck(w http.ResponseWriter, r *http.Request) (CheckRequest, time.Time, bool) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return req, time.Time{}, false
	}
	if err := s.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return req, time.Time{}, false
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return req, time.Time{}, false
	}
	return req, date, true
}

// resolve maps every geocoding failure to a 404: callers cannot
// distinguish an unknown place from a geocoder outage.
func (s *Server) resolve(ctx context.Context, w http.ResponseWriter, location string) (models.Coordinates, bool) {
	coords, err := s.climate.Resolve(ctx, location)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotFound) {
			log.Printf("api: resolve %q: %v", location, err)
		}
		writeDetail(w, http.StatusNotFound, "Location not found")
		return models.Coordinates{}, false
	}
	return coords, true
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, date, ok := s.decodeCheck(w, r)
	if !ok {
		return
	}
	coords, ok := s.resolve(r.Context(), w, req.Location)
	if !ok {
		return
	}

	summary := s.climate.WeatherSummary(r.Context(), coords.Latitude, coords.Longitude, date)
	probs := climate.Probabilities(summary)
	activity := scoring.Canonical(req.Activity)
	score := scoring.Score(summary, activity)

	writeJSON(w, http.StatusOK, CheckResponse{
		Score:           score,
		Classification:  scoring.Classification(score),
		Justification:   scoring.Justification(summary, activity, score),
		WeatherData:     summary,
		RequestData:     req,
		Probabilities:   probs,
		Recommendations: scoring.Recommendations(summary, activity, probs),
	})
}

func (s *Server) handleProbabilities(w http.ResponseWriter, r *http.Request) {
	req, date, ok := s.decodeCheck(w, r)
	if !ok {
		return
	}
	coords, ok := s.resolve(r.Context(), w, req.Location)
	if !ok {
		return
	}

	summary := s.climate.WeatherSummary(r.Context(), coords.Latitude, coords.Longitude, date)
	writeJSON(w, http.StatusOK, climate.Probabilities(summary))
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	startYear, endYear := s.climate.DefaultTrendYears()

	q := r.URL.Query()
	if v := q.Get("start_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "start_year must be an integer")
			return
		}
		startYear = year
	}
	if v := q.Get("end_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "end_year must be an integer")
			return
		}
		endYear = year
	}
	if startYear > endYear {
		writeDetail(w, http.StatusBadRequest, "start_year must not be after end_year")
		return
	}

	coords, ok := s.resolve(r.Context(), w, location)
	if !ok {
		return
	}

	result := s.climate.Trends(r.Context(), coords.Latitude, coords.Longitude, startYear, endYear)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	result, err := s.climate.CompareLocations(r.Context(), req.Locations, date, scoring.Canonical(req.Activity))
	if err != nil {
		if errors.Is(err, climate.ErrNoLocations) {
			writeDetail(w, http.StatusNotFound, "No valid locations found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
