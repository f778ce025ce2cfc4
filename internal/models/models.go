package models

// DataSource values for WeatherSummary.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Confidence labels for probability estimates, derived from sample count.
const (
	ConfidenceHigh    = "HIGH"
	ConfidenceMedium  = "MEDIUM"
	ConfidenceLow     = "LOW"
	ConfidenceVeryLow = "VERY_LOW"
)

// Trend directions.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendInsufficientData = "insufficient_data"
)

// Coordinates is a resolved location.
type Coordinates struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// TemperatureDistribution summarises the pooled decade of daily temperatures.
type TemperatureDistribution struct {
	Mean        float64            `json:"mean"`
	Std         float64            `json:"std"`
	Percentiles map[string]float64 `json:"percentiles"`
}

// WeatherSummary is the aggregated historical weather for one (lat, lon, date).
// The raw series feed the probability estimator and are deliberately kept out
// of JSON payloads. RawWindSeries is in m/s; the averaged field is km/h.
type WeatherSummary struct {
	AvgTempC             float64                 `json:"avg_temp_c"`
	MinTempC             float64                 `json:"min_temp_c"`
	MaxTempC             float64                 `json:"max_temp_c"`
	AvgPrecipitationMmHr float64                 `json:"avg_precipitation_mmhr"`
	AvgWindSpeedKmh      float64                 `json:"avg_wind_speed_kmh"`
	AvgHumidityPercent   float64                 `json:"avg_humidity_percent"`
	AvgCloudCoverPercent float64                 `json:"avg_cloud_cover_percent"`
	AvgUVIndex           float64                 `json:"avg_uv_index"`
	DataSource           string                  `json:"data_source"`
	YearsAnalyzed        int                     `json:"years_analyzed"`
	TemperatureDist      TemperatureDistribution `json:"temperature_distribution"`

	RawTemperatureSeries   []float64 `json:"-"`
	RawPrecipitationSeries []float64 `json:"-"`
	RawWindSeries          []float64 `json:"-"`
	RawHumiditySeries      []float64 `json:"-"`
}

// ProbabilityEstimate is one tail probability against a fixed threshold.
type ProbabilityEstimate struct {
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold"`
	Confidence  string  `json:"confidence"`
}

// ExtremeProbabilities holds the five extreme-condition estimates.
type ExtremeProbabilities struct {
	VeryHot               ProbabilityEstimate `json:"very_hot"`
	VeryCold              ProbabilityEstimate `json:"very_cold"`
	VeryWet               ProbabilityEstimate `json:"very_wet"`
	VeryWindy             ProbabilityEstimate `json:"very_windy"`
	UncomfortableHumidity ProbabilityEstimate `json:"uncomfortable_humidity"`
}

// YearlyClimateRecord is one year of trend data. AvgTemp and TotalPrecip are
// nil for years where the provider returned no usable samples.
type YearlyClimateRecord struct {
	Year            int      `json:"year"`
	AvgTemp         *float64 `json:"avg_temp"`
	TotalPrecip     *float64 `json:"total_precip"`
	ExtremeHeatDays int      `json:"extreme_heat_days"`
	ExtremeColdDays int      `json:"extreme_cold_days"`
	HeavyRainDays   int      `json:"heavy_rain_days"`
}

// TrendAnalysis is the derived commentary on a fitted trend.
type TrendAnalysis struct {
	TempChangePerDecade     float64 `json:"temp_change_per_decade"`
	IncreasingExtremeEvents bool    `json:"increasing_extreme_events"`
}

// TrendResult is the outcome of a multi-year climate trend analysis.
type TrendResult struct {
	TrendDirection     string                `json:"trend_direction"`
	TemperatureTrend   float64               `json:"temperature_trend"`
	PrecipitationTrend float64               `json:"precipitation_trend"`
	YearlyData         []YearlyClimateRecord `json:"yearly_data"`
	Analysis           TrendAnalysis         `json:"analysis"`
}

// LocationResult is one ranked entry in a multi-location comparison.
type LocationResult struct {
	Location      string               `json:"location"`
	Score         int                  `json:"score"`
	WeatherData   WeatherSummary       `json:"weather_data"`
	Probabilities ExtremeProbabilities `json:"probabilities"`
}

// ComparisonResult ranks candidate locations for one date and activity.
type ComparisonResult struct {
	BestLocation   string           `json:"best_location"`
	ComparisonData []LocationResult `json:"comparison_data"`
	Activity       string           `json:"activity"`
	Date           string           `json:"date"`
}
