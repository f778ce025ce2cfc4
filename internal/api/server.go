package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/paradecast/internal/climate"
	"github.com/lox/paradecast/internal/metrics"
)

// Pinger reports whether the cache store is reachable.
type Pinger interface {
	Ping() error
}

// BreakerReporter exposes the provider circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

type Server struct {
	climate  *climate.Service
	store    Pinger
	provider BreakerReporter
	validate *validator.Validate
	clock    clockwork.Clock
	addr     string
}

// NewServer builds the HTTP server. store and provider may be nil; the
// health endpoint simply omits the corresponding check.
func NewServer(svc *climate.Service, store Pinger, provider BreakerReporter, addr string, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Server{
		climate:  svc,
		store:    store,
		provider: provider,
		validate: validator.New(),
		clock:    clock,
		addr:     addr,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/check", s.handleCheck)
	mux.HandleFunc("POST /api/probabilities", s.handleProbabilities)
	mux.HandleFunc("GET /api/trends/{location}", s.handleTrends)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/export/csv", s.handleExportCSV)
	mux.HandleFunc("POST /api/export/json", s.handleExportJSON)
	mux.HandleFunc("GET /api/validate", s.handleValidate)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return cors(instrument(mux))
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if strings.HasPrefix(route, "/api/trends/") {
			route = "/api/trends/{location}"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

type healthStatus struct {
	Status  string `json:"status"`
	Cache   string `json:"cache,omitempty"`
	Breaker string `json:"provider_breaker,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := healthStatus{Status: "ok"}

	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			health.Cache = "unreachable: " + err.Error()
			health.Status = "degraded"
		} else {
			health.Cache = "ok"
		}
	}
	if s.provider != nil {
		health.Breaker = s.provider.BreakerState()
		if health.Breaker == "open" {
			health.Status = "degraded"
		}
	}

	code := http.StatusOK
	if health.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}
