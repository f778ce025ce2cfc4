package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/paradecast/internal/api"
	"github.com/lox/paradecast/internal/climate"
	"github.com/lox/paradecast/internal/geocode"
	"github.com/lox/paradecast/internal/power"
	"github.com/lox/paradecast/internal/store"
)

var cli struct {
	Addr           string        `env:"ADDR" default:":8080" help:"HTTP listen address."`
	DB             string        `env:"DB_PATH" default:"data/paradecast.db" help:"Path to the SQLite cache database."`
	NominatimURL   string        `env:"NOMINATIM_URL" default:"" help:"Nominatim base URL (default: openstreetmap.org)."`
	PowerURL       string        `env:"POWER_URL" default:"" help:"NASA POWER base URL (default: power.larc.nasa.gov)."`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" default:"30s" help:"Timeout for upstream HTTP calls."`
	GeocodeRetries int           `env:"GEOCODE_RETRIES" default:"3" help:"Max retries for geocoding lookups."`
	CacheTTL       time.Duration `env:"CACHE_TTL" default:"24h" help:"TTL for cached provider payloads."`
	CompareWorkers int           `env:"COMPARE_WORKERS" default:"4" help:"Concurrent workers for comparison and trend fetches."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("paradecast"),
		kong.Description("Historical weather suitability service backed by NASA POWER."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db, cli.CacheTTL)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	if pruned, err := st.PrunePayloads(); err != nil {
		log.Printf("prune payload cache: %v", err)
	} else if pruned > 0 {
		log.Printf("pruned %d expired payloads", pruned)
	}

	clock := clockwork.NewRealClock()
	resolver := geocode.NewCachedResolver(
		geocode.NewClient(cli.NominatimURL, cli.HTTPTimeout, cli.GeocodeRetries), st)
	provider := power.NewClient(cli.PowerURL, cli.HTTPTimeout, st)
	svc := climate.NewService(resolver, provider, clock, cli.CompareWorkers)
	server := api.NewServer(svc, st, provider, cli.Addr, clock)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on %s", cli.Addr)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
