// Package store persists the service's caches in SQLite: geocoding results
// and raw provider payloads. Computed weather results are never stored.
package store

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/lox/paradecast/internal/models"
)

type Store struct {
	db         *sql.DB
	payloadTTL time.Duration
}

// New wraps an opened database. payloadTTL bounds how long a cached provider
// payload may be served before it is treated as a miss.
func New(db *sql.DB, payloadTTL time.Duration) *Store {
	return &Store{db: db, payloadTTL: payloadTTL}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// GetGeocode returns a cached resolution for the name, if any.
func (s *Store) GetGeocode(name string) (models.Coordinates, bool, error) {
	row := s.db.QueryRow(`
		SELECT latitude, longitude, display_name
		FROM geocode_cache
		WHERE name = ?
	`, name)

	var coords models.Coordinates
	err := row.Scan(&coords.Latitude, &coords.Longitude, &coords.DisplayName)
	if err == sql.ErrNoRows {
		return models.Coordinates{}, false, nil
	}
	if err != nil {
		return models.Coordinates{}, false, err
	}
	return coords, true, nil
}

// PutGeocode stores or refreshes a resolution.
func (s *Store) PutGeocode(name string, coords models.Coordinates) error {
	_, err := s.db.Exec(`
		INSERT INTO geocode_cache (name, latitude, longitude, display_name, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			updated_at = excluded.updated_at
	`, name, coords.Latitude, coords.Longitude, coords.DisplayName, time.Now().UTC())
	return err
}

// GetPayload returns a cached provider payload. Entries older than the TTL
// are reported as misses and removed.
func (s *Store) GetPayload(key string) ([]byte, bool, error) {
	row := s.db.QueryRow(`
		SELECT payload_compressed, fetched_at
		FROM provider_payloads
		WHERE cache_key = ?
	`, key)

	var compressed []byte
	var fetchedAt time.Time
	err := row.Scan(&compressed, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if s.payloadTTL > 0 && time.Since(fetchedAt) > s.payloadTTL {
		_, _ = s.db.Exec(`DELETE FROM provider_payloads WHERE cache_key = ?`, key)
		return nil, false, nil
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false, fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, false, fmt.Errorf("decompress payload: %w", err)
	}
	return payload, true, nil
}

// PutPayload stores a provider payload, gzip-compressed.
func (s *Store) PutPayload(key string, payload []byte) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}

	_, err := s.db.Exec(`
		INSERT INTO provider_payloads (cache_key, payload_compressed, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload_compressed = excluded.payload_compressed,
			fetched_at = excluded.fetched_at
	`, key, buf.Bytes(), time.Now().UTC())
	return err
}

// PrunePayloads deletes expired payload entries, returning the number removed.
func (s *Store) PrunePayloads() (int64, error) {
	if s.payloadTTL <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-s.payloadTTL)
	result, err := s.db.Exec(`DELETE FROM provider_payloads WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
