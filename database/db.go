package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/korjavin/asthmabot/gauge"
	"github.com/korjavin/asthmabot/models"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// ErrCacheMiss is returned when no artifact is stored under a key.
var ErrCacheMiss = errors.New("cache miss")

// Drivers accepted by Open.
const (
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, needs cgo
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverRedis   = "redis"
	DriverNone    = "none"
)

// GaugeCache remembers where a rendered gauge was already uploaded, so an
// identical image is re-sent by reference. It stores rendering artifacts
// only, never answers.
type GaugeCache interface {
	GetGaugeFileID(ctx context.Context, key string) (string, error)
	PutGaugeFileID(ctx context.Context, key, fileID string) error
	Close() error
}

// GaugeKey identifies one rendered gauge.
func GaugeKey(instrument string, l models.Locale, score int) string {
	return fmt.Sprintf("gauge:v%d:%s:%s:%d", gauge.LayoutVersion, instrument, l, score)
}

// Open returns the cache selected by driver.
func Open(driver, path, redisAddr string) (GaugeCache, error) {
	switch driver {
	case DriverMattn, DriverModernc:
		return New(driver, path)
	case DriverRedis:
		return NewRedis(redisAddr)
	case DriverNone, "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", driver)
}

// DB is a SQLite-backed gauge cache
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and initializes tables
func New(driver, dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS gauge_cache (
			cache_key TEXT PRIMARY KEY,
			file_id TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	return err
}

// PutGaugeFileID stores the uploaded file id of a gauge
func (db *DB) PutGaugeFileID(ctx context.Context, key, fileID string) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT OR REPLACE INTO gauge_cache (cache_key, file_id, created_at) VALUES (?, ?, ?)",
		key, fileID, time.Now().Unix(),
	)
	return err
}

// GetGaugeFileID retrieves a cached file id
func (db *DB) GetGaugeFileID(ctx context.Context, key string) (string, error) {
	var fileID string
	err := db.conn.QueryRowContext(ctx,
		"SELECT file_id FROM gauge_cache WHERE cache_key = ?",
		key,
	).Scan(&fileID)

	if err == sql.ErrNoRows {
		return "", ErrCacheMiss
	}

	return fileID, err
}

// Nop caches nothing
type Nop struct{}

func (Nop) GetGaugeFileID(context.Context, string) (string, error) { return "", ErrCacheMiss }
func (Nop) PutGaugeFileID(context.Context, string, string) error   { return nil }
func (Nop) Close() error                                           { return nil }
