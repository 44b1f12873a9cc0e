package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/webharvest/internal/model"
)

// FileName is the journal database file name under the journal directory.
const FileName = "webharvest.db"

// Journal records fetch history in a SQLite database.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// logger reports insert failures, which are deliberately non-fatal.
	logger *slog.Logger
}

// Options configures Journal behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; the crawl is
	// single-threaded but summary queries may run while inserts land.
	EnableWAL bool

	// Logger reports journal write failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default journal options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Journal in the given directory.
// With CreateIfNotExists the directory and database file are created;
// otherwise a missing database is an error.
func Open(dir string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check journal path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite supports only one writer; keep the pool minimal.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     db,
		dbPath: dbPath,
		logger: opts.Logger,
	}
	if j.logger == nil {
		j.logger = slog.Default()
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// createTables creates the journal schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- Fetch records store individual page fetches, stash hits included
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		stash_key TEXT,
		cache_hit INTEGER NOT NULL DEFAULT 0,
		status_code INTEGER,
		recovered INTEGER NOT NULL DEFAULT 0,
		bytes INTEGER NOT NULL DEFAULT 0,
		body_hash TEXT,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is a stored fetch record.
type Entry struct {
	ID         int64
	URL        string
	Key        string
	CacheHit   bool
	StatusCode int
	Recovered  bool
	Bytes      int
	BodyHash   string
	Elapsed    time.Duration
	FetchedAt  time.Time
}

// InsertFetch inserts one fetch record.
func (j *Journal) InsertFetch(ctx context.Context, rec model.FetchRecord) error {
	query := `
	INSERT INTO fetches (url, stash_key, cache_hit, status_code, recovered, bytes, body_hash, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		rec.URL,
		rec.Key,
		rec.CacheHit,
		rec.StatusCode,
		rec.Recovered,
		rec.Bytes,
		rec.BodyHash,
		rec.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}

	return nil
}

// ObserveFetch implements the fetcher's observer hook. Insert failures
// are logged, never propagated: losing a history row must not abort a
// crawl in progress.
func (j *Journal) ObserveFetch(ctx context.Context, rec model.FetchRecord) {
	if err := j.InsertFetch(ctx, rec); err != nil {
		j.logger.Warn("failed to journal fetch", "url", rec.URL, "error", err)
	}
}

// RecentFetches returns the most recent fetch records, newest first.
func (j *Journal) RecentFetches(ctx context.Context, limit int) ([]Entry, error) {
	query := `
	SELECT id, url, stash_key, cache_hit, status_code, recovered, bytes, body_hash, elapsed_ms, fetched_at
	FROM fetches
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var elapsedMS int64
		var fetchedAt string

		err := rows.Scan(
			&e.ID,
			&e.URL,
			&e.Key,
			&e.CacheHit,
			&e.StatusCode,
			&e.Recovered,
			&e.Bytes,
			&e.BodyHash,
			&elapsedMS,
			&fetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch record: %w", err)
		}

		e.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		e.FetchedAt = parseTimestamp(fetchedAt)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Totals aggregates fetch counts for a time window.
type Totals struct {
	// Fetches is the total number of recorded fetches.
	Fetches int

	// CacheHits is how many were served from the stash.
	CacheHits int

	// NetworkFetches is how many reached the network.
	NetworkFetches int

	// Recovered is how many network fetches were absorbed failures.
	Recovered int

	// Bytes is the total size of all returned bodies.
	Bytes int64
}

// SummarizeSince aggregates the fetches recorded within the last window.
func (j *Journal) SummarizeSince(ctx context.Context, window time.Duration) (*Totals, error) {
	query := `
	SELECT
		COUNT(*),
		COALESCE(SUM(cache_hit), 0),
		COALESCE(SUM(CASE WHEN cache_hit = 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(recovered), 0),
		COALESCE(SUM(bytes), 0)
	FROM fetches
	WHERE fetched_at > datetime('now', ?)
	`

	// SQLite datetime modifier format, e.g. "-90 seconds".
	modifier := fmt.Sprintf("-%d seconds", int(window.Seconds()))

	var t Totals
	err := j.db.QueryRowContext(ctx, query, modifier).Scan(
		&t.Fetches,
		&t.CacheHits,
		&t.NetworkFetches,
		&t.Recovered,
		&t.Bytes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize fetches: %w", err)
	}

	return &t, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats; SQLite's output format depends on configuration. Returns
// zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
