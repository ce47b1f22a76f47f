package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sigvec/internal/model"
)

// SigDB provides SQLite-based storage for vectorization results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file rather than one per image
// so history queries and backup/restore stay simple.
type SigDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SigDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SigDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*SigDB, error) {
	dbPath := filepath.Join(dbDir, "sigvec.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SigDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SigDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SigDB) createTables() error {
	schema := `
	-- Vectorization results, one row per completed run
	CREATE TABLE IF NOT EXISTS signatures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		width INTEGER,
		height INTEGER,
		threshold INTEGER,
		stroke_count INTEGER,
		point_count INTEGER,
		svg TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_signatures_source ON signatures(source);
	CREATE INDEX IF NOT EXISTS idx_signatures_timestamp ON signatures(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult stores a completed vectorization report together with its
// rendered SVG document. Returns the new row ID.
func (sdb *SigDB) SaveResult(ctx context.Context, report *model.VectorizeReport, svgDoc string) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO signatures (source, width, height, threshold, stroke_count, point_count, svg, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sdb.db.ExecContext(ctx, query,
		report.Source,
		report.Width,
		report.Height,
		report.Threshold,
		report.StrokeCount,
		report.PointCount,
		svgDoc,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save result: %w", err)
	}

	return result.LastInsertId()
}

// GetLatestResult retrieves the most recent report for a source image.
// Returns nil without error when the source was never vectorized.
func (sdb *SigDB) GetLatestResult(ctx context.Context, source string) (*model.VectorizeReport, error) {
	query := `
	SELECT report_json FROM signatures
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, source).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var report model.VectorizeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetResultByID retrieves a report by its database ID.
// Returns nil without error when the ID does not exist.
func (sdb *SigDB) GetResultByID(ctx context.Context, id int64) (*model.VectorizeReport, error) {
	query := `
	SELECT report_json FROM signatures
	WHERE id = ?
	`

	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var report model.VectorizeReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetSVGByID retrieves the stored SVG document by row ID.
// Returns an empty string without error when the ID does not exist.
func (sdb *SigDB) GetSVGByID(ctx context.Context, id int64) (string, error) {
	query := `
	SELECT svg FROM signatures
	WHERE id = ?
	`

	var svgDoc sql.NullString
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&svgDoc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get svg: %w", err)
	}

	return svgDoc.String, nil
}

// ListSources returns all distinct source labels in the database.
func (sdb *SigDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM signatures
	ORDER BY source
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// ResultMetadata contains summary information about one stored result.
// This is used for listing history without loading full reports.
type ResultMetadata struct {
	// ID is the unique identifier of the result in the database.
	ID int64

	// Source is the input image path or label.
	Source string

	// Timestamp is when the vectorization was performed.
	Timestamp time.Time

	// Width and Height are the canvas dimensions.
	Width  int
	Height int

	// StrokeCount and PointCount summarize the stored path.
	StrokeCount int
	PointCount  int
}

// GetHistory retrieves result metadata for a source image, newest first.
// An empty source lists every stored result.
func (sdb *SigDB) GetHistory(ctx context.Context, source string) ([]ResultMetadata, error) {
	query := `
	SELECT id, source, timestamp, width, height, stroke_count, point_count
	FROM signatures
	`
	args := make([]any, 0, 1)
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY timestamp DESC, id DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []ResultMetadata
	for rows.Next() {
		var meta ResultMetadata
		var timestamp string

		if err := rows.Scan(&meta.ID, &meta.Source, &timestamp, &meta.Width, &meta.Height, &meta.StrokeCount, &meta.PointCount); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
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
// formats; SQLite returns different shapes depending on configuration.
// Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
