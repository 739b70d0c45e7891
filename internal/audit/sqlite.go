package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite. It is the default
// backend for single-node deployments.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite audit store, creating the database
// file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEvent scans a row into an Event struct.
func scanEvent(s scanner) (*Event, error) {
	ev := &Event{}
	var eventType string

	err := s.Scan(
		&ev.ID, &eventType, &ev.CorrelationID,
		&ev.TestCode, &ev.TestName, &ev.Value, &ev.Unit, &ev.Direction,
		&ev.PatientAge, &ev.PatientSex, &ev.Message, &ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.Type = EventType(eventType)
	return ev, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		correlation_id TEXT NOT NULL,
		test_code TEXT DEFAULT '',
		test_name TEXT DEFAULT '',
		value REAL DEFAULT 0,
		unit TEXT DEFAULT '',
		direction TEXT DEFAULT '',
		patient_age INTEGER NOT NULL,
		patient_sex TEXT DEFAULT '',
		message TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_audit_correlation ON audit_events(correlation_id);
	CREATE INDEX IF NOT EXISTS idx_audit_event_type ON audit_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_events(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Record appends an event to the trail.
func (s *SQLiteStore) Record(ctx context.Context, event *Event) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid audit event type %q", event.Type)
	}

	now := time.Now()
	event.CreatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (
			event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(event.Type),
		event.CorrelationID,
		event.TestCode,
		event.TestName,
		event.Value,
		event.Unit,
		event.Direction,
		event.PatientAge,
		event.PatientSex,
		event.Message,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	event.ID = id

	return nil
}

// List returns events newest first, with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		FROM audit_events
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByCorrelation returns all events recorded for one request.
func (s *SQLiteStore) ListByCorrelation(ctx context.Context, correlationID string) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		FROM audit_events
		WHERE correlation_id = ?
		ORDER BY id ASC
	`, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*Event, error) {
	var result []*Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}

// Count returns the total number of recorded events.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events").Scan(&count)
	return count, err
}

// maxExportLimit is the maximum number of entries to export at once.
const maxExportLimit = 1000000

// ExportJSON writes the full trail to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Events:     all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
