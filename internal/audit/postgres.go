package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL, for
// deployments where the audit trail must be shared across nodes.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL audit store. It expects the
// schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL audit store from a
// connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Record appends an event to the trail.
func (s *PostgresStore) Record(ctx context.Context, event *Event) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid audit event type %q", event.Type)
	}

	now := time.Now()

	query := `
		INSERT INTO audit_events (
			event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
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
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	event.CreatedAt = now
	return nil
}

// List returns events newest first, with pagination.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Event, error) {
	query := `
		SELECT id, event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		FROM audit_events
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByCorrelation returns all events recorded for one request.
func (s *PostgresStore) ListByCorrelation(ctx context.Context, correlationID string) ([]*Event, error) {
	query := `
		SELECT id, event_type, correlation_id, test_code, test_name,
			value, unit, direction, patient_age, patient_sex, message, created_at
		FROM audit_events
		WHERE correlation_id = $1
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Count returns the total number of recorded events.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// ExportJSON writes the full trail to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
