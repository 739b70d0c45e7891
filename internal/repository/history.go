// Package repository persists interpretation history in PostgreSQL. History
// is optional: deployments without a database simply never construct a
// repository, and responses then carry no interpretation ID.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/domain"
)

// InterpretationRecord is one stored interpretation response. The full
// response body is kept as JSONB so a past interpretation can be replayed
// exactly as it was returned.
type InterpretationRecord struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID string          `json:"correlation_id"`
	PatientAge    int             `json:"patient_age"`
	PatientSex    string          `json:"patient_sex"`
	OverallFlag   string          `json:"overall_flag"`
	CriticalAlert bool            `json:"critical_alert"`
	Response      json.RawMessage `json:"response"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HistoryRepository handles interpretation history persistence.
type HistoryRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *pgxpool.Pool, logger *logrus.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: logger,
	}
}

// Save inserts a new interpretation record. A zero ID is assigned here.
func (r *HistoryRepository) Save(ctx context.Context, record *InterpretationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO interpretation_history (
			id, correlation_id, patient_age, patient_sex,
			overall_flag, critical_alert, response, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.CorrelationID,
		record.PatientAge,
		record.PatientSex,
		record.OverallFlag,
		record.CriticalAlert,
		record.Response,
		record.CreatedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"interpretation_id": record.ID,
			"correlation_id":    record.CorrelationID,
			"error":             err,
		}).Error("Failed to save interpretation record")
		return fmt.Errorf("saving interpretation record: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"interpretation_id": record.ID,
		"overall_flag":      record.OverallFlag,
		"critical_alert":    record.CriticalAlert,
	}).Debug("Interpretation record saved")

	return nil
}

// Get retrieves a record by ID. Returns domain.ErrNotFound when absent.
func (r *HistoryRepository) Get(ctx context.Context, id uuid.UUID) (*InterpretationRecord, error) {
	query := `
		SELECT id, correlation_id, patient_age, patient_sex,
			overall_flag, critical_alert, response, created_at
		FROM interpretation_history
		WHERE id = $1`

	record := &InterpretationRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.CorrelationID,
		&record.PatientAge,
		&record.PatientSex,
		&record.OverallFlag,
		&record.CriticalAlert,
		&record.Response,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting interpretation record: %w", err)
	}

	return record, nil
}

// ListRecent returns the most recent records, newest first.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*InterpretationRecord, error) {
	query := `
		SELECT id, correlation_id, patient_age, patient_sex,
			overall_flag, critical_alert, response, created_at
		FROM interpretation_history
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing interpretation records: %w", err)
	}
	defer rows.Close()

	var records []*InterpretationRecord
	for rows.Next() {
		record := &InterpretationRecord{}
		if err := rows.Scan(
			&record.ID,
			&record.CorrelationID,
			&record.PatientAge,
			&record.PatientSex,
			&record.OverallFlag,
			&record.CriticalAlert,
			&record.Response,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning interpretation record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountCriticalSince counts critical-alert records created at or after the
// cutoff, for operational reporting.
func (r *HistoryRepository) CountCriticalSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM interpretation_history WHERE critical_alert AND created_at >= $1`,
		since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting critical records: %w", err)
	}
	return count, nil
}
