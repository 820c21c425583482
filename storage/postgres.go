package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// Compile-time check to ensure PostgresStore implements ConsultationStore
var _ interfaces.ConsultationStore = (*PostgresStore)(nil)

// PostgresStore persists consultation records in a single table, with the
// full result document stored as JSONB so the record format tracks the
// ConsultationResult contract without schema churn.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and ensures the schema exists.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS consultations (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL,
			triage_level TEXT NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS consultations_patient_idx
			ON consultations (patient_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure consultations schema: %w", err)
	}
	return nil
}

// Save inserts one consultation record.
func (s *PostgresStore) Save(ctx context.Context, record interfaces.ConsultationRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal consultation result: %w", err)
	}

	query := `
		INSERT INTO consultations (id, patient_id, triage_level, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Result.PatientID,
		string(record.Result.TriageLevel),
		resultJSON,
		record.Result.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert consultation: %w", err)
	}
	return nil
}

// History returns all stored records for a patient, oldest first.
func (s *PostgresStore) History(ctx context.Context, patientID string) ([]interfaces.ConsultationRecord, error) {
	query := `
		SELECT id, result FROM consultations
		WHERE patient_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query consultations: %w", err)
	}
	defer rows.Close()

	var records []interfaces.ConsultationRecord
	for rows.Next() {
		var record interfaces.ConsultationRecord
		var resultJSON []byte
		if err := rows.Scan(&record.ID, &resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan consultation row: %w", err)
		}

		var result entities.ConsultationResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal consultation result: %w", err)
		}
		record.Result = result
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
