// Package storage provides ConsultationStore implementations. The rule
// engine itself never persists anything; a store is injected into the
// HTTP layer so deployments choose between an in-memory history and
// Postgres via DATABASE_URL.
package storage

import (
	"context"
	"sync"

	"github.com/Winfry/AfiCare-sub000/interfaces"
)

// maxHistoryPerPatient bounds the in-memory history so a chatty client
// cannot grow the process without limit.
const maxHistoryPerPatient = 100

// Compile-time check to ensure MemoryStore implements ConsultationStore
var _ interfaces.ConsultationStore = (*MemoryStore)(nil)

// MemoryStore keeps consultation records per patient in memory. Intended
// for development and tests; production deployments set DATABASE_URL.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]interfaces.ConsultationRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]interfaces.ConsultationRecord),
	}
}

// Save appends a record to the patient's history, evicting the oldest
// entry once the per-patient cap is reached.
func (s *MemoryStore) Save(ctx context.Context, record interfaces.ConsultationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patientID := record.Result.PatientID
	history := append(s.records[patientID], record)
	if len(history) > maxHistoryPerPatient {
		history = history[len(history)-maxHistoryPerPatient:]
	}
	s.records[patientID] = history
	return nil
}

// History returns the patient's stored records, oldest first.
func (s *MemoryStore) History(ctx context.Context, patientID string) ([]interfaces.ConsultationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.records[patientID]
	out := make([]interfaces.ConsultationRecord, len(history))
	copy(out, history)
	return out, nil
}
