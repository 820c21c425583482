package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

func newRecord(patientID string, level entities.TriageLevel) interfaces.ConsultationRecord {
	return interfaces.ConsultationRecord{
		ID: uuid.New(),
		Result: entities.ConsultationResult{
			PatientID:   patientID,
			Timestamp:   time.Now().UTC(),
			TriageLevel: level,
		},
	}
}

func TestMemoryStoreSaveAndHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newRecord("PT-1", entities.TriageNonUrgent)
	second := newRecord("PT-1", entities.TriageUrgent)
	other := newRecord("PT-2", entities.TriageEmergency)

	for _, record := range []interfaces.ConsultationRecord{first, second, other} {
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	history, err := store.History(ctx, "PT-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(history))
	}

	// Oldest first
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Error("History order is not oldest first")
	}

	otherHistory, err := store.History(ctx, "PT-2")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(otherHistory) != 1 || otherHistory[0].ID != other.ID {
		t.Error("Histories are not isolated per patient")
	}
}

func TestMemoryStoreUnknownPatient(t *testing.T) {
	store := NewMemoryStore()

	history, err := store.History(context.Background(), "PT-404")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history, got %d records", len(history))
	}
}

func TestMemoryStoreEviction(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var lastID uuid.UUID
	for i := 0; i < maxHistoryPerPatient+10; i++ {
		record := newRecord("PT-1", entities.TriageNonUrgent)
		record.Result.Recommendations = []string{fmt.Sprintf("entry-%d", i)}
		lastID = record.ID
		if err := store.Save(ctx, record); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	history, err := store.History(ctx, "PT-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != maxHistoryPerPatient {
		t.Errorf("Expected history capped at %d, got %d", maxHistoryPerPatient, len(history))
	}

	// The newest record survives; the oldest ten were evicted.
	if history[len(history)-1].ID != lastID {
		t.Error("Newest record missing after eviction")
	}
	if history[0].Result.Recommendations[0] != "entry-10" {
		t.Errorf("Expected oldest surviving entry-10, got %s", history[0].Result.Recommendations[0])
	}
}

func TestMemoryStoreHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, newRecord("PT-1", entities.TriageNonUrgent)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	history, _ := store.History(ctx, "PT-1")
	history[0].Result.PatientID = "mutated"

	fresh, _ := store.History(ctx, "PT-1")
	if fresh[0].Result.PatientID != "PT-1" {
		t.Error("History must return a copy, not the internal slice")
	}
}
