package data

import (
	"sync"
	"testing"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

func testKnowledge() (*entities.Knowledge, map[string]entities.Condition) {
	knowledge := &entities.Knowledge{
		Version: "test-1",
		Conditions: []entities.Condition{
			{Key: "malaria", DisplayName: "Malaria", SymptomWeights: map[string]float64{"fever": 0.9}},
			{Key: "pneumonia", DisplayName: "Pneumonia", SymptomWeights: map[string]float64{"cough": 0.9}},
		},
		Triage: entities.TriagePolicy{
			DangerKeywords: []string{"unconscious"},
			Cutoffs:        entities.TriageCutoffs{Emergency: 1.0, Urgent: 0.7, LessUrgent: 0.4},
		},
	}
	conditionsMap := map[string]entities.Condition{
		"malaria":   knowledge.Conditions[0],
		"pneumonia": knowledge.Conditions[1],
	}
	return knowledge, conditionsMap
}

func TestNewDataContainer(t *testing.T) {
	dc := NewDataContainer()

	if dc == nil {
		t.Fatal("NewDataContainer returned nil")
	}

	// Test initial state
	if dc.IsUpdating() {
		t.Error("NewDataContainer should not be updating")
	}

	if !dc.GetLastUpdated().IsZero() {
		t.Error("NewDataContainer should have zero lastUpdated time")
	}

	if len(dc.GetConditions()) != 0 {
		t.Error("NewDataContainer should have empty conditions")
	}

	if len(dc.GetConditionsMap()) != 0 {
		t.Error("NewDataContainer should have empty conditions map")
	}

	if dc.GetKnowledgeVersion() != "" {
		t.Error("NewDataContainer should have empty version")
	}

	if len(dc.GetTriagePolicy().DangerKeywords) != 0 {
		t.Error("NewDataContainer should have empty triage policy")
	}
}

func TestUpdateKnowledge(t *testing.T) {
	dc := NewDataContainer()
	knowledge, conditionsMap := testKnowledge()

	dc.UpdateKnowledge(knowledge, conditionsMap)

	if len(dc.GetConditions()) != 2 {
		t.Errorf("Expected 2 conditions, got %d", len(dc.GetConditions()))
	}
	if len(dc.GetConditionsMap()) != 2 {
		t.Errorf("Expected 2 map entries, got %d", len(dc.GetConditionsMap()))
	}
	if dc.GetConditionsMap()["malaria"].DisplayName != "Malaria" {
		t.Error("Conditions map entry missing")
	}
	if dc.GetKnowledgeVersion() != "test-1" {
		t.Errorf("Expected version test-1, got %s", dc.GetKnowledgeVersion())
	}
	if len(dc.GetTriagePolicy().DangerKeywords) != 1 {
		t.Error("Triage policy not stored")
	}
	if dc.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set after UpdateKnowledge")
	}
}

func TestBeginUpdateEndUpdate(t *testing.T) {
	dc := NewDataContainer()

	if dc.IsUpdating() {
		t.Error("Should not be updating initially")
	}

	if !dc.BeginUpdate() {
		t.Error("BeginUpdate should return true first time")
	}

	if !dc.IsUpdating() {
		t.Error("Should be updating after BeginUpdate")
	}

	// Second BeginUpdate should fail while updating
	if dc.BeginUpdate() {
		t.Error("BeginUpdate should return false while updating")
	}

	dc.EndUpdate()

	if dc.IsUpdating() {
		t.Error("Should not be updating after EndUpdate")
	}

	if !dc.BeginUpdate() {
		t.Error("BeginUpdate should succeed after EndUpdate")
	}
	dc.EndUpdate()
}

func TestConcurrentReadsDuringUpdate(t *testing.T) {
	dc := NewDataContainer()
	knowledge, conditionsMap := testKnowledge()
	dc.UpdateKnowledge(knowledge, conditionsMap)

	var wg sync.WaitGroup

	// Concurrent readers must always observe a complete snapshot.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				conditions := dc.GetConditions()
				if len(conditions) != 2 {
					t.Errorf("Reader observed partial snapshot: %d conditions", len(conditions))
					return
				}
				if dc.GetTriagePolicy().Cutoffs.Emergency != 1.0 {
					t.Error("Reader observed partial triage policy")
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				dc.UpdateKnowledge(knowledge, conditionsMap)
			}
		}()
	}

	wg.Wait()
}
