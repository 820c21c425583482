package validation

import (
	"reflect"
	"testing"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

func TestReportKnowledgeQualityClean(t *testing.T) {
	knowledge := &entities.Knowledge{
		Conditions: []entities.Condition{
			{
				Key:            "a",
				SymptomWeights: map[string]float64{"fever": 0.5, "cough": 0.4},
				Treatment:      []string{"rest"},
				DangerSigns:    []string{"unconscious"},
			},
		},
		Triage: entities.TriagePolicy{
			DangerKeywords: []string{"unconscious"},
		},
	}

	report := ReportKnowledgeQuality(knowledge)
	if !report.Clean() {
		t.Errorf("Expected clean report, got %+v", report)
	}
}

func TestReportKnowledgeQualityFlags(t *testing.T) {
	knowledge := &entities.Knowledge{
		Conditions: []entities.Condition{
			{
				Key:            "bare",
				SymptomWeights: map[string]float64{"fever": 0.5},
			},
			{
				Key:            "full",
				SymptomWeights: map[string]float64{"fever": 0.5, "cough": 0.4},
				Treatment:      []string{"rest"},
				DangerSigns:    []string{"confusion"},
			},
		},
		Triage: entities.TriagePolicy{
			DangerKeywords: []string{"confusion", "never referenced"},
		},
	}

	report := ReportKnowledgeQuality(knowledge)
	if report.Clean() {
		t.Fatal("Expected quality flags")
	}

	if !reflect.DeepEqual(report.ConditionsWithoutTreatment, []string{"bare"}) {
		t.Errorf("Unexpected ConditionsWithoutTreatment: %v", report.ConditionsWithoutTreatment)
	}
	if !reflect.DeepEqual(report.ConditionsWithoutDanger, []string{"bare"}) {
		t.Errorf("Unexpected ConditionsWithoutDanger: %v", report.ConditionsWithoutDanger)
	}
	if !reflect.DeepEqual(report.ConditionsWithSingleSymptom, []string{"bare"}) {
		t.Errorf("Unexpected ConditionsWithSingleSymptom: %v", report.ConditionsWithSingleSymptom)
	}
	if !reflect.DeepEqual(report.UnreferencedDangerKeywords, []string{"never referenced"}) {
		t.Errorf("Unexpected UnreferencedDangerKeywords: %v", report.UnreferencedDangerKeywords)
	}
}
