package triage

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

func TestConductConsultationScenarios(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name             string
		input            entities.PatientInput
		expectedTop      string // empty means no conditions expected
		expectedLevel    entities.TriageLevel
		expectedReferral bool
	}{
		{
			name: "classic malaria presentation",
			input: entities.PatientInput{
				PatientID: "PT-001",
				Age:       35,
				Gender:    "Male",
				Symptoms:  []string{"fever", "headache", "muscle aches", "chills", "sweating"},
				VitalSigns: map[string]float64{
					"temperature":      39.2,
					"pulse":            98,
					"systolic_bp":      130,
					"diastolic_bp":     85,
					"respiratory_rate": 20,
				},
			},
			expectedTop:      "malaria",
			expectedLevel:    entities.TriageNonUrgent,
			expectedReferral: false,
		},
		{
			name: "stacked emergency keywords",
			input: entities.PatientInput{
				PatientID: "PT-002",
				Age:       40,
				Symptoms:  []string{"difficulty breathing", "chest pain"},
			},
			expectedTop:      "pneumonia",
			expectedLevel:    entities.TriageEmergency,
			expectedReferral: true,
		},
		{
			name: "critical vital with no symptoms",
			input: entities.PatientInput{
				PatientID:  "PT-003",
				Age:        30,
				VitalSigns: map[string]float64{"temperature": 41.0},
			},
			expectedTop:      "",
			expectedLevel:    entities.TriageUrgent,
			expectedReferral: true,
		},
		{
			name: "respiratory emergency",
			input: entities.PatientInput{
				PatientID: "PT-004",
				Age:       45,
				Gender:    "Female",
				Symptoms:  []string{"cough", "fever", "difficulty breathing", "chest pain"},
				VitalSigns: map[string]float64{
					"temperature":      38.8,
					"respiratory_rate": 26,
					"pulse":            105,
				},
			},
			expectedTop:      "pneumonia",
			expectedLevel:    entities.TriageEmergency,
			expectedReferral: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.ConductConsultation(tt.input)
			if err != nil {
				t.Fatalf("ConductConsultation failed: %v", err)
			}

			if result.PatientID != tt.input.PatientID {
				t.Errorf("Expected patient_id %s, got %s", tt.input.PatientID, result.PatientID)
			}
			if result.TriageLevel != tt.expectedLevel {
				t.Errorf("Expected level %s, got %s", tt.expectedLevel, result.TriageLevel)
			}
			if result.ReferralNeeded != tt.expectedReferral {
				t.Errorf("Expected referral %v, got %v", tt.expectedReferral, result.ReferralNeeded)
			}

			if tt.expectedTop == "" {
				if len(result.SuspectedConditions) != 0 {
					t.Errorf("Expected no suspected conditions, got %v", result.SuspectedConditions)
				}
				if result.ConfidenceScore != 0 {
					t.Errorf("Expected zero confidence, got %v", result.ConfidenceScore)
				}
			} else {
				if len(result.SuspectedConditions) == 0 {
					t.Fatal("Expected suspected conditions")
				}
				if result.SuspectedConditions[0].ConditionKey != tt.expectedTop {
					t.Errorf("Expected top condition %s, got %s", tt.expectedTop, result.SuspectedConditions[0].ConditionKey)
				}
				if result.ConfidenceScore != result.SuspectedConditions[0].Confidence {
					t.Errorf("Confidence score %v does not match top match %v", result.ConfidenceScore, result.SuspectedConditions[0].Confidence)
				}
			}

			// Referral consistency invariant
			expectedReferral := result.TriageLevel == entities.TriageEmergency || result.TriageLevel == entities.TriageUrgent
			if result.ReferralNeeded != expectedReferral {
				t.Errorf("Referral %v inconsistent with level %s", result.ReferralNeeded, result.TriageLevel)
			}

			if result.Timestamp.IsZero() {
				t.Error("Expected a timestamp")
			}
		})
	}
}

func TestConductConsultationNegativeAge(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.ConductConsultation(entities.PatientInput{Age: -1})
	if err == nil {
		t.Fatal("Expected error for negative age")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestConductConsultationEmergencyRecommendations(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.ConductConsultation(entities.PatientInput{
		PatientID: "PT-010",
		Age:       40,
		Symptoms:  []string{"difficulty breathing", "chest pain"},
	})
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}

	if len(result.Recommendations) < 2 {
		t.Fatalf("Expected recommendations, got %v", result.Recommendations)
	}
	if result.Recommendations[0] != "IMMEDIATE MEDICAL ATTENTION REQUIRED" {
		t.Errorf("Expected emergency banner first, got %q", result.Recommendations[0])
	}
	if result.Recommendations[1] != "Transfer to emergency department immediately" {
		t.Errorf("Expected transfer advice second, got %q", result.Recommendations[1])
	}
	if !result.FollowUpRequired {
		t.Error("Expected follow-up for emergency")
	}

	// Generic self-care advice has no place in an emergency.
	for _, rec := range result.Recommendations {
		if rec == "Maintain healthy lifestyle habits" {
			t.Error("Generic advice should not appear for EMERGENCY")
		}
	}
}

func TestConductConsultationNonUrgentRecommendations(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.ConductConsultation(entities.PatientInput{
		PatientID: "PT-011",
		Age:       35,
		Gender:    "Male",
		Symptoms:  []string{"fever", "headache", "muscle aches", "chills", "sweating"},
		VitalSigns: map[string]float64{
			"temperature": 39.2,
		},
	})
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}

	// Malaria treatment advice leads, capped at four lines per condition.
	if len(result.Recommendations) == 0 {
		t.Fatal("Expected recommendations")
	}
	if !strings.Contains(result.Recommendations[0], "Artemether-lumefantrine") {
		t.Errorf("Expected malaria treatment first, got %q", result.Recommendations[0])
	}

	foundGeneric := false
	for _, rec := range result.Recommendations {
		if rec == "Monitor symptoms and return if condition worsens" {
			foundGeneric = true
		}
	}
	if !foundGeneric {
		t.Errorf("Expected generic advice for NON_URGENT, got %v", result.Recommendations)
	}
}

func TestConductConsultationChronicAdvisory(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.ConductConsultation(entities.PatientInput{
		PatientID:  "PT-012",
		Age:        50,
		Gender:     "Male",
		Symptoms:   []string{"excessive thirst", "frequent urination"},
		VitalSigns: map[string]float64{"blood_glucose": 250},
	})
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}

	if len(result.SuspectedConditions) == 0 || result.SuspectedConditions[0].ConditionKey != "diabetes" {
		t.Fatalf("Expected diabetes as top match, got %v", result.SuspectedConditions)
	}

	foundAdvisory := false
	for _, rec := range result.Recommendations {
		if rec == "Diabetes Mellitus requires ongoing follow-up care" {
			foundAdvisory = true
		}
	}
	if !foundAdvisory {
		t.Errorf("Expected chronic follow-up advisory, got %v", result.Recommendations)
	}

	if !result.FollowUpRequired {
		t.Error("Expected follow-up for a confident chronic match")
	}
}

func TestConductConsultationChiefComplaintScanned(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.ConductConsultation(entities.PatientInput{
		PatientID:      "PT-013",
		Age:            40,
		ChiefComplaint: "collapsed at home, found unconscious",
	})
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}

	if result.TriageLevel != entities.TriageEmergency {
		t.Errorf("Expected EMERGENCY from chief complaint keyword, got %s", result.TriageLevel)
	}
}

func TestConductConsultationDeterministic(t *testing.T) {
	engine := newTestEngine(t)

	input := entities.PatientInput{
		PatientID:  "PT-014",
		Age:        45,
		Gender:     "Female",
		Symptoms:   []string{"cough", "fever", "fatigue", "night sweats"},
		VitalSigns: map[string]float64{"temperature": 38.2},
	}

	first, err := engine.ConductConsultation(input)
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.ConductConsultation(input)
		if err != nil {
			t.Fatalf("ConductConsultation failed: %v", err)
		}
		// Timestamps differ by design; everything else must not.
		first.Timestamp = time.Time{}
		again.Timestamp = time.Time{}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Consultation is not deterministic: run %d differs", i)
		}
	}
}

func TestConsultationResultJSONRoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.ConductConsultation(entities.PatientInput{
		PatientID:  "PT-015",
		Age:        35,
		Gender:     "Male",
		Symptoms:   []string{"fever", "chills", "sweating"},
		VitalSigns: map[string]float64{"temperature": 38.7},
	})
	if err != nil {
		t.Fatalf("ConductConsultation failed: %v", err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded entities.ConsultationResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.PatientID != result.PatientID {
		t.Errorf("patient_id lost: %s vs %s", decoded.PatientID, result.PatientID)
	}
	if decoded.TriageLevel != result.TriageLevel {
		t.Errorf("triage_level lost: %s vs %s", decoded.TriageLevel, result.TriageLevel)
	}
	if math.Abs(decoded.ConfidenceScore-result.ConfidenceScore) > 0 {
		t.Errorf("confidence precision lost: %v vs %v", decoded.ConfidenceScore, result.ConfidenceScore)
	}
	if len(decoded.SuspectedConditions) != len(result.SuspectedConditions) {
		t.Fatalf("conditions lost: %d vs %d", len(decoded.SuspectedConditions), len(result.SuspectedConditions))
	}
	for i := range decoded.SuspectedConditions {
		if decoded.SuspectedConditions[i].Confidence != result.SuspectedConditions[i].Confidence {
			t.Errorf("condition %d confidence precision lost", i)
		}
	}
	if !reflect.DeepEqual(decoded.Recommendations, result.Recommendations) {
		t.Error("recommendations lost in round trip")
	}
	if decoded.ReferralNeeded != result.ReferralNeeded || decoded.FollowUpRequired != result.FollowUpRequired {
		t.Error("boolean flags lost in round trip")
	}
}
