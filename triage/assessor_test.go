package triage

import (
	"math"
	"testing"

	"github.com/Winfry/AfiCare-sub000/data"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

func TestAssessTriageKeywordStacking(t *testing.T) {
	engine := newTestEngine(t)

	assessment := engine.AssessTriage([]string{"difficulty breathing", "chest pain"}, nil, 40, "Male", nil)

	if math.Abs(assessment.Score-2.0) > 1e-9 {
		t.Errorf("Expected score 2.0 from two stacked keywords, got %v", assessment.Score)
	}
	if assessment.Level != entities.TriageEmergency {
		t.Errorf("Expected EMERGENCY, got %s", assessment.Level)
	}
	if !assessment.ReferralNeeded {
		t.Error("Expected referral for EMERGENCY")
	}
	if len(assessment.DangerSignsFound) != 2 {
		t.Errorf("Expected 2 danger signs, got %v", assessment.DangerSignsFound)
	}
}

func TestAssessTriageCriticalTemperature(t *testing.T) {
	engine := newTestEngine(t)

	assessment := engine.AssessTriage(nil, map[string]float64{"temperature": 41.0}, 30, "Male", nil)

	if math.Abs(assessment.Score-0.8) > 1e-9 {
		t.Errorf("Expected score 0.8, got %v", assessment.Score)
	}
	if assessment.Level != entities.TriageUrgent {
		t.Errorf("Expected URGENT at score 0.8, got %s", assessment.Level)
	}
	if !assessment.ReferralNeeded {
		t.Error("Expected referral for URGENT")
	}
	if len(assessment.DangerSignsFound) != 1 || assessment.DangerSignsFound[0] != "Critical temperature: 41°C" {
		t.Errorf("Unexpected danger signs: %v", assessment.DangerSignsFound)
	}
}

func TestAssessTriageDefaultVitalsAreSafe(t *testing.T) {
	engine := newTestEngine(t)

	// No symptoms, no vitals: every default reading is normal and the
	// patient is NON_URGENT with no referral.
	assessment := engine.AssessTriage(nil, nil, 30, "Male", nil)

	if assessment.Score != 0 {
		t.Errorf("Expected score 0 for healthy defaults, got %v", assessment.Score)
	}
	if assessment.Level != entities.TriageNonUrgent {
		t.Errorf("Expected NON_URGENT, got %s", assessment.Level)
	}
	if assessment.ReferralNeeded {
		t.Error("Expected no referral")
	}
	if len(assessment.DangerSignsFound) != 0 {
		t.Errorf("Expected no danger signs, got %v", assessment.DangerSignsFound)
	}
}

func TestAssessTriageVitalThresholds(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		vitals   map[string]float64
		expected float64
	}{
		{"high temperature", map[string]float64{"temperature": 40.5}, 0.8},
		{"low temperature", map[string]float64{"temperature": 34.0}, 0.8},
		{"high pulse", map[string]float64{"pulse": 130}, 0.6},
		{"low pulse", map[string]float64{"pulse": 45}, 0.6},
		{"high respiration", map[string]float64{"respiratory_rate": 35}, 0.7},
		{"low respiration", map[string]float64{"respiratory_rate": 6}, 0.7},
		{"high systolic", map[string]float64{"systolic_bp": 190}, 0.5},
		{"low systolic", map[string]float64{"systolic_bp": 85}, 0.5},
		{"high glucose", map[string]float64{"blood_glucose": 450}, 0.7},
		{"low glucose", map[string]float64{"blood_glucose": 60}, 0.7},
		{"glucose not measured", map[string]float64{}, 0},
		{"borderline normal", map[string]float64{"temperature": 39.9, "pulse": 120, "respiratory_rate": 30}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := engine.AssessTriage(nil, tt.vitals, 30, "Male", nil)
			if math.Abs(assessment.Score-tt.expected) > 1e-9 {
				t.Errorf("Expected score %v, got %v", tt.expected, assessment.Score)
			}
		})
	}
}

func TestAssessTriageAgeAdjustments(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		age      int
		expected float64
	}{
		{"infant", 0, 0.3},
		{"young child", 3, 0.2},
		{"adult", 30, 0},
		{"elderly", 80, 0.2},
		{"boundary five", 5, 0},
		{"boundary seventy-five", 75, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := engine.AssessTriage(nil, nil, tt.age, "Male", nil)
			if math.Abs(assessment.Score-tt.expected) > 1e-9 {
				t.Errorf("Expected score %v for age %d, got %v", tt.expected, tt.age, assessment.Score)
			}
		})
	}
}

func TestAssessTriagePregnancyRisk(t *testing.T) {
	engine := newTestEngine(t)

	// "severe headache" is both a danger keyword (+1.0) and a pregnancy
	// risk term (+0.3) for a woman of childbearing age.
	assessment := engine.AssessTriage([]string{"severe headache"}, nil, 28, "Female", nil)

	if math.Abs(assessment.Score-1.3) > 1e-9 {
		t.Errorf("Expected score 1.3, got %v", assessment.Score)
	}
	if assessment.Level != entities.TriageEmergency {
		t.Errorf("Expected EMERGENCY, got %s", assessment.Level)
	}

	foundComplication := false
	for _, sign := range assessment.DangerSignsFound {
		if sign == "Possible pregnancy complication" {
			foundComplication = true
		}
	}
	if !foundComplication {
		t.Errorf("Expected pregnancy complication danger sign, got %v", assessment.DangerSignsFound)
	}

	// Same presentation for a male patient scores the keyword only.
	male := engine.AssessTriage([]string{"severe headache"}, nil, 28, "Male", nil)
	if math.Abs(male.Score-1.0) > 1e-9 {
		t.Errorf("Expected score 1.0 for male patient, got %v", male.Score)
	}
}

func TestAssessTriageChronicHistory(t *testing.T) {
	engine := newTestEngine(t)

	assessment := engine.AssessTriage(nil, nil, 30, "Male", []string{"Type 2 Diabetes"})
	if math.Abs(assessment.Score-0.1) > 1e-9 {
		t.Errorf("Expected score 0.1 for chronic history, got %v", assessment.Score)
	}

	// Multiple chronic conditions still bump only once.
	assessment = engine.AssessTriage(nil, nil, 30, "Male", []string{"diabetes", "hypertension", "HIV"})
	if math.Abs(assessment.Score-0.1) > 1e-9 {
		t.Errorf("Expected single 0.1 bump for multiple chronic entries, got %v", assessment.Score)
	}
}

func TestAssessTriageKeywordIsOneDirectional(t *testing.T) {
	engine := newTestEngine(t)

	// A plain "headache" must not trigger the "severe headache" keyword.
	assessment := engine.AssessTriage([]string{"headache"}, nil, 30, "Male", nil)
	if assessment.Score != 0 {
		t.Errorf("Expected score 0 for plain headache, got %v (signs %v)", assessment.Score, assessment.DangerSignsFound)
	}
}

func TestLevelForScore(t *testing.T) {
	cutoffs := entities.TriageCutoffs{Emergency: 1.0, Urgent: 0.7, LessUrgent: 0.4}

	tests := []struct {
		score    float64
		expected entities.TriageLevel
	}{
		{2.5, entities.TriageEmergency},
		{1.0, entities.TriageEmergency},
		{0.99, entities.TriageUrgent},
		{0.7, entities.TriageUrgent},
		{0.69, entities.TriageLessUrgent},
		{0.4, entities.TriageLessUrgent},
		{0.39, entities.TriageNonUrgent},
		{0, entities.TriageNonUrgent},
	}

	for _, tt := range tests {
		if got := levelForScore(tt.score, cutoffs); got != tt.expected {
			t.Errorf("levelForScore(%v) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}

func TestLevelForScoreUnloadedPolicy(t *testing.T) {
	// A zero-value policy must not classify everything as an emergency.
	if got := levelForScore(0, entities.TriageCutoffs{}); got != entities.TriageNonUrgent {
		t.Errorf("Expected NON_URGENT under zero cutoffs, got %s", got)
	}
	if got := levelForScore(2.0, entities.TriageCutoffs{}); got != entities.TriageEmergency {
		t.Errorf("Expected EMERGENCY for high score under zero cutoffs, got %s", got)
	}
}

func TestAssessTriageEmptyContainer(t *testing.T) {
	engine := NewEngine(data.NewDataContainer())

	// No knowledge loaded: no keywords can fire, but vital thresholds and
	// the fallback cutoffs still classify.
	assessment := engine.AssessTriage([]string{"difficulty breathing"}, map[string]float64{"temperature": 41.0}, 30, "Male", nil)
	if math.Abs(assessment.Score-0.8) > 1e-9 {
		t.Errorf("Expected score 0.8 from vitals alone, got %v", assessment.Score)
	}
	if assessment.Level != entities.TriageUrgent {
		t.Errorf("Expected URGENT, got %s", assessment.Level)
	}
}
