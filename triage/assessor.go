package triage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// Urgency contributions. Danger keywords stack at 1.0 each with no cap;
// multiple simultaneous red flags are meant to saturate the scale.
const (
	keywordWeight        = 1.0
	temperatureWeight    = 0.8
	respirationWeight    = 0.7
	glucoseWeight        = 0.7
	pulseWeight          = 0.6
	bloodPressureWeight  = 0.5
	infantWeight         = 0.3
	extremeAgeWeight     = 0.2
	pregnancyRiskWeight  = 0.3
	chronicHistoryWeight = 0.1
)

// pregnancyRiskTerms are the symptom fragments that, for a patient of
// childbearing age, suggest a pregnancy complication.
var pregnancyRiskTerms = []string{"severe_headache", "visual_disturbances", "severe_abdominal_pain"}

// chronicHistoryTerms bump urgency slightly for patients with a known
// chronic illness in their history.
var chronicHistoryTerms = []string{"diabetes", "hypertension", "tuberculosis", "hiv"}

// AssessTriage determines the urgency level independently of condition
// matching. It never fails: unrecognized symptom text contributes nothing
// and absent vitals take their documented defaults.
func (e *Engine) AssessTriage(symptoms []string, vitalSigns map[string]float64, age int, gender string, medicalHistory []string) entities.TriageAssessment {
	input := entities.PatientInput{
		Age:            age,
		Gender:         gender,
		Symptoms:       symptoms,
		VitalSigns:     vitalSigns,
		MedicalHistory: medicalHistory,
	}
	return e.assessTriage(input)
}

func (e *Engine) assessTriage(input entities.PatientInput) entities.TriageAssessment {
	policy := e.dataStore.GetTriagePolicy()

	var score float64
	var dangerSigns []string

	blob := symptomBlob(input)

	for _, keyword := range policy.DangerKeywords {
		normalized := normalizeTerm(keyword)
		if normalized != "" && strings.Contains(blob, normalized) {
			score += keywordWeight
			dangerSigns = append(dangerSigns, displayTerm(normalized))
		}
	}

	vitalScore, vitalDangerSigns := assessVitals(input)
	score += vitalScore
	dangerSigns = append(dangerSigns, vitalDangerSigns...)

	switch {
	case input.Age < 1:
		score += infantWeight
		dangerSigns = append(dangerSigns, "Infant under 12 months")
	case input.Age < 5 || input.Age > 75:
		score += extremeAgeWeight
		dangerSigns = append(dangerSigns, "High-risk age group")
	}

	if strings.EqualFold(input.Gender, "female") && input.Age >= 15 && input.Age <= 50 {
		for _, term := range pregnancyRiskTerms {
			if strings.Contains(blob, term) {
				score += pregnancyRiskWeight
				dangerSigns = append(dangerSigns, "Possible pregnancy complication")
				break
			}
		}
	}

	historyBlob := strings.ToLower(strings.Join(input.MedicalHistory, " "))
	for _, term := range chronicHistoryTerms {
		if strings.Contains(historyBlob, term) {
			score += chronicHistoryWeight
			break
		}
	}

	level := levelForScore(score, policy.Cutoffs)

	return entities.TriageAssessment{
		Level:            level,
		Score:            score,
		DangerSignsFound: dangerSigns,
		ReferralNeeded:   level.NeedsReferral(),
	}
}

// symptomBlob concatenates the normalized symptoms and chief complaint
// into the single lowercase text the keyword lexicon is scanned against.
func symptomBlob(input entities.PatientInput) string {
	parts := make([]string, 0, len(input.Symptoms)+1)
	for _, symptom := range input.Symptoms {
		if normalized := normalizeTerm(symptom); normalized != "" {
			parts = append(parts, normalized)
		}
	}
	if complaint := normalizeTerm(input.ChiefComplaint); complaint != "" {
		parts = append(parts, complaint)
	}
	return strings.Join(parts, " ")
}

// assessVitals evaluates each vital-sign threshold independently; the
// contributions are additive.
func assessVitals(input entities.PatientInput) (float64, []string) {
	var score float64
	var signs []string

	if temp := input.Vital(entities.VitalTemperature); temp > 40.0 || temp < 35.0 {
		score += temperatureWeight
		signs = append(signs, fmt.Sprintf("Critical temperature: %s°C", formatReading(temp)))
	}

	if pulse := input.Vital(entities.VitalPulse); pulse > 120 || pulse < 50 {
		score += pulseWeight
		signs = append(signs, fmt.Sprintf("Abnormal pulse: %s bpm", formatReading(pulse)))
	}

	if resp := input.Vital(entities.VitalRespiratoryRate); resp > 30 || resp < 8 {
		score += respirationWeight
		signs = append(signs, fmt.Sprintf("Abnormal breathing: %s/min", formatReading(resp)))
	}

	if systolic := input.Vital(entities.VitalSystolicBP); systolic > 180 || systolic < 90 {
		score += bloodPressureWeight
		signs = append(signs, fmt.Sprintf("Critical blood pressure: %s", formatReading(systolic)))
	}

	// Glucose is optional: zero means "not measured", not hypoglycemia.
	if glucose := input.Vital(entities.VitalBloodGlucose); glucose > 400 || (glucose > 0 && glucose < 70) {
		score += glucoseWeight
		signs = append(signs, fmt.Sprintf("Abnormal blood glucose: %s mg/dL", formatReading(glucose)))
	}

	return score, signs
}

func levelForScore(score float64, cutoffs entities.TriageCutoffs) entities.TriageLevel {
	// An unloaded policy must not classify everything as an emergency.
	if cutoffs.Emergency <= 0 {
		cutoffs = entities.TriageCutoffs{Emergency: 1.0, Urgent: 0.7, LessUrgent: 0.4}
	}
	switch {
	case score >= cutoffs.Emergency:
		return entities.TriageEmergency
	case score >= cutoffs.Urgent:
		return entities.TriageUrgent
	case score >= cutoffs.LessUrgent:
		return entities.TriageLessUrgent
	default:
		return entities.TriageNonUrgent
	}
}

func formatReading(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
