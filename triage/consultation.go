package triage

import (
	"errors"
	"fmt"
	"time"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// ErrInvalidInput is returned for input the engine refuses to score.
// Everything else degrades gracefully instead of failing.
var ErrInvalidInput = errors.New("invalid consultation input")

// Recommendation building parameters: the top conditions surfaced, the
// confidence floor for their treatment advice, and how many treatment
// lines each contributes.
const (
	recommendedConditions   = 3
	recommendationThreshold = 0.4
	treatmentLinesPerMatch  = 4
	followUpThreshold       = 0.4
)

var emergencyRecommendations = []string{
	"IMMEDIATE MEDICAL ATTENTION REQUIRED",
	"Transfer to emergency department immediately",
}

var genericAdvice = []string{
	"Monitor symptoms and return if condition worsens",
	"Ensure adequate rest and hydration",
	"Follow medication instructions carefully",
	"Maintain healthy lifestyle habits",
}

// ConductConsultation runs the full pipeline: condition matching, triage
// assessment, recommendation building, and result assembly. The only
// rejected input is a negative age; every other malformed field scores as
// its documented default.
func (e *Engine) ConductConsultation(input entities.PatientInput) (entities.ConsultationResult, error) {
	if input.Age < 0 {
		return entities.ConsultationResult{}, fmt.Errorf("%w: age must not be negative, got %d", ErrInvalidInput, input.Age)
	}

	matches := e.matchConditions(input)
	assessment := e.assessTriage(input)
	recommendations := e.buildRecommendations(matches, assessment)

	var confidence float64
	if len(matches) > 0 {
		confidence = matches[0].Confidence
	}

	return entities.ConsultationResult{
		PatientID:           input.PatientID,
		Timestamp:           time.Now().UTC(),
		TriageLevel:         assessment.Level,
		SuspectedConditions: matches,
		Recommendations:     recommendations,
		ReferralNeeded:      assessment.ReferralNeeded,
		FollowUpRequired:    e.followUpRequired(matches, assessment),
		ConfidenceScore:     confidence,
	}, nil
}

func (e *Engine) buildRecommendations(matches []entities.ConditionMatch, assessment entities.TriageAssessment) []string {
	var recommendations []string

	if assessment.Level == entities.TriageEmergency {
		recommendations = append(recommendations, emergencyRecommendations...)
	}

	surfaced := 0
	for _, match := range matches {
		if surfaced >= recommendedConditions {
			break
		}
		if match.Confidence <= recommendationThreshold {
			continue
		}

		lines := match.Treatment
		if len(lines) > treatmentLinesPerMatch {
			lines = lines[:treatmentLinesPerMatch]
		}
		recommendations = append(recommendations, lines...)

		if match.Chronic {
			recommendations = append(recommendations, fmt.Sprintf("%s requires ongoing follow-up care", match.DisplayName))
		}
		if match.Special == "pregnancy" {
			recommendations = append(recommendations, "Schedule antenatal clinic enrolment")
		}
		surfaced++
	}

	if assessment.Level == entities.TriageNonUrgent || assessment.Level == entities.TriageLessUrgent {
		recommendations = append(recommendations, genericAdvice...)
	}

	return recommendations
}

// followUpRequired is true when a plausibly-matched condition needs
// ongoing care, or when the triage level already mandates referral.
func (e *Engine) followUpRequired(matches []entities.ConditionMatch, assessment entities.TriageAssessment) bool {
	if assessment.Level == entities.TriageEmergency || assessment.Level == entities.TriageUrgent {
		return true
	}
	for _, match := range matches {
		if match.Confidence > followUpThreshold && (match.Chronic || match.Special != "") {
			return true
		}
	}
	return false
}
