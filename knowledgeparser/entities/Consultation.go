package entities

import "time"

// ConditionMatch is one candidate diagnosis. Confidence is clamped to
// [0,1]; ordering of a match list is by the underlying raw score, so a
// saturated 1.0 behind three symptoms still outranks a saturated 1.0
// behind a single vital-sign bonus.
type ConditionMatch struct {
	ConditionKey     string   `json:"condition_key"`
	DisplayName      string   `json:"display_name"`
	Confidence       float64  `json:"confidence"`
	MatchingSymptoms []string `json:"matching_symptoms"`
	Treatment        []string `json:"treatment"`
	DangerSigns      []string `json:"danger_signs"`
	Chronic          bool     `json:"chronic"`
	Special          string   `json:"special,omitempty"`
}

// ConsultationResult is the immutable outcome of one consultation call.
// Field names are part of the persisted-record contract and must not
// change between releases.
type ConsultationResult struct {
	PatientID           string           `json:"patient_id"`
	Timestamp           time.Time        `json:"timestamp"`
	TriageLevel         TriageLevel      `json:"triage_level"`
	SuspectedConditions []ConditionMatch `json:"suspected_conditions"`
	Recommendations     []string         `json:"recommendations"`
	ReferralNeeded      bool             `json:"referral_needed"`
	FollowUpRequired    bool             `json:"follow_up_required"`
	ConfidenceScore     float64          `json:"confidence_score"`
}
