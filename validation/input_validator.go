// Package validation provides input validation for consultation requests
// and quality reporting for loaded knowledge documents.
package validation

import (
	"fmt"
	"strings"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
	"github.com/Winfry/AfiCare-sub000/logging"
)

const (
	maxFreeTextLength = 200
	maxSymptoms       = 50
	maxHistoryEntries = 50
	maxPatientAge     = 130
)

// dangerousPatterns are scanned as plain substrings; strings.Contains is
// considerably faster than regex for a fixed lexicon like this.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=", "onclick=",
	"eval(", "expression(", "@import",
	// SQL injection patterns
	"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
	"--", "/*", "*/", "exec(", "execute(",
	// Command injection patterns
	"`", "$(", "${",
	// Path traversal patterns
	"../", "..\\", "%2e%2e", "file://",
}

// InputValidatorImpl implements interfaces.InputValidator.
type InputValidatorImpl struct{}

// NewInputValidator creates an input validator.
func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// ValidatePatientInput checks a consultation request. Only structurally
// hostile or impossible input is rejected; clinically incomplete input is
// the engine's job to degrade on, not ours to refuse.
func (v *InputValidatorImpl) ValidatePatientInput(input *entities.PatientInput) error {
	if input == nil {
		return fmt.Errorf("patient input is nil")
	}

	if input.Age < 0 {
		return fmt.Errorf("age must not be negative, got %d", input.Age)
	}
	if input.Age > maxPatientAge {
		return fmt.Errorf("age %d exceeds plausible maximum %d", input.Age, maxPatientAge)
	}

	if err := v.ValidateFreeText(input.PatientID); err != nil {
		return fmt.Errorf("patient_id: %w", err)
	}
	if err := v.ValidateFreeText(input.Gender); err != nil {
		return fmt.Errorf("gender: %w", err)
	}
	if err := v.ValidateFreeText(input.ChiefComplaint); err != nil {
		return fmt.Errorf("chief_complaint: %w", err)
	}

	if len(input.Symptoms) > maxSymptoms {
		return fmt.Errorf("too many symptoms: %d (max %d)", len(input.Symptoms), maxSymptoms)
	}
	for _, symptom := range input.Symptoms {
		if err := v.ValidateFreeText(symptom); err != nil {
			return fmt.Errorf("symptom %q: %w", symptom, err)
		}
	}

	if len(input.MedicalHistory) > maxHistoryEntries {
		return fmt.Errorf("too many medical history entries: %d (max %d)", len(input.MedicalHistory), maxHistoryEntries)
	}
	for _, entry := range input.MedicalHistory {
		if err := v.ValidateFreeText(entry); err != nil {
			return fmt.Errorf("medical history entry %q: %w", entry, err)
		}
	}
	for _, medication := range input.CurrentMedications {
		if err := v.ValidateFreeText(medication); err != nil {
			return fmt.Errorf("medication %q: %w", medication, err)
		}
	}

	warnImplausibleVitals(input)

	return nil
}

// ValidateFreeText rejects over-long or hostile free text.
func (v *InputValidatorImpl) ValidateFreeText(text string) error {
	if len(text) > maxFreeTextLength {
		return fmt.Errorf("text too long: %d characters (max %d)", len(text), maxFreeTextLength)
	}

	lowered := strings.ToLower(text)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("text contains disallowed pattern")
		}
	}

	return nil
}

// warnImplausibleVitals logs readings outside physiological possibility.
// They are not rejected: the engine treats them like any other number and
// the triage thresholds will flag them anyway.
func warnImplausibleVitals(input *entities.PatientInput) {
	plausible := map[string][2]float64{
		entities.VitalTemperature:     {25, 45},
		entities.VitalSystolicBP:      {40, 300},
		entities.VitalDiastolicBP:     {20, 200},
		entities.VitalPulse:           {20, 300},
		entities.VitalRespiratoryRate: {2, 90},
		entities.VitalOxygenSat:       {0, 100},
		entities.VitalBloodGlucose:    {0, 1500},
	}

	for name, value := range input.VitalSigns {
		bounds, known := plausible[name]
		if !known {
			continue
		}
		if value < bounds[0] || value > bounds[1] {
			logging.Warn("Implausible vital sign reading",
				"patient_id", input.PatientID,
				"vital", name,
				"value", value,
			)
		}
	}
}
