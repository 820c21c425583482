package entities

// Vital sign keys accepted in PatientInput.VitalSigns. Missing keys fall
// back to the clinical defaults below so partial input never fails scoring.
const (
	VitalTemperature     = "temperature"
	VitalSystolicBP      = "systolic_bp"
	VitalDiastolicBP     = "diastolic_bp"
	VitalPulse           = "pulse"
	VitalRespiratoryRate = "respiratory_rate"
	VitalOxygenSat       = "oxygen_saturation"
	VitalBloodGlucose    = "blood_glucose"
	VitalWeight          = "weight"
)

// DefaultVitals are the "clinically normal" substitutes for absent
// readings. Optional vitals (oxygen saturation, glucose, weight) default
// to zero and only participate in rules that guard against the zero value.
var DefaultVitals = map[string]float64{
	VitalTemperature:     37.0,
	VitalSystolicBP:      120,
	VitalDiastolicBP:     80,
	VitalPulse:           80,
	VitalRespiratoryRate: 16,
}

// PatientInput is the caller-supplied, immutable input of one consultation.
type PatientInput struct {
	PatientID          string             `json:"patient_id"`
	Age                int                `json:"age"`
	Gender             string             `json:"gender"`
	Symptoms           []string           `json:"symptoms"`
	VitalSigns         map[string]float64 `json:"vital_signs"`
	MedicalHistory     []string           `json:"medical_history,omitempty"`
	CurrentMedications []string           `json:"current_medications,omitempty"`
	ChiefComplaint     string             `json:"chief_complaint,omitempty"`
}

// Vital returns the named reading, or its documented default when absent.
func (p PatientInput) Vital(name string) float64 {
	if p.VitalSigns != nil {
		if v, ok := p.VitalSigns[name]; ok {
			return v
		}
	}
	return DefaultVitals[name]
}
