// Package interfaces defines the core abstractions of the triage API
// to keep the rule engine, storage, and transport layers independently
// testable and replaceable.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// DataStore is the read side of the knowledge container. It provides
// lock-free access to the condition knowledge base with atomic swaps for
// zero-downtime reloads.
type DataStore interface {
	GetConditions() []entities.Condition
	GetConditionsMap() map[string]entities.Condition
	GetTriagePolicy() entities.TriagePolicy
	GetKnowledgeVersion() string
	GetLastUpdated() time.Time
	IsUpdating() bool

	UpdateKnowledge(knowledge *entities.Knowledge, conditionsMap map[string]entities.Condition)
	BeginUpdate() bool
	EndUpdate()
}

// KnowledgeParser loads the static knowledge document.
type KnowledgeParser interface {
	ParseKnowledge() (*entities.Knowledge, error)
}

// Scheduler manages the knowledge load lifecycle and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// ConsultationEngine is the rule engine surface the transport layer uses.
type ConsultationEngine interface {
	ConductConsultation(input entities.PatientInput) (entities.ConsultationResult, error)
	MatchConditions(symptoms []string, vitalSigns map[string]float64, age int, gender string, medicalHistory []string) []entities.ConditionMatch
	AssessTriage(symptoms []string, vitalSigns map[string]float64, age int, gender string, medicalHistory []string) entities.TriageAssessment
}

// ConsultationRecord wraps a ConsultationResult with the storage identity
// the core itself never assigns.
type ConsultationRecord struct {
	ID     uuid.UUID                   `json:"id"`
	Result entities.ConsultationResult `json:"result"`
}

// ConsultationStore is the persistence capability injected by the caller.
// The rule engine never touches storage directly.
type ConsultationStore interface {
	Save(ctx context.Context, record ConsultationRecord) error
	History(ctx context.Context, patientID string) ([]ConsultationRecord, error)
}

// Advisor is the optional second-opinion layer over the rule engine. An
// advisor may only make a result more conservative; implementations must
// return the input result unchanged on any failure.
type Advisor interface {
	Advise(ctx context.Context, input entities.PatientInput, result entities.ConsultationResult) entities.ConsultationResult
}

// HTTPHandler exposes the consultation API over HTTP.
type HTTPHandler interface {
	ConductConsultation(w http.ResponseWriter, r *http.Request)
	AssessTriage(w http.ResponseWriter, r *http.Request)
	MatchConditions(w http.ResponseWriter, r *http.Request)
	ServeAllConditions(w http.ResponseWriter, r *http.Request)
	FindConditionByKey(w http.ResponseWriter, r *http.Request)
	PatientHistory(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// InputValidator validates caller-supplied consultation input.
type InputValidator interface {
	ValidatePatientInput(input *entities.PatientInput) error
	ValidateFreeText(text string) error
}
