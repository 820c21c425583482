// Package handlers provides HTTP request handlers for the triage API
// endpoints. It implements the HTTPHandler interface with dependency
// injection so the rule engine, storage, and optional advisor can be
// swapped in tests.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
	"github.com/Winfry/AfiCare-sub000/logging"
	"github.com/Winfry/AfiCare-sub000/metrics"
	"github.com/Winfry/AfiCare-sub000/triage"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	engine    interfaces.ConsultationEngine
	validator interfaces.InputValidator
	store     interfaces.ConsultationStore
	advisor   interfaces.Advisor
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies.
// The advisor may be nil, in which case consultations are purely
// rule-based.
func NewHTTPHandler(
	dataStore interfaces.DataStore,
	engine interfaces.ConsultationEngine,
	validator interfaces.InputValidator,
	store interfaces.ConsultationStore,
	advisor interfaces.Advisor,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		engine:    engine,
		validator: validator,
		store:     store,
		advisor:   advisor,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// decodePatientInput decodes and validates the request body shared by the
// consultation, triage, and match endpoints.
func (h *HTTPHandlerImpl) decodePatientInput(w http.ResponseWriter, r *http.Request) (entities.PatientInput, bool) {
	var input entities.PatientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		logging.Warn("Unparseable request body", "error", err, "remote_addr", r.RemoteAddr)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return entities.PatientInput{}, false
	}

	if err := h.validator.ValidatePatientInput(&input); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return entities.PatientInput{}, false
	}

	return input, true
}

// ConductConsultation runs the full pipeline and persists the result.
func (h *HTTPHandlerImpl) ConductConsultation(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodePatientInput(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := h.engine.ConductConsultation(input)
	if err != nil {
		if errors.Is(err, triage.ErrInvalidInput) {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.Error("Consultation failed", "error", err, "patient_id", input.PatientID)
		h.RespondWithError(w, http.StatusInternalServerError, "Consultation failed")
		return
	}

	if h.advisor != nil {
		result = h.advisor.Advise(r.Context(), input, result)
	}

	metrics.ConsultationDuration.Observe(time.Since(start).Seconds())
	metrics.ConsultationsTotal.WithLabelValues(string(result.TriageLevel)).Inc()
	if result.ReferralNeeded {
		metrics.ReferralsTotal.Inc()
	}

	record := interfaces.ConsultationRecord{
		ID:     uuid.New(),
		Result: result,
	}
	if err := h.store.Save(r.Context(), record); err != nil {
		// The assessment is still valid without its audit record, so the
		// caller gets the result either way.
		logging.Error("Failed to persist consultation", "error", err, "consultation_id", record.ID)
	}

	logging.Info("Consultation completed",
		"consultation_id", record.ID,
		"patient_id", result.PatientID,
		"triage_level", result.TriageLevel,
		"conditions_matched", len(result.SuspectedConditions),
		"referral_needed", result.ReferralNeeded,
	)

	h.RespondWithJSON(w, http.StatusCreated, record)
}

// AssessTriage runs the triage assessment alone, without condition
// matching or persistence.
func (h *HTTPHandlerImpl) AssessTriage(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodePatientInput(w, r)
	if !ok {
		return
	}

	// The chief complaint scans like any other symptom text.
	symptoms := input.Symptoms
	if strings.TrimSpace(input.ChiefComplaint) != "" {
		symptoms = append(append([]string{}, symptoms...), input.ChiefComplaint)
	}

	assessment := h.engine.AssessTriage(symptoms, input.VitalSigns, input.Age, input.Gender, input.MedicalHistory)
	h.RespondWithJSON(w, http.StatusOK, assessment)
}

// MatchConditions runs condition matching alone.
func (h *HTTPHandlerImpl) MatchConditions(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodePatientInput(w, r)
	if !ok {
		return
	}

	matches := h.engine.MatchConditions(input.Symptoms, input.VitalSigns, input.Age, input.Gender, input.MedicalHistory)
	if matches == nil {
		matches = []entities.ConditionMatch{}
	}
	h.RespondWithJSON(w, http.StatusOK, matches)
}

// ServeAllConditions returns the full condition knowledge base.
func (h *HTTPHandlerImpl) ServeAllConditions(w http.ResponseWriter, r *http.Request) {
	conditions := h.dataStore.GetConditions()
	h.RespondWithJSON(w, http.StatusOK, conditions)
}

// FindConditionByKey returns a single condition by its key.
func (h *HTTPHandlerImpl) FindConditionByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing condition key")
		return
	}

	if err := h.validator.ValidateFreeText(key); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	conditionsMap := h.dataStore.GetConditionsMap()
	condition, exists := conditionsMap[strings.ToLower(key)]
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Condition not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, condition)
}

// PatientHistory returns the stored consultations for a patient, oldest
// first. An unknown patient gets an empty list, not a 404: absence of
// history is a valid answer.
func (h *HTTPHandlerImpl) PatientHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing patient ID")
		return
	}

	if err := h.validator.ValidateFreeText(patientID); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.History(r.Context(), patientID)
	if err != nil {
		logging.Error("Failed to load patient history", "error", err, "patient_id", patientID)
		h.RespondWithError(w, http.StatusInternalServerError, "Failed to load patient history")
		return
	}
	if records == nil {
		records = []interfaces.ConsultationRecord{}
	}

	h.RespondWithJSON(w, http.StatusOK, records)
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string                 `json:"status"`
	LastUpdate    string                 `json:"last_update"`
	DataAgeHours  float64                `json:"data_age_hours"`
	UptimeSeconds float64                `json:"uptime_seconds"`
	Data          map[string]interface{} `json:"data"`
	System        map[string]interface{} `json:"system"`
}

var serverStartTime = time.Now()

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	// Get memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(serverStartTime)

	conditions := h.dataStore.GetConditions()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()
	dataAge := time.Since(lastUpdate)

	// The knowledge base is static between reloads, so staleness only
	// matters when nothing is loaded at all.
	var healthStatus string
	var httpStatus int
	switch {
	case len(conditions) == 0:
		healthStatus = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 48*time.Hour:
		healthStatus = "degraded"
		httpStatus = http.StatusOK
	default:
		healthStatus = "healthy"
		httpStatus = http.StatusOK
	}

	response := HealthResponse{
		Status:        healthStatus,
		LastUpdate:    lastUpdate.Format(time.RFC3339),
		DataAgeHours:  dataAge.Hours(),
		UptimeSeconds: uptime.Seconds(),
		Data: map[string]interface{}{
			"api_version":       "1.0",
			"conditions":        len(conditions),
			"knowledge_version": h.dataStore.GetKnowledgeVersion(),
			"is_updating":       isUpdating,
		},
		System: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
