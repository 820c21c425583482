// Package scheduler manages the knowledge base load lifecycle: the
// initial load at startup, a daily reload so KNOWLEDGE_FILE overrides
// can be rolled out without restarts, and health monitoring of the
// loaded data. Reloads swap atomically through the data container, so
// in-flight consultations always see a complete knowledge base.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser"
	"github.com/Winfry/AfiCare-sub000/logging"
	"github.com/Winfry/AfiCare-sub000/validation"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// reloadTime is when the daily knowledge reload runs. Kept outside
// clinic hours for the deployments that override the embedded table
// from a shared file.
const reloadTime = "03:00"

// Scheduler handles knowledge loads and health monitoring using
// dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.KnowledgeParser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.KnowledgeParser) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial knowledge load, schedules the daily reload,
// and starts health monitoring. A failed initial load is fatal; a failed
// reload keeps the previous knowledge in place.
func (s *Scheduler) Start() error {
	if err := s.loadKnowledge(); err != nil {
		logging.Error("Failed to perform initial knowledge load", "error", err)
		return fmt.Errorf("initial knowledge load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(reloadTime).Do(func() {
		if err := s.loadKnowledge(); err != nil {
			logging.Error("Failed to reload knowledge, keeping previous version", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule knowledge reloads", "error", err)
		return fmt.Errorf("failed to schedule knowledge reloads: %w", err)
	}

	s.scheduler.StartAsync()

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// loadKnowledge parses and validates the knowledge document and swaps it
// into the data container atomically.
func (s *Scheduler) loadKnowledge() error {
	// Prevent concurrent loads
	if !s.dataStore.BeginUpdate() {
		logging.Info("Knowledge load already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	start := time.Now()

	knowledge, err := s.parser.ParseKnowledge()
	if err != nil {
		return fmt.Errorf("failed to parse knowledge: %w", err)
	}

	conditionsMap := knowledgeparser.ConditionsMap(knowledge)

	report := validation.ReportKnowledgeQuality(knowledge)
	if len(report.ConditionsWithoutTreatment) > 0 {
		logging.Warn("Conditions without treatment advice",
			"count", len(report.ConditionsWithoutTreatment),
			"keys", report.ConditionsWithoutTreatment,
		)
	}
	if len(report.ConditionsWithSingleSymptom) > 0 {
		logging.Warn("Conditions matching on a single symptom",
			"count", len(report.ConditionsWithSingleSymptom),
			"keys", report.ConditionsWithSingleSymptom,
		)
	}
	if len(report.UnreferencedDangerKeywords) > 0 {
		logging.Warn("Danger keywords not referenced by any condition",
			"count", len(report.UnreferencedDangerKeywords),
			"keywords", report.UnreferencedDangerKeywords,
		)
	}

	// Atomic swap (zero downtime replacement)
	s.dataStore.UpdateKnowledge(knowledge, conditionsMap)

	elapsed := time.Since(start)
	logging.Info("Knowledge load completed",
		"duration", elapsed.String(),
		"version", knowledge.Version,
		"condition_count", len(knowledge.Conditions),
	)

	return nil
}

// startHealthMonitoring watches for an empty knowledge base, which
// should never happen after a successful initial load.
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if len(s.dataStore.GetConditions()) == 0 {
				logging.Warn("Knowledge base is empty")
			}
		}
	}()
}

// NewDefaultScheduler wires the scheduler with the embedded knowledge
// parser, honoring a KNOWLEDGE_FILE override.
func NewDefaultScheduler(dataStore interfaces.DataStore, knowledgeFile string) *Scheduler {
	return NewScheduler(dataStore, knowledgeparser.NewParser(knowledgeFile))
}
