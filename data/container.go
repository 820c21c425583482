// Package data provides thread-safe storage for the condition knowledge
// base. The container swaps whole knowledge snapshots atomically so
// in-flight consultations always read a consistent table and reloads
// never block scoring.
package data

import (
	"sync/atomic"
	"time"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
	"github.com/Winfry/AfiCare-sub000/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the knowledge base behind atomic pointers.
type DataContainer struct {
	conditions    atomic.Value // []entities.Condition
	conditionsMap atomic.Value // map[string]entities.Condition
	triagePolicy  atomic.Value // entities.TriagePolicy
	version       atomic.Value // string
	lastUpdated   atomic.Value // time.Time
	updating      atomic.Bool
}

// NewDataContainer creates a container with empty knowledge.
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.conditions.Store(make([]entities.Condition, 0))
	dc.conditionsMap.Store(make(map[string]entities.Condition))
	dc.triagePolicy.Store(entities.TriagePolicy{})
	dc.version.Store("")
	dc.lastUpdated.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetConditions returns the condition list in knowledge-base order.
func (dc *DataContainer) GetConditions() []entities.Condition {
	if v := dc.conditions.Load(); v != nil {
		if conditions, ok := v.([]entities.Condition); ok {
			return conditions
		}
	}

	logging.Warn("Condition list is empty or invalid")
	return []entities.Condition{}
}

// GetConditionsMap returns the key-indexed condition lookup.
func (dc *DataContainer) GetConditionsMap() map[string]entities.Condition {
	if v := dc.conditionsMap.Load(); v != nil {
		if conditionsMap, ok := v.(map[string]entities.Condition); ok {
			return conditionsMap
		}
	}

	logging.Warn("Conditions map is empty or invalid")
	return make(map[string]entities.Condition)
}

// GetTriagePolicy returns the danger-keyword lexicon and cutoffs.
func (dc *DataContainer) GetTriagePolicy() entities.TriagePolicy {
	if v := dc.triagePolicy.Load(); v != nil {
		if policy, ok := v.(entities.TriagePolicy); ok {
			return policy
		}
	}

	logging.Warn("Triage policy is empty or invalid")
	return entities.TriagePolicy{}
}

// GetKnowledgeVersion returns the version string of the loaded document.
func (dc *DataContainer) GetKnowledgeVersion() string {
	if v := dc.version.Load(); v != nil {
		if version, ok := v.(string); ok {
			return version
		}
	}
	return ""
}

// GetLastUpdated returns the timestamp of the last knowledge load.
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true while a knowledge reload is in progress.
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// UpdateKnowledge atomically swaps in a new knowledge snapshot.
func (dc *DataContainer) UpdateKnowledge(knowledge *entities.Knowledge, conditionsMap map[string]entities.Condition) {
	dc.conditions.Store(knowledge.Conditions)
	dc.conditionsMap.Store(conditionsMap)
	dc.triagePolicy.Store(knowledge.Triage)
	dc.version.Store(knowledge.Version)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a reload.
// Returns false when another reload is already running.
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload.
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}
