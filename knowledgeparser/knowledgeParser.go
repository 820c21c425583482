// Package knowledgeparser loads the static condition knowledge base that
// drives the matcher and the triage assessor. The authoritative document
// is embedded at build time; KNOWLEDGE_FILE may point at an external JSON
// file with the same structure for field deployments that tune weights
// without rebuilding.
package knowledgeparser

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

//go:embed conditions.json
var embeddedKnowledge []byte

// Compile-time check to ensure Parser implements KnowledgeParser
var _ interfaces.KnowledgeParser = (*Parser)(nil)

// Parser loads and validates knowledge documents.
type Parser struct {
	overridePath string
}

// NewParser creates a parser. overridePath may be empty, in which case the
// embedded document is used.
func NewParser(overridePath string) *Parser {
	return &Parser{overridePath: overridePath}
}

// ParseKnowledge loads the knowledge document, preferring the override
// file when configured. The returned Knowledge is ready for read-only
// concurrent use.
func (p *Parser) ParseKnowledge() (*entities.Knowledge, error) {
	raw := embeddedKnowledge
	source := "embedded"

	if p.overridePath != "" {
		fileRaw, err := os.ReadFile(p.overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read knowledge file %s: %w", p.overridePath, err)
		}
		raw = fileRaw
		source = p.overridePath
	}

	knowledge, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse knowledge document (%s): %w", source, err)
	}

	if err := validate(knowledge); err != nil {
		return nil, fmt.Errorf("invalid knowledge document (%s): %w", source, err)
	}

	return knowledge, nil
}

// ConditionsMap builds a key-indexed lookup over the parsed conditions.
func ConditionsMap(knowledge *entities.Knowledge) map[string]entities.Condition {
	conditionsMap := make(map[string]entities.Condition, len(knowledge.Conditions))
	for _, condition := range knowledge.Conditions {
		conditionsMap[condition.Key] = condition
	}
	return conditionsMap
}

func decode(raw []byte) (*entities.Knowledge, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	var knowledge entities.Knowledge
	if err := decoder.Decode(&knowledge); err != nil {
		return nil, err
	}
	return &knowledge, nil
}

// validate rejects documents that would make scoring meaningless. Softer
// quality issues are reported separately by validation.ReportQuality.
func validate(knowledge *entities.Knowledge) error {
	if len(knowledge.Conditions) == 0 {
		return fmt.Errorf("no conditions defined")
	}

	seen := make(map[string]bool, len(knowledge.Conditions))
	for _, condition := range knowledge.Conditions {
		if condition.Key == "" {
			return fmt.Errorf("condition with empty key")
		}
		if seen[condition.Key] {
			return fmt.Errorf("duplicate condition key: %s", condition.Key)
		}
		seen[condition.Key] = true

		if condition.DisplayName == "" {
			return fmt.Errorf("condition %s: empty display name", condition.Key)
		}
		if len(condition.SymptomWeights) == 0 {
			return fmt.Errorf("condition %s: no symptom weights", condition.Key)
		}
		for symptom, weight := range condition.SymptomWeights {
			if weight <= 0 || weight > 1 {
				return fmt.Errorf("condition %s: weight for %q out of (0,1]: %v", condition.Key, symptom, weight)
			}
		}
	}

	if len(knowledge.Triage.DangerKeywords) == 0 {
		return fmt.Errorf("triage policy has no danger keywords")
	}

	cutoffs := knowledge.Triage.Cutoffs
	if cutoffs.Emergency <= cutoffs.Urgent || cutoffs.Urgent <= cutoffs.LessUrgent || cutoffs.LessUrgent <= 0 {
		return fmt.Errorf("triage cutoffs not strictly descending: %+v", cutoffs)
	}

	return nil
}
