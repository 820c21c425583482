package validation

import (
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// KnowledgeQualityReport summarizes soft issues in a knowledge document.
// Hard structural errors are rejected by the parser; these are the ones
// worth a warning but not a failed load.
type KnowledgeQualityReport struct {
	ConditionsWithoutTreatment  []string
	ConditionsWithoutDanger     []string
	ConditionsWithSingleSymptom []string
	UnreferencedDangerKeywords  []string
}

// Clean reports whether the document raised no quality flags.
func (r *KnowledgeQualityReport) Clean() bool {
	return len(r.ConditionsWithoutTreatment) == 0 &&
		len(r.ConditionsWithoutDanger) == 0 &&
		len(r.ConditionsWithSingleSymptom) == 0 &&
		len(r.UnreferencedDangerKeywords) == 0
}

// ReportKnowledgeQuality inspects a parsed knowledge document for
// conditions that will produce weak or empty consultation output.
func ReportKnowledgeQuality(knowledge *entities.Knowledge) *KnowledgeQualityReport {
	report := &KnowledgeQualityReport{}

	referenced := make(map[string]bool)
	for _, condition := range knowledge.Conditions {
		if len(condition.Treatment) == 0 {
			report.ConditionsWithoutTreatment = append(report.ConditionsWithoutTreatment, condition.Key)
		}
		if len(condition.DangerSigns) == 0 {
			report.ConditionsWithoutDanger = append(report.ConditionsWithoutDanger, condition.Key)
		}
		if len(condition.SymptomWeights) < 2 {
			report.ConditionsWithSingleSymptom = append(report.ConditionsWithSingleSymptom, condition.Key)
		}
		for _, sign := range condition.DangerSigns {
			referenced[sign] = true
		}
	}

	// A lexicon keyword no condition lists as a danger sign usually means
	// a typo on one side or the other.
	for _, keyword := range knowledge.Triage.DangerKeywords {
		if !referenced[keyword] {
			report.UnreferencedDangerKeywords = append(report.UnreferencedDangerKeywords, keyword)
		}
	}

	return report
}
