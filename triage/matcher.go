// Package triage implements the consultation decision core: the condition
// matcher, the triage assessor, and the orchestrator that composes them
// into a ConsultationResult. All functions are pure computations over the
// loaded knowledge base; the package performs no I/O and keeps no state
// between calls, so concurrent consultations need no locking.
package triage

import (
	"sort"
	"strings"

	"github.com/Winfry/AfiCare-sub000/interfaces"
	"github.com/Winfry/AfiCare-sub000/knowledgeparser/entities"
)

// Compile-time check to ensure Engine implements ConsultationEngine
var _ interfaces.ConsultationEngine = (*Engine)(nil)

// matchInclusionThreshold is the raw score a condition must exceed to be
// reported at all.
const matchInclusionThreshold = 0.2

// Engine evaluates consultations against the knowledge base held by the
// injected data store. Safe for concurrent use.
type Engine struct {
	dataStore interfaces.DataStore
}

// NewEngine creates an engine reading from the given data store.
func NewEngine(dataStore interfaces.DataStore) *Engine {
	return &Engine{dataStore: dataStore}
}

// scoredMatch keeps the unclamped score next to the reported match so
// ranking can distinguish two saturated confidences.
type scoredMatch struct {
	match entities.ConditionMatch
	score float64
}

// MatchConditions scores every applicable condition against the reported
// symptoms, vitals, age, gender and history, and returns the matches whose
// raw score exceeds the inclusion threshold, ordered most likely first.
// It never fails: unknown symptoms contribute nothing and absent vitals
// take their documented defaults.
func (e *Engine) MatchConditions(symptoms []string, vitalSigns map[string]float64, age int, gender string, medicalHistory []string) []entities.ConditionMatch {
	input := entities.PatientInput{
		Age:            age,
		Gender:         gender,
		Symptoms:       symptoms,
		VitalSigns:     vitalSigns,
		MedicalHistory: medicalHistory,
	}
	return e.matchConditions(input)
}

func (e *Engine) matchConditions(input entities.PatientInput) []entities.ConditionMatch {
	reported := make([]string, 0, len(input.Symptoms))
	display := make([]string, 0, len(input.Symptoms))
	for _, symptom := range input.Symptoms {
		normalized := normalizeTerm(symptom)
		if normalized == "" {
			continue
		}
		reported = append(reported, normalized)
		display = append(display, strings.TrimSpace(symptom))
	}

	historyBlob := strings.ToLower(strings.Join(input.MedicalHistory, " "))

	var scored []scoredMatch
	for _, condition := range e.dataStore.GetConditions() {
		if !conditionApplies(condition, input, historyBlob) {
			continue
		}

		score, matching := scoreSymptoms(condition, reported, display)

		// Adjustments only refine a symptomatic picture: a patient who
		// reported nothing pointing at this condition is not diagnosed
		// off a vital reading alone.
		if len(matching) > 0 {
			score += vitalAdjustment(condition, input)
			score += ageAdjustment(condition, input.Age)
			score += textAdjustment(condition.HistoryBonuses, historyBlob)
			score += textAdjustment(condition.SymptomBonuses, strings.Join(reported, " "))
		}

		if score <= matchInclusionThreshold {
			continue
		}

		confidence := score
		if confidence > 1.0 {
			confidence = 1.0
		}

		scored = append(scored, scoredMatch{
			match: entities.ConditionMatch{
				ConditionKey:     condition.Key,
				DisplayName:      condition.DisplayName,
				Confidence:       confidence,
				MatchingSymptoms: matching,
				Treatment:        append([]string(nil), condition.Treatment...),
				DangerSigns:      append([]string(nil), condition.DangerSigns...),
				Chronic:          condition.Chronic,
				Special:          condition.Special,
			},
			score: score,
		})
	}

	// Stable sort on the raw score: ties keep knowledge-base order, and a
	// clamped 1.0 from many symptoms still outranks a clamped 1.0 from one.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	matches := make([]entities.ConditionMatch, len(scored))
	for i, s := range scored {
		matches[i] = s.match
	}
	return matches
}

// scoreSymptoms accumulates the weight of every knowledge-base symptom key
// that overlaps a reported symptom. Keys are visited in sorted order so
// repeated calls produce identical matching-symptom lists.
func scoreSymptoms(condition entities.Condition, reported, display []string) (float64, []string) {
	keys := make([]string, 0, len(condition.SymptomWeights))
	for key := range condition.SymptomWeights {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var score float64
	var matching []string
	for _, key := range keys {
		for i, symptom := range reported {
			if termsOverlap(symptom, key) {
				score += condition.SymptomWeights[key]
				matching = appendUnique(matching, display[i])
				break
			}
		}
	}
	return score, matching
}

// conditionApplies gates conditions with special applicability rules. The
// pregnancy-scoped condition is only scored for patients who could be
// pregnant; everyone else skips it silently.
func conditionApplies(condition entities.Condition, input entities.PatientInput, historyBlob string) bool {
	if condition.Special != "pregnancy" {
		return true
	}
	if strings.Contains(historyBlob, "pregnan") {
		return true
	}
	return strings.EqualFold(input.Gender, "female") && input.Age >= 15 && input.Age <= 50
}

func vitalAdjustment(condition entities.Condition, input entities.PatientInput) float64 {
	var bonus float64
	for _, rule := range condition.VitalBonuses {
		for _, check := range rule.AnyOf {
			value := input.Vital(check.Vital)
			fired := false
			if check.Above > 0 && value > check.Above {
				fired = true
			}
			// Optional vitals default to zero; a zero reading means
			// "not measured", never "critically low".
			if check.Below > 0 && value > 0 && value < check.Below {
				fired = true
			}
			if fired {
				bonus += rule.Bonus
				break
			}
		}
	}
	return bonus
}

func ageAdjustment(condition entities.Condition, age int) float64 {
	var bonus float64
	for _, rule := range condition.AgeBonuses {
		if (rule.UnderAge > 0 && age < rule.UnderAge) || (rule.OverAge > 0 && age > rule.OverAge) {
			bonus += rule.Bonus
		}
	}
	return bonus
}

func textAdjustment(rules []entities.TextBonus, blob string) float64 {
	var bonus float64
	for _, rule := range rules {
		for _, fragment := range rule.Contains {
			if fragment != "" && strings.Contains(blob, strings.ToLower(fragment)) {
				bonus += rule.Bonus
				break
			}
		}
	}
	return bonus
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
