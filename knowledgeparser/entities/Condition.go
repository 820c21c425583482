// Package entities defines the domain types shared across the triage API:
// the static condition knowledge base, patient input, and the consultation
// result structures serialized to callers.
package entities

// VitalCheck is a single numeric threshold on a named vital sign.
// Above/Below are exclusive bounds; a zero value disables that bound.
type VitalCheck struct {
	Vital string  `json:"vital"`
	Above float64 `json:"above,omitempty"`
	Below float64 `json:"below,omitempty"`
}

// VitalBonus adds Bonus to a condition score when any of its checks fires.
// Grouping checks under one bonus keeps "resp>24 OR temp>38 -> +0.2"
// expressible as a single rule.
type VitalBonus struct {
	AnyOf []VitalCheck `json:"any_of"`
	Bonus float64      `json:"bonus"`
}

// AgeBonus adds Bonus when the patient age falls under UnderAge
// (exclusive) or over OverAge (exclusive). A zero bound is ignored.
type AgeBonus struct {
	UnderAge int     `json:"under_age,omitempty"`
	OverAge  int     `json:"over_age,omitempty"`
	Bonus    float64 `json:"bonus"`
}

// TextBonus adds Bonus when any of the Contains fragments appears in the
// scanned text (reported symptoms or medical history, depending on where
// the rule is attached).
type TextBonus struct {
	Contains []string `json:"contains"`
	Bonus    float64  `json:"bonus"`
}

// Condition is one entry of the static knowledge base. SymptomWeights maps
// normalized symptom keys to weights in (0,1]. The bonus tables encode the
// condition-specific adjustments that used to be hardcoded per rule engine.
type Condition struct {
	Key            string             `json:"key"`
	DisplayName    string             `json:"display_name"`
	SymptomWeights map[string]float64 `json:"symptom_weights"`
	Treatment      []string           `json:"treatment"`
	DangerSigns    []string           `json:"danger_signs"`
	VitalBonuses   []VitalBonus       `json:"vital_bonuses,omitempty"`
	AgeBonuses     []AgeBonus         `json:"age_bonuses,omitempty"`
	HistoryBonuses []TextBonus        `json:"history_bonuses,omitempty"`
	SymptomBonuses []TextBonus        `json:"symptom_bonuses,omitempty"`
	Chronic        bool               `json:"chronic,omitempty"`
	Special        string             `json:"special,omitempty"`
}

// TriagePolicy carries the danger-keyword lexicon and the score cutoffs
// that map an urgency score to a triage level.
type TriagePolicy struct {
	DangerKeywords []string      `json:"danger_keywords"`
	Cutoffs        TriageCutoffs `json:"cutoffs"`
}

// TriageCutoffs are inclusive lower bounds, most severe first.
type TriageCutoffs struct {
	Emergency  float64 `json:"emergency"`
	Urgent     float64 `json:"urgent"`
	LessUrgent float64 `json:"less_urgent"`
}

// Knowledge is the parsed, validated knowledge document. Conditions keep
// document order: the matcher relies on it for stable tie-breaking.
type Knowledge struct {
	Version    string       `json:"version"`
	Profile    string       `json:"profile"`
	Conditions []Condition  `json:"conditions"`
	Triage     TriagePolicy `json:"triage"`
}
