package entities

// TriageLevel is the ordinal urgency classification, most to least severe.
type TriageLevel string

const (
	TriageEmergency  TriageLevel = "EMERGENCY"
	TriageUrgent     TriageLevel = "URGENT"
	TriageLessUrgent TriageLevel = "LESS_URGENT"
	TriageNonUrgent  TriageLevel = "NON_URGENT"
)

// severity ranks levels for comparisons; higher is more severe.
var severity = map[TriageLevel]int{
	TriageEmergency:  3,
	TriageUrgent:     2,
	TriageLessUrgent: 1,
	TriageNonUrgent:  0,
}

// MoreSevere reports whether l outranks other. Unknown levels rank lowest.
func (l TriageLevel) MoreSevere(other TriageLevel) bool {
	return severity[l] > severity[other]
}

// Valid reports whether l is one of the four defined levels.
func (l TriageLevel) Valid() bool {
	_, ok := severity[l]
	return ok
}

// NeedsReferral reports whether the level mandates facility referral.
func (l TriageLevel) NeedsReferral() bool {
	return l == TriageEmergency || l == TriageUrgent
}

// TriageAssessment is the assessor output. Score accumulates without an
// upper bound: stacked danger keywords can push it well past 1.0.
type TriageAssessment struct {
	Level            TriageLevel `json:"level"`
	Score            float64     `json:"score"`
	DangerSignsFound []string    `json:"danger_signs_found"`
	ReferralNeeded   bool        `json:"referral_needed"`
}
