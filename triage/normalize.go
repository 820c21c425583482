package triage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeTerm lowercases a free-text symptom term and joins its words
// with underscores, the internal comparison form used across the engine.
func normalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), "_")
}

// termsOverlap is the single place that decides whether a reported
// symptom matches a knowledge-base symptom key. The match is a
// bidirectional substring test, intentionally loose: "severe_headache"
// hits a condition's "headache" weight, and "headache" hits a reported
// "severe headache". Tightening this later (token matching) is a
// one-place change.
func termsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// displayTerm turns a normalized term back into a human-readable,
// title-cased phrase for danger-sign reporting.
func displayTerm(term string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(term, "_", " "))
}
