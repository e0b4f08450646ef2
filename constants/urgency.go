package constants

import "strings"

// Urgency is the patient-facing priority for a line item.
type Urgency string

// Stable values (store these exact strings in DB).
const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

var allUrgencies = []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}

// CanonicalizeUrgency maps free-form model output onto a known level.
func CanonicalizeUrgency(input string) (Urgency, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, u := range allUrgencies {
		if normalized == strings.ToLower(string(u)) {
			return u, true
		}
	}
	return UrgencyMedium, false
}
