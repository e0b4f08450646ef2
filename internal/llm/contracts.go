package llm

import "context"

// LineItem is the normalized shape we want from the model: one procedure
// entry, translated and simplified for the patient.
type LineItem struct {
	Code          string   `json:"code" db:"code"`
	TechnicalName string   `json:"technical_name" db:"technical_name"`
	FriendlyName  string   `json:"friendly_name" db:"friendly_name"`
	Explanation   string   `json:"explanation" db:"explanation"`
	Urgency       string   `json:"urgency" db:"urgency"` // High | Medium | Low
	Price         *float64 `json:"price" db:"price"`
	UrgencyHook   *string  `json:"urgency_hook" db:"urgency_hook"`
}

// Generator is one text-generation backend reachable by model identifier.
// The cascade tries generators-by-model in a fixed order.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(s string) *string    { return &s }

// MockItems is the fixed response used when no generation credential is
// configured, so local development works without external calls.
func MockItems() []LineItem {
	return []LineItem{
		{
			Code:          "D2740",
			TechnicalName: "Crown - Porcelain/Ceramic",
			FriendlyName:  "Tooth Armor / Custom Cap",
			Explanation:   "Your tooth is cracked. This cap holds it together.",
			Urgency:       "High",
			Price:         float64Ptr(1200.0),
			UrgencyHook:   stringPtr("High Risk: A split tooth cannot be fixed."),
		},
	}
}
