package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbridge/dentalbridge/internal/llm"
)

const validItemJSON = `{
	"code": "D1110",
	"technical_name": "Prophylaxis - Adult",
	"friendly_name": "Professional Cleaning",
	"explanation": "A routine cleaning to remove plaque.",
	"urgency": "Low",
	"price": 150,
	"urgency_hook": "Keeps your gums healthy."
}`

func TestParseItems_TopLevelArray(t *testing.T) {
	items := llm.ParseItems(`[`+validItemJSON+`]`, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "D1110", items[0].Code)
	assert.Equal(t, "Professional Cleaning", items[0].FriendlyName)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 150.0, *items[0].Price)
}

func TestParseItems_CodeFencedResponse(t *testing.T) {
	fenced := "```json\n[" + validItemJSON + "]\n```"
	plain := llm.ParseItems(`[`+validItemJSON+`]`, nil)
	items := llm.ParseItems(fenced, nil)
	assert.Equal(t, plain, items)
}

func TestParseItems_ObjectWithItemsKey(t *testing.T) {
	items := llm.ParseItems(`{"items": [`+validItemJSON+`]}`, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "Prophylaxis - Adult", items[0].TechnicalName)
}

func TestParseItems_ObjectWithoutItemsKey(t *testing.T) {
	items := llm.ParseItems(`{"results": [`+validItemJSON+`]}`, nil)
	assert.Empty(t, items)
}

func TestParseItems_NotJSON(t *testing.T) {
	assert.Empty(t, llm.ParseItems("I'm sorry, I can't help with that.", nil))
}

func TestParseItems_PriceStringCoercion(t *testing.T) {
	tests := []struct {
		name  string
		price string
		want  float64
	}{
		{"currency symbol and separators", `"$1,200.00"`, 1200.0},
		{"thousands separator only", `"1,200"`, 1200.0},
		{"empty string", `""`, 0.0},
		{"unparseable", `"call us"`, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := `[{
				"code": "D2740",
				"technical_name": "Crown",
				"friendly_name": "Cap",
				"explanation": "Protects the tooth.",
				"urgency": "High",
				"price": ` + tc.price + `
			}]`
			items := llm.ParseItems(raw, nil)
			require.Len(t, items, 1)
			require.NotNil(t, items[0].Price)
			assert.Equal(t, tc.want, *items[0].Price)
		})
	}
}

func TestParseItems_UrgencyCaseCanonicalized(t *testing.T) {
	raw := `[{
		"code": "D3310",
		"technical_name": "Root Canal - Anterior",
		"friendly_name": "Root Canal",
		"explanation": "Clears infection from inside the tooth.",
		"urgency": "HIGH"
	}]`
	items := llm.ParseItems(raw, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "High", items[0].Urgency)
}

func TestParseItems_MissingRequiredFieldAbortsBatch(t *testing.T) {
	// One invalid item (no explanation) poisons the whole batch.
	raw := `[` + validItemJSON + `, {
		"code": "D2740",
		"technical_name": "Crown",
		"friendly_name": "Cap",
		"urgency": "High"
	}]`
	assert.Empty(t, llm.ParseItems(raw, nil))
}

func TestParseItems_OptionalFieldsMayBeNull(t *testing.T) {
	raw := `[{
		"code": "D0120",
		"technical_name": "Periodic Oral Evaluation",
		"friendly_name": "Check-up",
		"explanation": "A quick look at your teeth and gums.",
		"urgency": "Low",
		"price": null,
		"urgency_hook": null
	}]`
	items := llm.ParseItems(raw, nil)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Price)
	assert.Nil(t, items[0].UrgencyHook)
}
