package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dentalbridge/dentalbridge/internal/llm"
)

// decodeItems reads a save-plan body: a JSON array of well-formed line items.
// An empty array is a valid (empty) plan. Each element is validated against
// the line item schema; a structurally bad element rejects the whole request.
func decodeItems(r *http.Request) ([]llm.LineItem, error) {
	var rawItems []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&rawItems); err != nil {
		return nil, errors.New("request body must be a JSON array of line items")
	}

	items := make([]llm.LineItem, 0, len(rawItems))
	for i, raw := range rawItems {
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, fmt.Errorf("item %d: invalid JSON", i)
		}
		if err := llm.ValidateItem(generic); err != nil {
			return nil, fmt.Errorf("item %d is not a well-formed line item", i)
		}
		var item llm.LineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("item %d is not a well-formed line item", i)
		}
		items = append(items, item)
	}
	return items, nil
}
