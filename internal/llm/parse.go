package llm

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dentalbridge/dentalbridge/constants"
)

// ParseItems turns a raw model response into validated line items.
//
// The parser is deliberately permissive about the envelope: Markdown code
// fences are stripped, and both a top-level array and an object carrying an
// "items" array are accepted. Any other shape yields zero items. A single
// item failing schema validation aborts the whole batch (an empty plan is
// visibly wrong and gets retried; a silently truncated one is not).
func ParseItems(raw string, logger *slog.Logger) []LineItem {
	if logger == nil {
		logger = slog.Default()
	}

	// Clean up code blocks if a legacy model adds them.
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	var data any
	if err := json.Unmarshal([]byte(clean), &data); err != nil {
		logger.Error("llm.parse.json_error", "error", err, "content", truncateForLog(raw))
		return nil
	}

	var itemsData []any
	switch v := data.(type) {
	case []any:
		itemsData = v
	case map[string]any:
		if nested, ok := v["items"].([]any); ok {
			itemsData = nested
		}
	}
	if len(itemsData) == 0 {
		return nil
	}

	cleaned := make([]LineItem, 0, len(itemsData))
	for _, entry := range itemsData {
		obj, ok := entry.(map[string]any)
		if !ok {
			logger.Error("llm.parse.item_not_object", "content", truncateForLog(raw))
			return nil
		}
		coercePrice(obj)
		if err := ValidateItem(obj); err != nil {
			logger.Error("llm.parse.schema_validation_failed", "error", err, "content", truncateForLog(raw))
			return nil
		}

		item, err := decodeItem(obj)
		if err != nil {
			logger.Error("llm.parse.decode_failed", "error", err, "content", truncateForLog(raw))
			return nil
		}
		if u, ok := constants.CanonicalizeUrgency(item.Urgency); ok {
			item.Urgency = string(u)
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}

// coercePrice rewrites a string price in place: currency symbols and
// thousands separators are stripped, unparseable values default to zero
// rather than failing the item.
func coercePrice(obj map[string]any) {
	s, ok := obj["price"].(string)
	if !ok {
		return
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		obj["price"] = 0.0
		return
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		obj["price"] = 0.0
		return
	}
	obj["price"] = v
}

func decodeItem(obj map[string]any) (LineItem, error) {
	var item LineItem
	b, err := json.Marshal(obj)
	if err != nil {
		return item, err
	}
	err = json.Unmarshal(b, &item)
	return item, err
}

func truncateForLog(s string) string {
	const max = 2 << 10
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
