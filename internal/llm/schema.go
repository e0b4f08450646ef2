package llm

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// lineItemSchema is a JSON-Schema (draft 2020-12 subset) for one generated
// line item. Required fields must be present and non-empty; price, when
// given, must be a non-negative number.
const lineItemSchema = `{
  "type": "object",
  "required": ["code", "technical_name", "friendly_name", "explanation", "urgency"],
  "properties": {
    "code": {"type": "string", "minLength": 1},
    "technical_name": {"type": "string", "minLength": 1},
    "friendly_name": {"type": "string", "minLength": 1},
    "explanation": {"type": "string", "minLength": 1},
    "urgency": {"type": "string", "minLength": 1},
    "price": {"type": ["number", "null"], "minimum": 0},
    "urgency_hook": {"type": ["string", "null"]}
  }
}`

var compiledLineItemSchema = jsonschema.MustCompileString("line_item.json", lineItemSchema)

// ValidateItem checks one decoded item object against the line item schema.
func ValidateItem(v any) error {
	return compiledLineItemSchema.Validate(v)
}
