package draft

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// envelopeSchema guards draft reads: a payload that predates the current
// format, or was mangled in storage, fails here with a field-level message
// instead of surfacing as a decode panic deep in the wizard.
const envelopeSchema = `{
	"type": "object",
	"required": ["formData", "step"],
	"properties": {
		"step": {"type": "string"},
		"savedAt": {"type": "string"},
		"verification": {
			"type": "object",
			"properties": {
				"otpSent": {"type": "boolean"},
				"otpVerified": {"type": "boolean"}
			}
		},
		"formData": {
			"type": "object",
			"required": ["studentId", "budgetItems", "selectedSDGGoals"],
			"properties": {
				"studentId": {"type": "string"},
				"email": {"type": "string"},
				"selectedSDGGoals": {
					"type": "array",
					"maxItems": 3,
					"items": {"type": "integer", "minimum": 1, "maximum": 17}
				},
				"budgetItems": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "object",
						"required": ["id"],
						"properties": {
							"id": {"type": "integer"},
							"items": {"type": "string"},
							"components": {"type": "string"},
							"quantity": {"type": "string"},
							"justification": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

var envelopeSchemaLoader = gojsonschema.NewStringLoader(envelopeSchema)

func validateEnvelope(raw string) error {
	result, err := gojsonschema.Validate(envelopeSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("%s: %s", first.Field(), first.Description())
	}
	return nil
}
