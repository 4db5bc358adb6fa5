package palette

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/openlms/courseflow/pkg/models"
)

// Wire payloads for condition configs are validated against a schema before
// they are decoded into their typed variant, so malformed legacy records are
// rejected at the boundary instead of producing a garbage graph.
var conditionSchemas = map[models.ConditionType]map[string]any{
	models.ConditionTypeManual: {
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]any{},
	},
	models.ConditionTypeAutomatic: {
		"type":                 "object",
		"additionalProperties": false,
		"properties":           map[string]any{},
	},
	models.ConditionTypeTimer: {
		"type":                 "object",
		"required":             []any{"delay_hours"},
		"additionalProperties": false,
		"properties": map[string]any{
			"delay_hours": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
		},
	},
	models.ConditionTypeApproval: {
		"type":                 "object",
		"required":             []any{"required_roles"},
		"additionalProperties": false,
		"properties": map[string]any{
			"required_roles": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": approverRoleNames(),
				},
			},
		},
	},
	models.ConditionTypeConditional: {
		"type":                 "object",
		"required":             []any{"expression"},
		"additionalProperties": false,
		"properties": map[string]any{
			"expression": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
		},
	},
}

func approverRoleNames() []any {
	roles := models.ApproverRoles()
	names := make([]any, 0, len(roles))

	for _, r := range roles {
		names = append(names, string(r))
	}

	return names
}

// ValidateConditionPayload checks a raw condition_config document against the
// schema for its condition type. Empty payloads are accepted; the decoder
// substitutes the zero-value variant.
func ValidateConditionPayload(t models.ConditionType, raw []byte) error {
	schema, ok := conditionSchemas[t]
	if !ok {
		return fmt.Errorf("unknown condition type %q", t)
	}

	if len(raw) == 0 {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate %s condition config: %w", t, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}

		return fmt.Errorf("invalid %s condition config: %s", t, strings.Join(details, "; "))
	}

	return nil
}
