package recognizer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zhaowenhao/docaudit/internal/audit"
)

// BuildContractJSONSchema returns the per-page contract payload schema as a
// generic map. We pass it to the recognition service as a structured-output
// constraint and also use it to validate responses locally.
func BuildContractJSONSchema() map[string]any {
	props := make(map[string]any, len(audit.ContractFields))
	for _, f := range audit.ContractFields {
		props[f] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{},
	}
}

// BuildSealJSONSchema returns the per-page seal payload schema.
func BuildSealJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"requires_seal": map[string]any{"type": "boolean"},
			"seals": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"is_red":         map[string]any{"type": "boolean"},
						"is_complete":    map[string]any{"type": "boolean"},
						"is_normal_size": map[string]any{"type": "boolean"},
						"seal_text":      map[string]any{"type": "string"},
					},
				},
			},
		},
		"required": []string{},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
