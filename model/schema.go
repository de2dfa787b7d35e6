package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// InsightReportSchema is the structured-output contract for extraction
// mode. The same map is sent upstream as the responseSchema directive and
// compiled locally for validation, so the two can never drift apart.
// Gemini accepts only the OpenAPI subset, hence no additionalProperties.
func InsightReportSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key_metrics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"action_items": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"sentiment": map[string]any{
				"type": "string",
				"enum": []string{"Positive", "Neutral", "Negative"},
			},
			"summary": map[string]any{"type": "string"},
		},
		"required": []string{"key_metrics", "action_items", "sentiment", "summary"},
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

// ExtractJSON returns the outermost brace-delimited window of s, which
// strips prose or fencing a model sometimes wraps around a JSON reply.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start == -1 || end == -1 || end <= start {
		return s, errors.New("no valid json found")
	}

	return s[start : end+1], nil
}
