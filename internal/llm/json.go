package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SliceJSONObject returns the outermost {...} span of a model response.
// Models routinely wrap JSON in prose or code fences; callers get the raw
// object bytes or ok=false if no brace pair exists.
func SliceJSONObject(s string) ([]byte, bool) {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first == -1 || last == -1 || last <= first {
		return nil, false
	}
	return []byte(s[first : last+1]), true
}

// BuildFieldsJSONSchema returns a JSON-Schema constraining an extraction
// result to exactly the requested field names, each a string or null.
func BuildFieldsJSONSchema(fieldNames []string) map[string]any {
	props := map[string]any{}
	for _, f := range fieldNames {
		props[f] = map[string]any{"type": []string{"string", "null"}}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
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
