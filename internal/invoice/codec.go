package invoice

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeSource parses a YAML (or JSON, which YAML subsumes for our shapes)
// source document into the untyped mapping Validate consumes.
func DecodeSource(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse source document: %w", err)
	}
	return raw, nil
}

// EncodeSource emits a Record in the same YAML shape DecodeSource accepts, so
// extractor output can round-trip straight back into the renderer.
func EncodeSource(r *Record) ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}
