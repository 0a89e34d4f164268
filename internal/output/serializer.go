package output

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// DefaultIndent is the JSON indentation used when none is given.
const DefaultIndent = "  "

// SerializeYAML converts v to YAML. Field names and omission follow the
// json struct tags.
func SerializeYAML(v any) ([]byte, error) {
	b, err := sigsyaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return withNewline(b), nil
}

// SerializeJSON converts v to indented JSON.
func SerializeJSON(v any, indent string) ([]byte, error) {
	if indent == "" {
		indent = DefaultIndent
	}

	b, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return withNewline(b), nil
}

func withNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b
}
