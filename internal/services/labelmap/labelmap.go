package labelmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// LabelMap is the immutable index-to-class-name table produced alongside the
// checkpoint. The upstream file is a JSON object keyed by decimal class
// indices; each value is either a plain name or a [synset, name] pair.
type LabelMap struct {
	names []string
}

// Parse validates the raw label-mapping JSON. Indices must be unique and
// contiguous from 0 to N-1, matching the training class order.
func Parse(data []byte) (*LabelMap, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("label mapping is not a JSON object: %w", err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("label mapping is empty")
	}

	names := make([]string, len(raw))
	seen := make([]bool, len(raw))

	for key, value := range raw {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("label index %q is not an integer", key)
		}
		if index < 0 || index >= len(raw) {
			return nil, fmt.Errorf("label index %d out of range [0,%d)", index, len(raw))
		}
		if seen[index] {
			return nil, fmt.Errorf("duplicate label index %d", index)
		}

		name, err := parseName(value)
		if err != nil {
			return nil, fmt.Errorf("label index %d: %w", index, err)
		}

		names[index] = name
		seen[index] = true
	}

	return &LabelMap{names: names}, nil
}

func Load(path string) (*LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label mapping: %w", err)
	}

	return Parse(data)
}

func (m *LabelMap) Len() int {
	return len(m.names)
}

func (m *LabelMap) Name(index int) (string, bool) {
	if index < 0 || index >= len(m.names) {
		return "", false
	}

	return m.names[index], true
}

func parseName(value json.RawMessage) (string, error) {
	// Either "goldfish" or ["n01443537", "goldfish"]. The human-readable name
	// is the last element of the pair form.
	var name string
	if err := json.Unmarshal(value, &name); err == nil {
		if name == "" {
			return "", fmt.Errorf("empty class name")
		}
		return name, nil
	}

	var pair []string
	if err := json.Unmarshal(value, &pair); err != nil {
		return "", fmt.Errorf("class name must be a string or string array")
	}
	if len(pair) == 0 || pair[len(pair)-1] == "" {
		return "", fmt.Errorf("empty class name")
	}

	return pair[len(pair)-1], nil
}
