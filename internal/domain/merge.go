package domain

import (
	"encoding/json"
	"fmt"
)

// Merge overlays a raw field patch onto base through its JSON
// representation and returns the merged entity. The merge is shallow: a
// patch key replaces the entire top-level field, nested objects are
// swapped wholesale rather than merged recursively. Protected keys are
// dropped from the patch before merging, so callers can never override
// server-generated fields.
func Merge[T any](base *T, patch map[string]any, protected ...string) (*T, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal entity: %w", err)
	}

	skip := make(map[string]bool, len(protected))
	for _, key := range protected {
		skip[key] = true
	}

	for key, val := range patch {
		if skip[key] {
			continue
		}
		doc[key] = val
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out := new(T)
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return out, nil
}
