package activity

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Change is one field-level difference between a stored row and an
// incoming patch.
type Change struct {
	Field    string
	Previous any
	New      any
}

// Diff compares a patch against the current field values and returns one
// Change per field that actually differs. Equality is decided on the JSON
// encoding of both sides so nested structures and jsonb columns compare
// by value. Fields present in patch but absent from current are treated
// as new. A patch that matches current everywhere yields no changes.
func Diff(current, patch map[string]any) []Change {
	changes := make([]Change, 0)
	for field, newValue := range patch {
		prev, ok := current[field]
		if ok && jsonEqual(prev, newValue) {
			continue
		}
		changes = append(changes, Change{Field: field, Previous: prev, New: newValue})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

func jsonEqual(a, b any) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// EntityFields flattens an entity into the comparable map Diff expects,
// going through the entity's JSON encoding so field names line up with
// the API payloads.
func EntityFields(entity any) (map[string]any, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// DecodeValue deserializes a logged value for display. Malformed JSON
// yields nil rather than an error; the log row itself is still shown.
func DecodeValue(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// EncodeValue serializes a value for an activity log row. Values that
// cannot be marshalled are stored as nil.
func EncodeValue(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
