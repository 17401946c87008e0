package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"saubio/models"
)

// envelope is the persisted shape. The version lets old tabs survive a schema change.
type envelope struct {
	Version int             `json:"version"`
	Draft   json.RawMessage `json:"draft"`
}

// Encode serializes the whole draft as one unit.
func Encode(d models.PlannerDraft) ([]byte, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal planner draft: %w", err)
	}
	return json.Marshal(envelope{Version: models.DraftSchemaVersion, Draft: raw})
}

// Decode reads a persisted envelope. Fields are applied one by one onto the defaults,
// so a single malformed or unknown field is dropped instead of losing the whole draft.
// Anything unreadable at the envelope level is reported as "no draft".
func Decode(data []byte) (*models.PlannerDraft, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if env.Version != models.DraftSchemaVersion || len(env.Draft) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Draft, &fields); err != nil || fields == nil {
		return nil, false
	}
	d, _ := ApplyFields(models.DefaultDraft(), fields)
	d.Sanitize()
	return &d, true
}

// ApplyFields overwrites the named fields of base and returns the result plus the keys that were applied.
// Unknown keys and values of the wrong type are skipped. Replaced slices and maps are not merged.
func ApplyFields(base models.PlannerDraft, fields map[string]json.RawMessage) (models.PlannerDraft, []string) {
	current, err := toFieldMap(base)
	if err != nil {
		return base, nil
	}

	applied := make([]string, 0, len(fields))
	for key, raw := range fields {
		if !validField(key, raw) {
			continue
		}
		current[key] = raw
		applied = append(applied, key)
	}

	merged, err := json.Marshal(current)
	if err != nil {
		return base, nil
	}
	var out models.PlannerDraft
	if err := json.Unmarshal(merged, &out); err != nil {
		return base, nil
	}
	return out, applied
}

func toFieldMap(d models.PlannerDraft) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// validField probes a single key against a fresh draft with unknown fields disallowed.
func validField(key string, raw json.RawMessage) bool {
	probe, err := json.Marshal(map[string]json.RawMessage{key: raw})
	if err != nil {
		return false
	}
	dec := json.NewDecoder(bytes.NewReader(probe))
	dec.DisallowUnknownFields()
	var d models.PlannerDraft
	return dec.Decode(&d) == nil
}
