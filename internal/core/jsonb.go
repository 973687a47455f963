// AngelaMos | 2026
// jsonb.go

package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is an opaque key/value bag stored in a jsonb column. A nil map is
// stored as SQL NULL.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal json map: %w", err)
	}

	return string(b), nil
}

func (m *JSONMap) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan json map: unsupported type %T", src)
	}

	if len(raw) == 0 || string(raw) == "null" {
		*m = nil
		return nil
	}

	out := make(JSONMap)
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan json map: %w", err)
	}

	*m = out
	return nil
}

// Clone returns a shallow copy so callers can mutate top-level keys freely.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}

	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
