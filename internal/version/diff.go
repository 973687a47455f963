// AngelaMos | 2026
// diff.go

package version

import (
	"bytes"
	"encoding/json"
)

// Changed reports whether any versioned field differs. A nil title or notes
// equals the empty string, and nil metadata equals an empty object.
// Metadata is compared by its JSON encoding, which orders map keys.
func Changed(old, next Snapshot) bool {
	if old.Content != next.Content {
		return true
	}
	if deref(old.Title) != deref(next.Title) {
		return true
	}
	if deref(old.Notes) != deref(next.Notes) {
		return true
	}
	return !sameMetadata(old.Metadata, next.Metadata)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameMetadata(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}

	ea, errA := json.Marshal(a)
	eb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}

	return bytes.Equal(ea, eb)
}
