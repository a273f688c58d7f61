package pipeline

import (
	"encoding/json"
	"strings"
)

// ExtractJSONArray locates and parses a JSON array of objects inside model
// output that may carry prose or markdown fences around it. The boolean
// reports whether a parseable array was found; callers must treat false as
// "no extraction", not as an error.
func ExtractJSONArray(raw string) ([]map[string]interface{}, bool) {
	s := stripCodeFences(strings.TrimSpace(raw))
	if s == "" {
		return nil, false
	}

	// Keep only the outermost [...] span; the model sometimes narrates
	// before or after the array.
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end <= start {
		return nil, false
	}
	s = s[start : end+1]

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}

	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		var obj map[string]interface{}
		if err := json.Unmarshal(item, &obj); err != nil {
			// Non-object elements (stray strings, numbers) are skipped
			// rather than failing the whole array.
			continue
		}
		records = append(records, obj)
	}

	if len(records) == 0 {
		return nil, false
	}
	return records, true
}

// stripCodeFences removes a leading ```/```json line and a trailing fence if
// the model wrapped its reply despite instructions.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		return strings.TrimPrefix(s, "```")
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
