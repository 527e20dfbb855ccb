package cloudsecret

import (
	"encoding/json"
	"time"
)

// parseRotatedAt reads the rotation record annotation. Malformed entries are
// dropped, which restarts their rotation interval.
func parseRotatedAt(raw string) map[string]time.Time {
	if raw == "" {
		return nil
	}
	var stamps map[string]string
	if err := json.Unmarshal([]byte(raw), &stamps); err != nil {
		return nil
	}
	out := make(map[string]time.Time, len(stamps))
	for k, v := range stamps {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			continue
		}
		out[k] = t
	}
	return out
}

// formatRotatedAt renders the rotation record annotation with second
// precision. An empty record is an empty string.
func formatRotatedAt(rotatedAt map[string]time.Time) string {
	if len(rotatedAt) == 0 {
		return ""
	}
	stamps := make(map[string]string, len(rotatedAt))
	for k, t := range rotatedAt {
		stamps[k] = t.UTC().Format(time.RFC3339)
	}
	// Map keys are marshalled in sorted order.
	b, _ := json.Marshal(stamps)
	return string(b)
}
