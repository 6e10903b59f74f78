package render

import (
	"encoding/json"
)

// JSON renders each view as one compact JSON object per line, so a stream of
// interim and final views reads as NDJSON.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// Render formats one view as a JSON line.
func (j *JSON) Render(v View) string {
	data, err := json.Marshal(v)
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return string(data) + "\n"
}
