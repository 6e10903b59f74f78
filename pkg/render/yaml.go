package render

import (
	"gopkg.in/yaml.v3"
)

// YAML renders views as YAML documents separated by "---".
type YAML struct{}

// NewYAML creates a YAML renderer.
func NewYAML() *YAML {
	return &YAML{}
}

// Render formats one view as a YAML document.
func (y *YAML) Render(v View) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "---\nerror: " + err.Error() + "\n"
	}
	return "---\n" + string(data)
}
