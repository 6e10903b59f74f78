package render

import (
	"encoding/json"
	"fmt"
	"math"
)

// Zoom steps and bounds shared by every panel surface.
const (
	ZoomStep = 0.1
	MinZoom  = 0.1
)

// Zoom is a panel's scale factor. It moves in fixed steps of ZoomStep and
// never drops below MinZoom; there is no maximum. The scale is stored in
// whole steps so repeated clicks do not accumulate float error.
type Zoom struct {
	steps int
}

const (
	stepsPerUnit = 10
	minSteps     = 1
)

// NewZoom returns a zoom at scale 1.0.
func NewZoom() Zoom {
	return Zoom{steps: stepsPerUnit}
}

// ZoomAt returns a zoom at the given scale, rounded to the nearest step and
// clamped at MinZoom.
func ZoomAt(scale float64) Zoom {
	steps := int(math.Round(scale * stepsPerUnit))
	if steps < minSteps {
		steps = minSteps
	}
	return Zoom{steps: steps}
}

// In enlarges the panel by one step.
func (z *Zoom) In() {
	z.normalize()
	z.steps++
}

// Out shrinks the panel by one step, stopping at MinZoom.
func (z *Zoom) Out() {
	z.normalize()
	if z.steps > minSteps {
		z.steps--
	}
}

// Scale returns the current scale factor.
func (z Zoom) Scale() float64 {
	z.normalize()
	return float64(z.steps) / stepsPerUnit
}

// Percent renders the scale as a percentage, e.g. "90%".
func (z Zoom) Percent() string {
	z.normalize()
	return fmt.Sprintf("%d%%", z.steps*100/stepsPerUnit)
}

// normalize treats the zero value as 1.0.
func (z *Zoom) normalize() {
	if z.steps == 0 {
		z.steps = stepsPerUnit
	}
}

// MarshalJSON encodes the zoom as its scale factor.
func (z Zoom) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.Scale())
}

// UnmarshalJSON decodes a scale factor.
func (z *Zoom) UnmarshalJSON(data []byte) error {
	var scale float64
	if err := json.Unmarshal(data, &scale); err != nil {
		return err
	}
	*z = ZoomAt(scale)
	return nil
}

// MarshalYAML encodes the zoom as its scale factor.
func (z Zoom) MarshalYAML() (interface{}, error) {
	return z.Scale(), nil
}
