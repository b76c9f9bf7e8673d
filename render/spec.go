// Package render implements the tone renderer: the core loop that walks a
// tone list and drives the NCO, ramp, filter, and sample-format codec to
// produce an I/Q byte stream.
package render

import (
	"fmt"

	"github.com/cwsl/tonegen/sampleformat"
)

// Spec is the render spec: everything the renderer needs to
// know beyond the tone list itself.
type Spec struct {
	SampleRateHz  float64             `json:"sample_rate_hz"`
	NoiseFloorDb  float64             `json:"noise_floor_db"`
	NoiseSignalDb float64             `json:"noise_signal_db"`
	GainDb        float64             `json:"gain_db"`
	FilterWc      float64             `json:"filter_wc"`
	StepWidthUs   uint32              `json:"step_width_us"`
	SampleFormat  sampleformat.Format `json:"sample_format"`
	FullScale     float64             `json:"full_scale"`
	FrameSize     int                 `json:"frame_size"`
}

// SpecError reports a rejected render spec: unrecognized format or a zero
// sample rate, and a tone with a negative duration. frame_size mismatches against the
// format's pairing unit are auto-corrected with a warning rather than
// rejected; see resolve().
type SpecError struct {
	Field string
	Msg   string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("render spec: %s: %s", e.Field, e.Msg)
}

// resolved is a validated, defaulted copy of Spec ready for rendering.
type resolved struct {
	Spec
	frameUnit int
}

// resolve validates spec up-front ("validates the spec up
// front, one pass") and fills in format-default full scale / frame size
// rounding. warn, if non-nil, receives non-fatal corrections.
func resolve(spec Spec, warn func(error)) (resolved, error) {
	r := resolved{Spec: spec}

	if !spec.SampleFormat.Valid() {
		return r, &SpecError{Field: "sample_format", Msg: "unrecognized format"}
	}
	if spec.SampleRateHz == 0 {
		return r, &SpecError{Field: "sample_rate_hz", Msg: "must be nonzero"}
	}
	// StepWidthUs is unsigned at the Go API boundary, so a negative
	// step_width_us can only arrive through specfile's YAML
	// decoding, which rejects it before it ever reaches Spec.

	if r.FullScale == 0 {
		r.FullScale = spec.SampleFormat.DefaultFullScale()
	}

	r.frameUnit = spec.SampleFormat.BytesPerSample()
	if r.FrameSize <= 0 {
		r.FrameSize = r.frameUnit
	}
	if rem := r.FrameSize % r.frameUnit; rem != 0 {
		rounded := r.FrameSize - rem
		if rounded < r.frameUnit {
			rounded = r.frameUnit
		}
		if warn != nil {
			warn(&SpecError{
				Field: "frame_size",
				Msg:   fmt.Sprintf("%d is not a multiple of %d, rounded to %d", r.FrameSize, r.frameUnit, rounded),
			})
		}
		r.FrameSize = rounded
	}

	return r, nil
}
