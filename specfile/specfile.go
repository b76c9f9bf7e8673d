// Package specfile loads YAML documents describing a render.Spec or a
// pulse.Setup, for embedding applications (CLI, MCP server) that keep their
// settings in a config file rather than constructing the core's plain
// value types in code. The core renderer itself takes no config: this
// layer exists purely at the edges, for a binary's own configuration, never
// for the library code it calls into.
package specfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwsl/tonegen/pulse"
	"github.com/cwsl/tonegen/render"
	"github.com/cwsl/tonegen/sampleformat"
)

// renderSpecDoc mirrors render.Spec's fields with yaml tags; render.Spec
// itself carries no yaml annotations since it is a pure core value type
// (the core render function itself has no environment/config surface).
type renderSpecDoc struct {
	SampleRateHz  float64             `yaml:"sample_rate_hz"`
	NoiseFloorDb  float64             `yaml:"noise_floor_db"`
	NoiseSignalDb float64             `yaml:"noise_signal_db"`
	GainDb        float64             `yaml:"gain_db"`
	FilterWc      float64             `yaml:"filter_wc"`
	StepWidthUs   uint32              `yaml:"step_width_us"`
	SampleFormat  sampleformat.Format `yaml:"sample_format"`
	FullScale     float64             `yaml:"full_scale"`
	FrameSize     int                 `yaml:"frame_size"`
}

// LoadRenderSpec reads and unmarshals a YAML render spec from path.
func LoadRenderSpec(path string) (*render.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("specfile: read render spec %s: %w", path, err)
	}

	var doc renderSpecDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("specfile: parse render spec %s: %w", path, err)
	}

	return &render.Spec{
		SampleRateHz:  doc.SampleRateHz,
		NoiseFloorDb:  doc.NoiseFloorDb,
		NoiseSignalDb: doc.NoiseSignalDb,
		GainDb:        doc.GainDb,
		FilterWc:      doc.FilterWc,
		StepWidthUs:   doc.StepWidthUs,
		SampleFormat:  doc.SampleFormat,
		FullScale:     doc.FullScale,
		FrameSize:     doc.FrameSize,
	}, nil
}

// pulseSetupDoc mirrors pulse.Setup with yaml tags and a default time base
// applied when the document omits it entirely (a bare "0" in the document
// is taken literally and left alone -- only absence triggers the default).
type pulseSetupDoc struct {
	TimeBase   *float64 `yaml:"time_base"`
	FreqMark   int32    `yaml:"freq_mark"`
	FreqSpace  int32    `yaml:"freq_space"`
	AttMark    int32    `yaml:"att_mark"`
	AttSpace   int32    `yaml:"att_space"`
	PhaseMark  int32    `yaml:"phase_mark"`
	PhaseSpace int32    `yaml:"phase_space"`
}

// LoadPulseSetup reads and unmarshals a YAML pulse setup from path.
func LoadPulseSetup(path string) (*pulse.Setup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("specfile: read pulse setup %s: %w", path, err)
	}

	var doc pulseSetupDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("specfile: parse pulse setup %s: %w", path, err)
	}

	setup := pulse.DefaultSetup()
	if doc.TimeBase != nil {
		setup.TimeBase = *doc.TimeBase
	}
	setup.FreqMark = doc.FreqMark
	setup.FreqSpace = doc.FreqSpace
	setup.AttMark = doc.AttMark
	setup.AttSpace = doc.AttSpace
	setup.PhaseMark = doc.PhaseMark
	setup.PhaseSpace = doc.PhaseSpace
	return &setup, nil
}
