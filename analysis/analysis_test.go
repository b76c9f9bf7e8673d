package analysis

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/tonegen/render"
	"github.com/cwsl/tonegen/sampleformat"
	"github.com/cwsl/tonegen/tone"
)

// decodeCF32 turns a CF32-encoded render buffer back into complex128
// samples, the inverse of sampleformat's CF32 encode path.
func decodeCF32(buf []byte, fullScale float64) []complex128 {
	out := make([]complex128, len(buf)/8)
	for n := range out {
		i := math.Float32frombits(binary.LittleEndian.Uint32(buf[n*8 : n*8+4]))
		q := math.Float32frombits(binary.LittleEndian.Uint32(buf[n*8+4 : n*8+8]))
		out[n] = complex(float64(i)/fullScale, float64(q)/fullScale)
	}
	return out
}

func renderSingleTone(t *testing.T, hz int32, sampleRate float64, micros int32) []complex128 {
	t.Helper()
	spec := render.Spec{
		SampleRateHz: sampleRate,
		NoiseFloorDb: -999,
		FilterWc:     0.5,
		SampleFormat: sampleformat.CF32,
		FrameSize:    8,
	}
	tones := tone.List{{Hz: hz, Db: 0, Us: micros}}
	buf, _, err := render.ToBuffer(context.Background(), spec, tones, nil)
	require.NoError(t, err)
	return decodeCF32(buf, 1.0)
}

func Test_DominantFrequencyRecoversPositiveTone(t *testing.T) {
	const sampleRate = 1_000_000.0
	iq := renderSingleTone(t, 50_000, sampleRate, 10_000)

	hz, mag := DominantFrequency(iq, sampleRate)

	binWidth := sampleRate / float64(len(iq))
	assert.InDelta(t, 50_000.0, hz, binWidth)
	assert.Greater(t, mag, 0.0)
}

func Test_DominantFrequencyRecoversNegativeTone(t *testing.T) {
	const sampleRate = 1_000_000.0
	iq := renderSingleTone(t, -50_000, sampleRate, 10_000)

	hz, _ := DominantFrequency(iq, sampleRate)

	binWidth := sampleRate / float64(len(iq))
	assert.InDelta(t, -50_000.0, hz, binWidth)
}

func Test_DominantFrequencyDistinguishesSignOfOffset(t *testing.T) {
	const sampleRate = 1_000_000.0
	pos := renderSingleTone(t, 50_000, sampleRate, 10_000)
	neg := renderSingleTone(t, -50_000, sampleRate, 10_000)

	posHz, _ := DominantFrequency(pos, sampleRate)
	negHz, _ := DominantFrequency(neg, sampleRate)

	assert.Greater(t, posHz, 0.0)
	assert.Less(t, negHz, 0.0)
}

func Test_DominantFrequencyEmptyInput(t *testing.T) {
	hz, mag := DominantFrequency(nil, 1_000_000.0)
	assert.Equal(t, 0.0, hz)
	assert.Equal(t, 0.0, mag)
}
