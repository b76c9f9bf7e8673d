package nco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_SinCosQuarterCycleApart(t *testing.T) {
	for _, phi := range []uint32{0, 1 << 20, 1 << 30, 1<<32 - 1} {
		s := Sin(phi)
		c := Cos(phi)
		assert.InDelta(t, 1.0, s*s+c*c, 0.01, "sin^2+cos^2 should be ~1 at phi=%d", phi)
	}
}

func Test_SinAtKeyPhases(t *testing.T) {
	assert.InDelta(t, 0.0, Sin(0), 0.01)
	assert.InDelta(t, 1.0, Cos(0), 0.01)
	assert.InDelta(t, 1.0, Sin(1<<30), 0.01) // quarter turn
	assert.InDelta(t, 0.0, Cos(1<<30), 0.01)
}

func Test_DPhaseNegativeFrequencyWraps(t *testing.T) {
	pos := DPhase(1000, 1_000_000)
	neg := DPhase(-1000, 1_000_000)
	assert.Equal(t, pos, ^neg+1, "negative frequency should be the two's complement of the positive one")
}

func Test_DPhaseZeroSampleRate(t *testing.T) {
	assert.Equal(t, uint32(0), DPhase(1000, 0))
}

func Test_DbToMagMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(-300, 300).Draw(t, "a")
		b := rapid.IntRange(-300, 300).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(t, DbToMag(int32(a)), DbToMag(int32(b))+1e-12)
	})
}

func Test_DbToMagZeroIsUnity(t *testing.T) {
	assert.InDelta(t, 1.0, DbToMag(0), 1e-9)
}

func Test_DbToMagClampsOutOfRange(t *testing.T) {
	assert.Equal(t, DbToMag(-128), DbToMag(-200))
	assert.Equal(t, DbToMag(127), DbToMag(200))
}

func Test_PhaseOffsetFullTurnWrapsToZero(t *testing.T) {
	assert.Equal(t, uint32(0), PhaseOffset(360))
	assert.Equal(t, uint32(0), PhaseOffset(0))
}

func Test_NormalizeDegrees(t *testing.T) {
	assert.Equal(t, int32(0), NormalizeDegrees(360))
	assert.Equal(t, int32(350), NormalizeDegrees(-10))
	assert.Equal(t, int32(10), NormalizeDegrees(10))
}

func Test_DPhaseRoundsToNearest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := rapid.Int32Range(-200000, 200000).Draw(t, "f")
		sr := rapid.Float64Range(1000, 10_000_000).Draw(t, "sr")
		got := DPhase(f, sr)
		want := math.Round(float64(f) * 4294967296.0 / sr)
		assert.Equal(t, uint32(int64(want)), got)
	})
}
