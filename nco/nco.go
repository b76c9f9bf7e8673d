// Package nco implements the fixed-point numerically-controlled oscillator
// and the dB-to-linear magnitude lookup shared by every render: a 1024-entry
// sine table indexed by the top bits of a 32-bit phase accumulator, and a
// 256-entry dB table so the render hot loop never calls math.Pow.
package nco

import (
	"math"
	"sync"
)

const (
	lutSize    = 1024
	lutQuarter = lutSize / 4 // cosine offset
	dbLutSize  = 256
	dbMin      = -128
	dbMax      = 127
)

var (
	initOnce sync.Once
	sinLUT   [lutSize]float64
	dbLUT    [dbLutSize]float64
)

func ensureInit() {
	initOnce.Do(func() {
		for i := 0; i < lutSize; i++ {
			sinLUT[i] = math.Sin(2 * math.Pi * float64(i) / lutSize)
		}
		for db := dbMin; db <= dbMax; db++ {
			dbLUT[128+db] = math.Pow(10, float64(db)/20)
		}
	})
}

// Sin returns sin(phi) for a 32-bit phase accumulator value, rounding to
// the nearest LUT bin via a pre-bias of half a bin width (1<<21) before the
// 22-bit right shift that selects one of the 1024 entries.
func Sin(phi uint32) float64 {
	ensureInit()
	i := ((phi + (1 << 21)) >> 22) & (lutSize - 1)
	return sinLUT[i]
}

// Cos returns cos(phi), reusing the sine table with a quarter-cycle offset.
func Cos(phi uint32) float64 {
	ensureInit()
	i := ((phi + (1 << 21)) >> 22) & (lutSize - 1)
	i = (i + lutQuarter) & (lutSize - 1)
	return sinLUT[i]
}

// DPhase returns the per-sample phase increment for a carrier of f Hz at
// sampleRate samples/sec: round(2^32 * f / sampleRate), computed in
// floating point and truncated back to the 32-bit modular phase space. f
// may be negative; the result wraps the same way a signed-to-unsigned cast
// would in C.
func DPhase(f int32, sampleRate float64) uint32 {
	if sampleRate == 0 {
		return 0
	}
	d := math.Round(float64(f) * 4294967296.0 / sampleRate)
	return uint32(int64(d))
}

// PhaseOffset converts a phase angle in degrees (already normalized to
// [0, 360)) to the equivalent one-time bump of the phase accumulator.
func PhaseOffset(degrees int32) uint32 {
	d := math.Round(4294967296.0 * float64(degrees) / 360.0)
	return uint32(int64(d))
}

// NormalizeDegrees folds an arbitrary phase angle into [0, 360).
func NormalizeDegrees(ph int32) int32 {
	ph %= 360
	if ph < 0 {
		ph += 360
	}
	return ph
}

// DbToMag converts an integer dB attenuation to a linear magnitude via the
// 256-entry table, clamping to [-128, 127] first. Parsers are free to emit
// values far below -128 (e.g. a -200 dB silence sentinel); clamping here
// keeps the lookup in range and resolves to the same near-zero magnitude
// the sentinel intended, instead of an out-of-bounds read as in the
// original C (see DESIGN.md open question on the -200/-99 dB sentinels).
func DbToMag(db int32) float64 {
	ensureInit()
	if db < dbMin {
		db = dbMin
	}
	if db > dbMax {
		db = dbMax
	}
	return dbLUT[128+db]
}
