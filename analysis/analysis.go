// Package analysis provides spectral verification for rendered I/Q sample
// streams: given a buffer of complex baseband samples, find the frequency
// that carries the most energy. render's own test suite uses this to
// confirm a rendered tone's measured frequency matches what was requested,
// and it is exported for callers who want the same check outside the test
// suite.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DominantFrequency runs a complex FFT over iq and returns the frequency
// (Hz, signed — baseband bins above Nyquist fold back to negative
// frequencies) and magnitude of its strongest bin, at the given
// sampleRate. Unlike a real-valued FFT over audio, a complex-to-complex
// FFT over I/Q baseband keeps negative-frequency content (an offset tone
// on the low side of the carrier) distinguishable from positive.
func DominantFrequency(iq []complex128, sampleRate float64) (hz float64, magnitude float64) {
	n := len(iq)
	if n == 0 {
		return 0, 0
	}

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, iq)

	bestBin := 0
	bestMag := 0.0
	for k, c := range coeffs {
		mag := math.Hypot(real(c), imag(c))
		if mag > bestMag {
			bestMag = mag
			bestBin = k
		}
	}

	freq := float64(bestBin) * sampleRate / float64(n)
	if bestBin > n/2 {
		freq -= sampleRate
	}

	return freq, bestMag / float64(n)
}
