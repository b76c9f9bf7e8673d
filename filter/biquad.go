// Package filter implements the render's band-limiting biquad and the
// tone-boundary ramp that crossfades amplitude (and implicitly phase
// continuity) across a tone change without clicks.
package filter

import "math"

// Coeffs are the five coefficients of a 2nd order IIR section, applied in
// direct form I: y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] + a1*y[n-1] + a2*y[n-2].
type Coeffs struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// NewButterworthLowPass computes the coefficients of a 2nd order
// Butterworth low-pass from the bilinear transform, wc being the ratio of
// cutoff to sample rate. At wc >= 0.5 the filter is bypassed (unity gain,
// zero history contribution).
func NewButterworthLowPass(wc float64) Coeffs {
	if wc >= 0.5 {
		return Coeffs{B0: 1}
	}
	ita := 1 / math.Tan(math.Pi*wc)
	q := math.Sqrt2
	b0 := 1 / (1 + q*ita + ita*ita)
	return Coeffs{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: 2 * (ita*ita - 1) * b0,
		A2: -(1 - q*ita + ita*ita) * b0,
	}
}

// channelState holds the two-sample history for one of the I/Q channels.
type channelState struct {
	x [2]float64
	y [2]float64
}

func (s *channelState) apply(c Coeffs, x float64) float64 {
	y := c.A1*s.y[0] + c.A2*s.y[1] + c.B0*x + c.B1*s.x[0] + c.B2*s.x[1]
	s.x[1], s.x[0] = s.x[0], x
	s.y[1], s.y[0] = s.y[0], y
	return y
}

// Biquad is a pair of independent direct-form-I histories sharing
// one set of coefficients, one for I and one for Q, persisting across
// tones so consecutive same-frequency tones filter as one continuous wave.
type Biquad struct {
	Coeffs Coeffs
	i, q   channelState
}

// NewBiquad builds a Biquad for the given normalized cutoff.
func NewBiquad(wc float64) *Biquad {
	return &Biquad{Coeffs: NewButterworthLowPass(wc)}
}

// FilterI runs one sample through the I channel's history.
func (b *Biquad) FilterI(x float64) float64 { return b.i.apply(b.Coeffs, x) }

// FilterQ runs one sample through the Q channel's history.
func (b *Biquad) FilterQ(x float64) float64 { return b.q.apply(b.Coeffs, x) }
