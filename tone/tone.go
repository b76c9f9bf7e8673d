// Package tone defines the tone list, the atomic unit of rendered signal
// description shared by the pulse and code parsers and consumed by render.
package tone

// Tone is one frequency/attenuation/phase/duration quadruple, the atomic
// rendering unit described by iq_render's tone_t.
type Tone struct {
	Hz int32 `json:"hz"` // carrier offset in Hz, may be negative
	Db int32 `json:"db"` // attenuation in dB; < -24 means "continue previous frequency"
	Ph int32 `json:"ph"` // phase offset in degrees, applied once at tone start
	Us int32 `json:"us"` // duration in microseconds
}

// Zero reports whether t is the zero value, which is what
// SymbolTable.First returns for an undefined symbol.
func (t Tone) Zero() bool {
	return t == Tone{}
}

// List is a sequence of tones in emission order. Unlike the C original's
// malloc'd array with a {us:0, hz:0} sentinel, a List carries its own
// length and never needs a terminator tone appended by the producer.
type List []Tone

// LengthMicros sums the Us field of every tone, the signal length a render
// of this list will cover before any sample-rate rounding.
func LengthMicros(tones []Tone) uint64 {
	var total uint64
	for _, t := range tones {
		total += uint64(t.Us)
	}
	return total
}
