package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/cwsl/tonegen/filter"
	"github.com/cwsl/tonegen/nco"
	"github.com/cwsl/tonegen/tone"
)

// Stats reports what a completed (or cancelled) render produced.
type Stats struct {
	RenderID     uuid.UUID
	TotalMicros  uint64
	TotalSamples uint64
	Elapsed      time.Duration
	Cancelled    bool
}

// LengthMicros sums the Us field of every tone: the signal length a render
// of tones will cover before sample-rate rounding.
func LengthMicros(tones []tone.Tone) uint64 {
	return tone.LengthMicros(tones)
}

// LengthSamples sums floor(us*sample_rate/1e6) over every tone, the exact
// sample count a render of tones at spec.SampleRateHz will produce. Callable
// before allocating, to presize a buffer.
func LengthSamples(spec Spec, tones []tone.Tone) uint64 {
	var total uint64
	for _, t := range tones {
		total += samplesForTone(t.Us, spec.SampleRateHz)
	}
	return total
}

func samplesForTone(us int32, sampleRate float64) uint64 {
	if us <= 0 {
		return 0
	}
	return uint64(math.Floor(float64(us) * sampleRate / 1e6))
}

// toLinear interprets v as a gain: negative values are dBFS
// (10^(v/20)), non-negative values are already a linear multiplier.
func toLinear(v float64) float64 {
	if v < 0 {
		return math.Pow(10, v/20)
	}
	return v
}

// silenceThreshold is the single authoritative "continue previous
// frequency" boundary (resolving the -200/-99 dB
// sentinel inconsistency): any tone with Db below this is a continuation of
// the previously committed frequency, rendered at its own (very low)
// magnitude rather than switching frequency.
const silenceThreshold = -24

// state carries everything that must persist across tone boundaries within
// one render: the phase accumulator, the last-committed tone, and the
// filter/ramp tables. It is owned exclusively by the render call that
// creates it and discarded at the end.
type state struct {
	phi    uint32
	gDb    int32
	gHz    float64
	biquad *filter.Biquad
	ramp   *filter.Ramp

	gain       float64
	noiseFloor float64
	noiseSig   float64

	frame    []byte
	framePos int
	unit     int
}

func newState(r resolved) *state {
	return &state{
		gDb:        -40,
		biquad:     filter.NewBiquad(r.FilterWc),
		ramp:       filter.NewRamp(r.StepWidthUs, r.SampleRateHz),
		gain:       toLinear(r.GainDb),
		noiseFloor: toLinear(r.NoiseFloorDb) * 2 * math.Sqrt(3.0/4.0),
		noiseSig:   toLinear(r.NoiseSignalDb),
		frame:      make([]byte, r.FrameSize),
		unit:       r.frameUnit,
	}
}

func uniform() float64 {
	return rand.Float64() - 0.5
}

// renderTone advances st by exactly one tone's worth of samples, quantizing
// each into st's frame buffer and flushing through flush whenever it fills.
// It returns the number of samples emitted.
func renderTone(st *state, r resolved, t tone.Tone, flush func() error) (uint64, error) {
	effHz := float64(t.Hz)
	if t.Db < silenceThreshold {
		effHz = st.gHz
	}

	if t.Ph != 0 {
		deg := nco.NormalizeDegrees(t.Ph)
		st.phi += nco.PhaseOffset(deg)
	}

	dPhi := nco.DPhase(int32(effHz), r.SampleRateHz)
	newMag := nco.DbToMag(t.Db)
	oldMag := nco.DbToMag(st.gDb)

	n := samplesForTone(t.Us, r.SampleRateHz)
	for i := uint64(0); i < n; i++ {
		mag := st.ramp.Mix(int(i), oldMag, newMag)

		iSample := nco.Cos(st.phi)*st.gain*mag + st.noiseSig*uniform()
		qSample := nco.Sin(st.phi)*st.gain*mag + st.noiseSig*uniform()

		iSample = st.biquad.FilterI(iSample)
		qSample = st.biquad.FilterQ(qSample)

		iSample += st.noiseFloor * uniform()
		qSample += st.noiseFloor * uniform()

		st.framePos += r.SampleFormat.Encode(iSample, qSample, r.FullScale, st.frame[st.framePos:])
		if st.framePos >= len(st.frame) {
			if err := flush(); err != nil {
				return i + 1, err
			}
		}

		st.phi += dPhi
	}

	st.gDb = t.Db
	st.gHz = effHz
	return n, nil
}

// run drives the whole tone list through renderTone, flushing the frame
// buffer at tone-list end and honoring ctx cancellation between tones.
func run(ctx context.Context, r resolved, tones []tone.Tone, flush func([]byte) error) (Stats, error) {
	stats := Stats{RenderID: uuid.New()}
	st := newState(r)
	start := timeNow()

	flushFrame := func() error {
		if st.framePos == 0 {
			return nil
		}
		if err := flush(st.frame[:st.framePos]); err != nil {
			return err
		}
		st.framePos = 0
		return nil
	}

	for _, t := range tones {
		select {
		case <-ctx.Done():
			if err := flushFrame(); err != nil {
				stats.Elapsed = timeNow().Sub(start)
				return stats, err
			}
			stats.Cancelled = true
			stats.Elapsed = timeNow().Sub(start)
			return stats, ErrCancelled
		default:
		}

		n, err := renderTone(st, r, t, flushFrame)
		stats.TotalSamples += n
		stats.TotalMicros += uint64(t.Us)
		if err != nil {
			stats.Elapsed = timeNow().Sub(start)
			return stats, err
		}
	}

	if err := flushFrame(); err != nil {
		stats.Elapsed = timeNow().Sub(start)
		return stats, err
	}

	stats.Elapsed = timeNow().Sub(start)
	return stats, nil
}

// timeNow is a thin seam so tests can't be flaky on Elapsed; production
// always uses time.Now.
var timeNow = time.Now

// ToSink streams a render of tones under spec to sink, flushing at
// frame_size boundaries. ctx carries cancellation: checked between tones,
// never mid-sample or mid-codec-write.
func ToSink(ctx context.Context, spec Spec, tones []tone.Tone, sink Sink, metrics *Metrics) (Stats, error) {
	r, err := resolve(spec, nil)
	if err != nil {
		return Stats{}, err
	}
	if err := validateTones(tones); err != nil {
		return Stats{}, err
	}

	metrics.observeStart()
	stats, err := run(ctx, r, tones, func(p []byte) error {
		if werr := sink.WriteFrame(p); werr != nil {
			return werr
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrCancelled) {
		metrics.observeDone(stats, err)
		return stats, err
	}
	metrics.observeDone(stats, nil)
	if stats.Cancelled {
		return stats, ErrCancelled
	}
	return stats, nil
}

// ToBuffer renders tones under spec into a freshly allocated buffer sized
// exactly to samples * bytes_per_sample(fmt).
func ToBuffer(ctx context.Context, spec Spec, tones []tone.Tone, metrics *Metrics) ([]byte, Stats, error) {
	r, err := resolve(spec, nil)
	if err != nil {
		return nil, Stats{}, err
	}
	if err := validateTones(tones); err != nil {
		return nil, Stats{}, err
	}

	sink := &BufferSink{Buf: make([]byte, 0, int(LengthSamples(spec, tones))*spec.SampleFormat.BytesPerSample())}

	metrics.observeStart()
	stats, err := run(ctx, r, tones, func(p []byte) error {
		return sink.WriteFrame(p)
	})
	if err != nil && !errors.Is(err, ErrCancelled) {
		metrics.observeDone(stats, err)
		return sink.Buf, stats, err
	}
	metrics.observeDone(stats, nil)
	if stats.Cancelled {
		return sink.Buf, stats, ErrCancelled
	}
	return sink.Buf, stats, nil
}

// validateTones rejects a negative duration up front
// ("Out-of-range format, zero sample rate, negative duration: reject at
// init").
func validateTones(tones []tone.Tone) error {
	for i, t := range tones {
		if t.Us < 0 {
			return &SpecError{Field: "tones", Msg: fmt.Sprintf("tone[%d].us is negative (%d)", i, t.Us)}
		}
	}
	return nil
}
