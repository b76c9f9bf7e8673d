package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwsl/tonegen/tone"
)

// Code-text symbol expansion: defining symbol A as
// two tone literals, then referencing it twice, emits their concatenation
// twice: four tones, 20us total.
func Test_Scenario_CodeTextSymbolExpansion(t *testing.T) {
	tones, _, err := Parse("[A (1000Hz 0dB 5us) (2000Hz 0dB 5us)] AA")
	require.NoError(t, err)
	require.Len(t, tones, 4)

	want := tone.Tone{Hz: 1000, Db: 0, Us: 5}
	wantSecond := tone.Tone{Hz: 2000, Db: 0, Us: 5}
	assert.Equal(t, want, tones[0])
	assert.Equal(t, wantSecond, tones[1])
	assert.Equal(t, want, tones[2])
	assert.Equal(t, wantSecond, tones[3])
	assert.Equal(t, uint64(20), tone.LengthMicros(tones))
}

func Test_ToneLiteralDefaultsDbToSilence(t *testing.T) {
	tones, _, err := Parse("(1000Hz 5us)")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, int32(-99), tones[0].Db)
	assert.Equal(t, int32(1000), tones[0].Hz)
}

func Test_ToneLiteralWithDbButNoHzInheritsReferenceHz(t *testing.T) {
	tones, _, err := Parse("[A (2000Hz 0dB 1us)] (A -10dB 3us)")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, int32(2000), tones[0].Hz)
	assert.Equal(t, int32(-10), tones[0].Db)
	assert.Equal(t, int32(3), tones[0].Us)
}

func Test_KHzMsSUnitsScale(t *testing.T) {
	tones, _, err := Parse("(2kHz 0dB 1ms)")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, int32(2000), tones[0].Hz)
	assert.Equal(t, int32(1000), tones[0].Us)
}

func Test_ReservedBaseSymbolPreset(t *testing.T) {
	tones, _, err := Parse("~")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, tone.Tone{Hz: 10000, Db: 0, Us: 1}, tones[0])
}

func Test_LaterSymbolDefinitionOverwritesEarlier(t *testing.T) {
	tones, _, err := Parse("[A (1000Hz 0dB 1us)] [A (2000Hz 0dB 1us)] A")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, int32(2000), tones[0].Hz)
}

func Test_UndefinedSymbolReferenceEmitsNothing(t *testing.T) {
	tones, _, err := Parse("Z")
	require.NoError(t, err)
	assert.Empty(t, tones)
}

func Test_UndefinedReferenceInsideToneLiteralIsZeroed(t *testing.T) {
	tones, _, err := Parse("(Z 0dB 5us)")
	require.NoError(t, err)
	require.Len(t, tones, 1)
	assert.Equal(t, int32(0), tones[0].Hz)
	assert.Equal(t, int32(0), tones[0].Db)
}

func Test_TransformCallExpandsThroughSymbolTable(t *testing.T) {
	tones, _, err := Parse("[0 (1000Hz 0dB 1us)] [1 (2000Hz 0dB 1us)] {HEXA}")
	require.NoError(t, err)
	// "A" hex -> "1010" -> 4 bits -> 4 tones (symbols '1','0','1','0').
	require.Len(t, tones, 4)
	assert.Equal(t, int32(2000), tones[0].Hz)
	assert.Equal(t, int32(1000), tones[1].Hz)
	assert.Equal(t, int32(2000), tones[2].Hz)
	assert.Equal(t, int32(1000), tones[3].Hz)
}

func Test_CommentsAreIgnored(t *testing.T) {
	tones, _, err := Parse("(1000Hz 0dB 1us) # trailing comment\n(2000Hz 0dB 1us)")
	require.NoError(t, err)
	require.Len(t, tones, 2)
}

func Test_UnterminatedToneLiteralIsParseError(t *testing.T) {
	_, _, err := Parse("(1000Hz 0dB 1us")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_UnterminatedSymbolDefinitionIsParseError(t *testing.T) {
	_, _, err := Parse("[A (1000Hz 0dB 1us)")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_UnterminatedTransformCallIsParseError(t *testing.T) {
	_, _, err := Parse("{HEXab")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_UnknownUnitSuffixIsParseError(t *testing.T) {
	_, _, err := Parse("(1000Zz 0dB 1us)")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
