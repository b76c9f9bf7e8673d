package pulse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwsl/tonegen/tone"
)

// ParseError reports a malformed pulse-text construct: an unterminated
// directive is not possible in this grammar (no nesting), but a bad numeric
// token, an out-of-range integer, or a disallowed negative length all
// surface here with the offending token.
type ParseError struct {
	Line  int
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pulse parse error at line %d (%q): %s", e.Line, e.Token, e.Msg)
}

var directiveKeys = map[string]bool{
	"timescale":   true,
	"time_base":   true,
	"freq_mark":   true,
	"freq_space":  true,
	"att_mark":    true,
	"att_space":   true,
	"phase_mark":  true,
	"phase_space": true,
}

// Parse reads pulse-text and returns the resulting tone
// list. Directive lines update the running Setup; data lines each emit a
// mark tone followed by a space tone, except mark == -1 which emits the
// pulse-parser's documented silence special case (a zero-length mark tone
// and an att=-200dB space tone).
func Parse(text string) (tone.List, error) {
	setup := DefaultSetup()
	var out tone.List

	for lineNo, line := range strings.Split(text, "\n") {
		lineNo++ // 1-based for error messages

		rawTrimmed := strings.TrimSpace(line)
		if strings.HasPrefix(rawTrimmed, ";") {
			// Try as a directive; an unrecognized key is just a comment.
			if ok, err := applyDirective(&setup, rawTrimmed, lineNo); ok && err != nil {
				return nil, err
			}
			continue
		}

		trimmed := strings.TrimSpace(stripComment(line))
		if trimmed == "" {
			continue
		}

		mark, space, err := parsePair(trimmed, lineNo)
		if err != nil {
			return nil, err
		}

		if mark == -1 {
			out = append(out,
				tone.Tone{Hz: setup.FreqMark, Db: setup.AttMark, Ph: setup.PhaseMark, Us: 0},
				tone.Tone{Hz: setup.FreqSpace, Db: -200, Ph: setup.PhaseSpace, Us: unitsToMicros(space, setup.TimeBase)},
			)
			continue
		}

		out = append(out,
			tone.Tone{Hz: setup.FreqMark, Db: setup.AttMark, Ph: setup.PhaseMark, Us: unitsToMicros(mark, setup.TimeBase)},
			tone.Tone{Hz: setup.FreqSpace, Db: setup.AttSpace, Ph: setup.PhaseSpace, Us: unitsToMicros(space, setup.TimeBase)},
		)
	}

	return out, nil
}

// stripComment removes a trailing '#' or ';' comment from a data line.
// Lines beginning with ';' are handled as directives by the caller before
// this is ever reached.
func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}
	return line
}

// applyDirective attempts to interpret trimmed (already known to start with
// ';') as one of the known directive keys. ok is false if the key is
// unrecognized, in which case the caller treats the whole line as a
// comment, per the shared '#'/';' comment-or-directive grammar.
func applyDirective(setup *Setup, trimmed string, lineNo int) (ok bool, err error) {
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, ";"))
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return false, nil
	}
	key := strings.ToLower(fields[0])
	if !directiveKeys[key] {
		return false, nil
	}
	if len(fields) < 2 {
		return true, &ParseError{Line: lineNo, Token: trimmed, Msg: "directive missing a value"}
	}
	value := fields[1]

	if key == "timescale" {
		tb, err := parseTimescale(value)
		if err != nil {
			return true, &ParseError{Line: lineNo, Token: value, Msg: err.Error()}
		}
		setup.TimeBase = tb
		return true, nil
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return true, &ParseError{Line: lineNo, Token: value, Msg: "invalid number argument"}
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return true, &ParseError{Line: lineNo, Token: value, Msg: "out of range number argument"}
	}
	v := int32(n)

	switch key {
	case "time_base":
		setup.TimeBase = n
	case "freq_mark":
		setup.FreqMark = v
	case "freq_space":
		setup.FreqSpace = v
	case "att_mark":
		setup.AttMark = v
	case "att_space":
		setup.AttSpace = v
	case "phase_mark":
		setup.PhaseMark = v
	case "phase_space":
		setup.PhaseSpace = v
	}
	return true, nil
}

// parseTimescale parses a value like "1us" or "0.5ms" into a time_base, the
// reciprocal of the named unit's duration in seconds. The unit must follow
// the number directly; a bare number is taken as seconds.
func parseTimescale(token string) (float64, error) {
	i := 0
	for i < len(token) && (token[i] == '-' || token[i] == '+' || token[i] == '.' || (token[i] >= '0' && token[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid timescale value")
	}
	numPart, unitPart := token[:i], strings.ToLower(token[i:])
	val, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timescale value")
	}

	var unitSeconds float64
	switch unitPart {
	case "ns":
		unitSeconds = 1e-9
	case "us", "µs":
		unitSeconds = 1e-6
	case "ms":
		unitSeconds = 1e-3
	case "s", "":
		unitSeconds = 1
	default:
		return 0, fmt.Errorf("unknown timescale unit %q", unitPart)
	}
	if val == 0 {
		return 0, fmt.Errorf("timescale value must be nonzero")
	}
	return 1.0 / (val * unitSeconds), nil
}

// parsePair parses the two whitespace-separated integers of a data line,
// enforcing the "negative number other than -1 is an error"
// and 32-bit range rules.
func parsePair(line string, lineNo int) (mark, space int32, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, &ParseError{Line: lineNo, Token: line, Msg: "expected two integers (mark, space)"}
	}
	mark, err = parseLen(fields[0], lineNo)
	if err != nil {
		return 0, 0, err
	}
	space, err = parseLen(fields[1], lineNo)
	if err != nil {
		return 0, 0, err
	}
	return mark, space, nil
}

func parseLen(token string, lineNo int) (int32, error) {
	val, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, &ParseError{Line: lineNo, Token: token, Msg: "invalid number argument"}
	}
	if val < math.MinInt32 || val > math.MaxInt32 {
		return 0, &ParseError{Line: lineNo, Token: token, Msg: "out of range number argument"}
	}
	ival := int32(val)
	if ival < 0 && ival != -1 {
		return 0, &ParseError{Line: lineNo, Token: token, Msg: "non-negative number argument expected"}
	}
	return ival, nil
}

// unitsToMicros converts a pulse-unit count to microseconds at the given
// time_base: units * 1e6 / time_base.
func unitsToMicros(units int32, timeBase float64) int32 {
	if timeBase == 0 {
		return 0
	}
	return int32(uint64(units) * 1_000_000 / uint64(timeBase))
}
