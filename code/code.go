// Package code implements the code-text macro parser: tone
// literals, symbol definitions, transform calls, and symbol references over
// a 128-entry symbol table, producing a tone.List.
package code

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cwsl/tonegen/tone"
	"github.com/cwsl/tonegen/transform"
)

// ParseError reports a malformed code-text construct: an unterminated
// `(`/`[`/`{`, an unknown unit suffix, or a non-numeric token where a
// number was expected. Pos is the rune offset into the input.
type ParseError struct {
	Pos   int
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("code parse error at %d (%q): %s", e.Pos, e.Token, e.Msg)
}

// Parse reads code-text and returns the top-level emitted tones plus the
// symbol table built along the way (callers may reuse the table, e.g. to
// inspect individual symbol definitions after parsing).
func Parse(text string) (tone.List, *tone.SymbolTable, error) {
	p := &parser{src: []rune(text), table: tone.NewSymbolTable()}
	out, err := p.parseSequence(0)
	if err != nil {
		return nil, nil, err
	}
	return out, p.table, nil
}

type parser struct {
	src   []rune
	pos   int
	table *tone.SymbolTable
}

// parseSequence reads entries until EOF (stop == 0) or the given rune is
// consumed as a closing delimiter, returning the concatenated tones.
func (p *parser) parseSequence(stop rune) (tone.List, error) {
	var out tone.List
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if stop != 0 && r == stop {
			p.pos++
			return out, nil
		}
		switch {
		case r == '#':
			p.skipLineComment()
		case unicode.IsSpace(r):
			p.pos++
		case r == '(':
			t, err := p.parseToneLiteral()
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		case r == '[':
			if err := p.parseSymbolDef(); err != nil {
				return nil, err
			}
		case r == '{':
			tones, err := p.parseTransformCall()
			if err != nil {
				return nil, err
			}
			out = append(out, tones...)
		default:
			// Any other character is a symbol reference; an undefined
			// symbol's row is empty and contributes nothing.
			out = append(out, p.table.Get(byte(r))...)
			p.pos++
		}
	}
	if stop != 0 {
		return out, &ParseError{Pos: p.pos, Token: string(stop), Msg: "unterminated construct, reached end of input"}
	}
	return out, nil
}

func (p *parser) skipLineComment() {
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// parseSymbolDef reads "[C ...]": the first non-whitespace character after
// '[' is the target symbol; the body (tone literals and symbol references,
// parsed exactly like a top-level sequence) becomes its new definition,
// overwriting any earlier one.
func (p *parser) parseSymbolDef() error {
	start := p.pos
	p.pos++ // consume '['
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return &ParseError{Pos: start, Token: "[", Msg: "unterminated symbol definition"}
	}
	target := p.src[p.pos]
	if target > 127 {
		return &ParseError{Pos: p.pos, Token: string(target), Msg: "symbol target must be 7-bit ASCII"}
	}
	p.pos++

	body, err := p.parseSequence(']')
	if err != nil {
		return err
	}
	p.table.Set(byte(target), body)
	return nil
}

// parseToneLiteral reads "(...)": an optional leading
// reference character supplying defaults, followed by NUMBER+UNIT override
// tokens.
func (p *parser) parseToneLiteral() (tone.Tone, error) {
	start := p.pos
	p.pos++ // consume '('
	bodyStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ')' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return tone.Tone{}, &ParseError{Pos: start, Token: "(", Msg: "unterminated tone literal"}
	}
	body := string(p.src[bodyStart:p.pos])
	p.pos++ // consume ')'
	return p.buildTone(body, start)
}

func (p *parser) buildTone(body string, pos int) (tone.Tone, error) {
	fields := strings.Fields(body)

	base := tone.Tone{}
	i := 0
	if len(fields) > 0 && isReferenceToken(fields[0]) {
		ref := []rune(fields[0])[0]
		if ref > 127 {
			return tone.Tone{}, &ParseError{Pos: pos, Token: fields[0], Msg: "reference symbol must be 7-bit ASCII"}
		}
		base = p.table.First(byte(ref))
		i = 1
	}

	result := base
	dbSet := false
	for ; i < len(fields); i++ {
		if err := applyOverride(&result, fields[i], &dbSet, pos); err != nil {
			return tone.Tone{}, err
		}
	}
	if !dbSet {
		// a tone with no specified dB defaults to -99
		// (effective silence), overriding whatever the reference carried.
		result.Db = -99
	}
	return result, nil
}

// isReferenceToken reports whether tok looks like a reference character
// (does not start with a number) rather than a NUMBER+UNIT override.
func isReferenceToken(tok string) bool {
	r := []rune(tok)[0]
	return !(r == '-' || r == '+' || r == '.' || (r >= '0' && r <= '9'))
}

// applyOverride parses one NUMBER+UNIT token (e.g. "2000Hz", "-99dB",
// "5us") and applies it to t.
func applyOverride(t *tone.Tone, tok string, dbSet *bool, pos int) error {
	i := 0
	if i < len(tok) && (tok[i] == '-' || tok[i] == '+') {
		i++
	}
	for i < len(tok) && ((tok[i] >= '0' && tok[i] <= '9') || tok[i] == '.') {
		i++
	}
	if i == 0 {
		return &ParseError{Pos: pos, Token: tok, Msg: "expected a number"}
	}
	numPart, unitPart := tok[:i], tok[i:]
	n, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return &ParseError{Pos: pos, Token: tok, Msg: "invalid number"}
	}

	switch strings.ToLower(unitPart) {
	case "khz":
		t.Hz = int32(n * 1000)
	case "hz":
		t.Hz = int32(n)
	case "db":
		t.Db = int32(n)
		*dbSet = true
	case "ms":
		t.Us = int32(n * 1000)
	case "s":
		t.Us = int32(n * 1_000_000)
	case "us", "µs":
		t.Us = int32(n)
	default:
		return &ParseError{Pos: pos, Token: tok, Msg: fmt.Sprintf("unknown unit suffix %q", unitPart)}
	}
	return nil
}

// parseTransformCall reads "{...}": the body is handed to transform.Named,
// and each resulting '0'/'1' character is looked up in the symbol table.
func (p *parser) parseTransformCall() (tone.List, error) {
	start := p.pos
	p.pos++ // consume '{'
	bodyStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '}' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, &ParseError{Pos: start, Token: "{", Msg: "unterminated transform call"}
	}
	body := string(p.src[bodyStart:p.pos])
	p.pos++ // consume '}'

	// Invalid hex digits inside the transform body warn-and-skip rather
	// than fail the whole parse; there is no caller-visible
	// warning channel at this layer, so they are simply dropped.
	bits := transform.Named(body, nil)

	var out tone.List
	for _, bit := range bits {
		out = append(out, p.table.Get(byte(bit))...)
	}
	return out, nil
}
