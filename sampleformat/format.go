// Package sampleformat implements the fourteen sample-format codecs used
// by the renderer's back end: quantization of a floating-point I/Q pair to
// a packed binary layout, format detection from a file path, and the
// defaults (bytes per pair, full-scale bias/clamp) each format carries.
package sampleformat

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the sum-type tag for a packed sample layout, dispatched
// statically rather than through the C original's array of function
// pointers (Design Note: "Polymorphism via function pointers -> tagged
// format variant").
type Format int

const (
	// None is the zero value: an unresolved or unrecognized format.
	None Format = iota
	CU4
	CS4
	CU8
	CS8
	CU12
	CS12
	CU16
	CS16
	CU32
	CS32
	CU64
	CS64
	CF32
	CF64
)

var names = map[Format]string{
	None: "none",
	CU4:  "CU4",
	CS4:  "CS4",
	CU8:  "CU8",
	CS8:  "CS8",
	CU12: "CU12",
	CS12: "CS12",
	CU16: "CU16",
	CS16: "CS16",
	CU32: "CU32",
	CS32: "CS32",
	CU64: "CU64",
	CS64: "CS64",
	CF32: "CF32",
	CF64: "CF64",
}

var byName = func() map[string]Format {
	m := make(map[string]Format, len(names))
	for f, n := range names {
		m[strings.ToUpper(n)] = f
	}
	return m
}()

// legacyAliases maps case-insensitive historical extensions/annotations to
// a canonical Format, as file_info() does for .DATA/.CFILE/.COMPLEX*.
var legacyAliases = map[string]Format{
	"DATA":       CU8,
	"CFILE":      CF32,
	"COMPLEX16U": CU8,
	"COMPLEX16S": CS8,
	"COMPLEX":    CF32,
}

// String returns the canonical three/four-character format name, or "none".
func (f Format) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return "none"
}

// Parse resolves a bare format token (case-insensitive), trying the
// canonical names first and then the legacy aliases. An empty or
// unrecognized token resolves to None.
func Parse(token string) Format {
	if token == "" {
		return None
	}
	u := strings.ToUpper(token)
	if f, ok := byName[u]; ok {
		return f
	}
	if f, ok := legacyAliases[u]; ok {
		return f
	}
	return None
}

// Valid reports whether f is one of the fourteen canonical codecs (excludes
// None).
func (f Format) Valid() bool {
	_, ok := names[f]
	return ok && f != None
}

// BytesPerSample returns the number of bytes one encoded I/Q pair occupies:
// sample_format_length in the C original, generalized to all fourteen layouts
// including the packed 12-bit (3 bytes/pair) and 4-bit (1 byte/pair) cases.
func (f Format) BytesPerSample() int {
	switch f {
	case CU4, CS4:
		return 1
	case CU8, CS8:
		return 2
	case CU12, CS12:
		return 3
	case CU16, CS16:
		return 4
	case CU32, CS32:
		return 8
	case CU64, CS64:
		return 16
	case CF32:
		return 8
	case CF64:
		return 16
	default:
		return 2
	}
}

// MarshalYAML emits the canonical format name, so a Format round-trips
// through a YAML spec file as a bare string like "CU8".
func (f Format) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML decodes a bare string node ("CU8", "cu8", ".data", ...)
// via Parse, so specfile's render-spec loader can use Format directly as a
// struct field without a separate string intermediate.
func (f *Format) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*f = Parse(strings.TrimPrefix(s, "."))
	return nil
}

// MarshalJSON emits the canonical format name, mirroring MarshalYAML so a
// Format round-trips through an MCP tool's JSON spec the same way it does
// through a YAML spec file.
func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a bare JSON string ("CU8", "cu8", ".data", ...) via
// Parse, mirroring UnmarshalYAML.
func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Parse(strings.TrimPrefix(s, "."))
	return nil
}

// DefaultFullScale returns the scale constant used when a render spec's
// FullScale is zero ("use format default"), chosen so that x = ±1.0 maps to
// ±(2^(N-1) - 1) rather than the asymmetric extreme.
func (f Format) DefaultFullScale() float64 {
	switch f {
	case CU4:
		return 7.999999
	case CS4:
		return 7.49999
	case CU8:
		return 127.999999
	case CS8:
		return 127.4999
	case CU12:
		return 2047.999999
	case CS12:
		return 2047.4999
	case CU16:
		return 32767.999999
	case CS16:
		return 32767.4999
	case CU32:
		return 2147483647.999999
	case CS32:
		return 2147483647.4999
	case CU64:
		return 9223372036854775999.999999
	case CS64:
		return 9223372036854775999.4999
	case CF32, CF64:
		return 1.0
	default:
		return 127.999999
	}
}
