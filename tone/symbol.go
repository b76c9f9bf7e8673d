package tone

// SymbolTable maps a 7-bit ASCII character to the tone sequence it expands
// to. The C original keeps a fixed 1000-tone array per slot (symbol_t); this
// rewrite uses a growable slice per symbol instead, preserving parse-order
// semantics (Design Note: "Unbounded symbol arrays").
type SymbolTable struct {
	rows [128]List
}

// NewSymbolTable returns a table with the reserved base-tone symbol '~'
// preset to {hz=10000, db=0, us=1}, exactly as parse_code presets it.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.rows['~'] = List{{Hz: 10000, Db: 0, Us: 1}}
	return st
}

// Get returns the tone sequence defined for c. An undefined symbol (or a
// character outside 7-bit ASCII) returns a nil, empty sequence rather than
// an error: references to undefined symbols emit nothing.
func (st *SymbolTable) Get(c byte) List {
	if c >= 128 {
		return nil
	}
	return st.rows[c]
}

// Set overwrites the tone sequence for c. A later definition of the same
// character replaces the earlier one.
func (st *SymbolTable) Set(c byte, tones List) {
	if c >= 128 {
		return
	}
	st.rows[c] = tones
}

// Append adds a single tone to the end of the definition of c.
func (st *SymbolTable) Append(c byte, t Tone) {
	if c >= 128 {
		return
	}
	st.rows[c] = append(st.rows[c], t)
}

// First returns the first tone defined for c, used as the set of reference
// defaults inside a tone literal such as "(A 2000Hz)". A reference to an
// undefined symbol yields a zeroed tone.
func (st *SymbolTable) First(c byte) Tone {
	rows := st.Get(c)
	if len(rows) == 0 {
		return Tone{}
	}
	return rows[0]
}
