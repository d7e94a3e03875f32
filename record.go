package pipe80

import (
	"fmt"
	"strings"
)

// Width is the fixed record width in bytes. Every record is exactly this
// wide, matching the 80-column punch card layout that mainframe pipelines
// were built around. Column position is the primary addressing scheme:
// fields are (position, length) pairs into this fixed window.
const Width = 80

// FieldRangeError reports a field reference that extends past the record
// width. Field positions in pipeline text are literal constants, so the
// parser rejects these before execution; the error also surfaces from the
// Record accessors when they are used directly with a bad range.
type FieldRangeError struct {
	Pos int
	Len int
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("field %d,%d exceeds record width %d", e.Pos, e.Len, Width)
}

// Record is one immutable fixed-width line. Shorter input is right-padded
// with spaces on construction; input longer than Width is truncated (the
// truncation policy is deliberate and covered by tests). Records are value
// types: stages never mutate a record in place, every transformation
// produces a new one.
type Record struct {
	data [Width]byte
}

// FromText builds a Record from one line of input text, padding with
// trailing spaces up to Width and truncating anything beyond it.
func FromText(line string) Record {
	var r Record
	for i := range r.data {
		r.data[i] = ' '
	}
	copy(r.data[:], line)
	return r
}

// String returns the full fixed-width content, trailing padding included.
func (r Record) String() string {
	return string(r.data[:])
}

// Text returns the record content with trailing spaces removed. This is the
// form records take in line-oriented output files.
func (r Record) Text() string {
	return strings.TrimRight(string(r.data[:]), " ")
}

// Field returns the pos..pos+len slice of the record. Positions are
// 0-based. A range extending past Width is a usage error, never a silent
// wraparound.
func (r Record) Field(pos, length int) (string, error) {
	if pos < 0 || length < 0 || pos+length > Width {
		return "", &FieldRangeError{Pos: pos, Len: length}
	}
	return string(r.data[pos : pos+length]), nil
}

// FieldEq compares the field at pos,len against value. The value is
// right-padded (or truncated) to len before comparing, so callers can pass
// "SALES" against a 10-wide department field. Comparison is byte-exact and
// case-sensitive.
func (r Record) FieldEq(pos, length int, value string) (bool, error) {
	field, err := r.Field(pos, length)
	if err != nil {
		return false, err
	}
	return field == padTo(value, length), nil
}

// FieldContains reports whether the field at pos,len contains pattern as a
// substring.
func (r Record) FieldContains(pos, length int, pattern string) (bool, error) {
	field, err := r.Field(pos, length)
	if err != nil {
		return false, err
	}
	return strings.Contains(field, pattern), nil
}

// Contains reports whether the whole record contains pattern, padding
// included.
func (r Record) Contains(pattern string) bool {
	return strings.Contains(string(r.data[:]), pattern)
}

// WithField returns a copy of the record with the pos..pos+len range
// overwritten by value, padded or truncated to len. The receiver is left
// untouched.
func (r Record) WithField(pos, length int, value string) (Record, error) {
	if pos < 0 || length < 0 || pos+length > Width {
		return Record{}, &FieldRangeError{Pos: pos, Len: length}
	}
	out := r
	copy(out.data[pos:pos+length], padTo(value, length))
	return out, nil
}

// padTo right-pads s with spaces to exactly n bytes, truncating if longer.
func padTo(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
