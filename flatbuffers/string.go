package flatbuffers

import (
	"strings"
	"unicode/utf8"
)

// String is a byte vector whose contents the producer guarantees to be
// UTF-8. Producers conventionally append a NUL after the last byte; it is not
// part of the length and is never read here.
type String struct {
	Vector[byte, Direct[byte]]
}

// StringAt returns the string whose length field is at pos.
func StringAt(b Buffer, pos UOffsetT) String {
	return String{VectorAt[byte, Direct[byte]](b, pos)}
}

// Bytes returns the string contents as a sub-slice of the buffer.
func (s String) Bytes() []byte {
	start := s.Data()
	return s.buf.b[start : start+UOffsetT(s.Len())]
}

// Text returns the contents as a Go string sharing the buffer memory.
// The bytes are not validated; see Valid.
func (s String) Text() string {
	return byteSliceToString(s.Bytes())
}

// Valid reports whether the contents are well formed UTF-8.
func (s String) Valid() bool {
	return utf8.Valid(s.Bytes())
}

// Equal reports whether s and o hold the same text.
func (s String) Equal(o String) bool {
	return s.Text() == o.Text()
}

// EqualText reports whether s holds exactly t.
func (s String) EqualText(t string) bool {
	return s.Text() == t
}

// Compare orders s and o by their text.
func (s String) Compare(o String) int {
	return strings.Compare(s.Text(), o.Text())
}
