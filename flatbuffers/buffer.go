package flatbuffers

import (
	"golang.org/x/xerrors"
)

var (
	// ErrReadOnly is the panic cause when a setter runs on a buffer that was
	// not opened with TrustMutable.
	ErrReadOnly = xerrors.New("flatbuffers: buffer is read-only")
	// ErrFieldAbsent is the panic cause when a table setter targets a field
	// that has no storage in this buffer.
	ErrFieldAbsent = xerrors.New("flatbuffers: field is absent")
	// ErrUnverified wraps the error returned by a Verifier.
	ErrUnverified = xerrors.New("flatbuffers: buffer failed verification")
	// ErrFloatLayout is returned by SelfTest when the host float layout does
	// not match IEEE-754 little-endian bit patterns.
	ErrFloatLayout = xerrors.New("flatbuffers: unexpected float layout")
)

// Buffer is a trusted handle to an encoded message.
//
// Holding a Buffer is the statement that the bytes are structurally well
// formed: every accessor built on it indexes the slice without checking
// offsets, vtable back-references or lengths. A malformed buffer surfaces as a
// Go runtime panic from slice indexing, never as a returned error. Callers
// that received the bytes from an untrusted source should go through
// TrustVerified.
//
// The bytes are owned by the caller and must outlive every view derived from
// the Buffer.
type Buffer struct {
	b        []byte
	writable bool
}

// Trust returns a read-only handle over b without any checks.
func Trust(b []byte) Buffer {
	return Buffer{b: b}
}

// TrustMutable returns a handle over b that also allows in-place setters.
// Writers must be serialized against all readers of the same bytes.
func TrustMutable(b []byte) Buffer {
	return Buffer{b: b, writable: true}
}

// Verifier checks that a byte region is a well formed encoding before it is
// handed to the accessors. The algorithm is supplied by the caller.
type Verifier interface {
	Verify(b []byte) error
}

// VerifierFunc adapts a plain function to a Verifier.
type VerifierFunc func(b []byte) error

// Verify calls f(b).
func (f VerifierFunc) Verify(b []byte) error { return f(b) }

// TrustVerified runs v over b and returns a read-only handle if it passes.
func TrustVerified(b []byte, v Verifier) (Buffer, error) {
	if err := v.Verify(b); err != nil {
		return Buffer{}, &VerifyError{Err: err}
	}
	return Trust(b), nil
}

// VerifyError is returned by TrustVerified. It matches ErrUnverified under
// errors.Is and unwraps to the verifier's own error.
type VerifyError struct {
	Err error
}

func (e *VerifyError) Error() string {
	return ErrUnverified.Error() + ": " + e.Err.Error()
}

func (e *VerifyError) Unwrap() error { return e.Err }

func (e *VerifyError) Is(target error) bool { return target == ErrUnverified }

// Bytes returns the underlying bytes.
func (b Buffer) Bytes() []byte { return b.b }

// Len returns the byte length of the buffer.
func (b Buffer) Len() int { return len(b.b) }

// Writable reports whether setters are allowed on views of b.
func (b Buffer) Writable() bool { return b.writable }

// ReadOnly returns a handle over the same bytes without write permission.
func (b Buffer) ReadOnly() Buffer { return Buffer{b: b.b} }

func (b Buffer) mustWritable() {
	if !b.writable {
		panic(ErrReadOnly)
	}
}

// uoffset reads the UOffsetT at pos.
func (b Buffer) uoffset(pos UOffsetT) UOffsetT {
	return GetUOffsetT(b.b[pos:])
}

// deref follows the self-relative UOffsetT stored at pos.
func (b Buffer) deref(pos UOffsetT) UOffsetT {
	return Deref(b.b, pos)
}
