package flatbuffers

// Struct is a view of a fixed-layout record. Field offsets are known from
// the schema, so there is no vtable and no notion of absence.
type Struct struct {
	buf Buffer
	pos UOffsetT
}

// StructAt returns the struct that starts at pos.
func StructAt(b Buffer, pos UOffsetT) Struct {
	return Struct{buf: b, pos: pos}
}

// Buffer returns the buffer the struct lives in.
func (s Struct) Buffer() Buffer { return s.buf }

// Pos returns the position of the struct.
func (s Struct) Pos() UOffsetT { return s.pos }

// GetStructField reads the scalar at byte offset off within s.
func GetStructField[T Scalar](s Struct, off UOffsetT) T {
	return ReadScalar[T](s.buf.b[s.pos+off:])
}

// SetStructField overwrites the scalar at byte offset off within s. It
// panics if the buffer was not opened with TrustMutable.
func SetStructField[T Scalar](s Struct, off UOffsetT, v T) {
	s.buf.mustWritable()
	WriteScalar(s.buf.b[s.pos+off:], v)
}

// Bool reads the bool at byte offset off.
func (s Struct) Bool(off UOffsetT) bool {
	return GetBool(s.buf.b[s.pos+off:])
}

// SetBool overwrites the bool at byte offset off.
func (s Struct) SetBool(off UOffsetT, v bool) {
	s.buf.mustWritable()
	WriteBool(s.buf.b[s.pos+off:], v)
}

// GetStructRef follows the UOffsetT stored at byte offset off, exactly once,
// and builds the view at the target.
func GetStructRef[T any, V Viewer[T]](s Struct, off UOffsetT) T {
	var v V
	return v.View(s.buf, s.buf.deref(s.pos+off))
}

// Struct returns the nested struct embedded at byte offset off.
func (s Struct) Struct(off UOffsetT) Struct {
	return StructAt(s.buf, s.pos+off)
}

// Table follows the table reference stored at byte offset off.
func (s Struct) Table(off UOffsetT) Table {
	return GetStructRef[Table, TableView](s, off)
}

// String follows the string reference stored at byte offset off.
func (s Struct) String(off UOffsetT) String {
	return GetStructRef[String, StringView](s, off)
}
