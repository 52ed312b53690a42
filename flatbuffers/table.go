package flatbuffers

import (
	"golang.org/x/xerrors"
)

// Table 是一个可演进的记录，字段布局由 vtable 描述。
// 视图只持有 (buffer, pos)，pos 指向 table 起点，起点 4B 存储着指向 vtable 的 SOffset 。
//
//	vtable:
//	+-------------------+-------------------+-------------------+-------------------+-----+
//	| vtable length (2B)| object length (2B)| field0 offset (2B)| field1 offset (2B)| ... |
//	+-------------------+-------------------+-------------------+-------------------+-----+
//
//	table:
//	+-------------------+-------------------+-------------------+-----+
//	| vtable soffset(4B)| data for field0   | data for field1   | ... |
//	+-------------------+-------------------+-------------------+-----+
//	^ pos
//
// vtable = pos - soffset ，注意是减法：builder 先写 table 再回填 vtable ，
// 两者谁在前由 soffset 的符号决定，读取侧只负责做减法。

// Table is a view of an evolvable record whose fields are located through a
// vtable. Absent fields resolve to caller-supplied defaults.
type Table struct {
	buf Buffer
	pos UOffsetT // Always < 1<<31.
}

// TableAt returns the table that starts at pos.
func TableAt(b Buffer, pos UOffsetT) Table {
	return Table{buf: b, pos: pos}
}

// Buffer returns the buffer the table lives in.
func (t Table) Buffer() Buffer { return t.buf }

// Pos returns the position of the table.
func (t Table) Pos() UOffsetT { return t.pos }

// vtable returns the position of the table's vtable.
func (t Table) vtable() UOffsetT {
	return Signed(t.pos, -GetSOffsetT(t.buf.b[t.pos:]))
}

// VtableSize returns the byte length of the vtable, header included.
func (t Table) VtableSize() VOffsetT {
	return GetVOffsetT(t.buf.b[t.vtable():])
}

// TableSize returns the byte length of the table's inline data, as recorded
// in the vtable header.
func (t Table) TableSize() VOffsetT {
	return GetVOffsetT(t.buf.b[t.vtable()+SizeVOffsetT:])
}

// NumSlots returns how many field slots the vtable describes.
func (t Table) NumSlots() int {
	return int(t.VtableSize())/SizeVOffsetT - VtableMetadataFields
}

// Offset provides access into the Table's vtable by byte offset.
//
// Fields which are deprecated, or newer than the buffer, are ignored by
// checking against the vtable's length.
func (t Table) Offset(vtableOffset VOffsetT) VOffsetT {
	vtable := t.vtable()
	// vtable 的开始 2B 存储着 vtable 的大小，超出大小的字段视为不存在，返回 0 。
	if vtableOffset < GetVOffsetT(t.buf.b[vtable:]) {
		// [重要] 读取 vtable + vtableOffset 上存储的偏移量(2B)，它指向 field 相对 table 起点的偏移；
		// 为 0 表示 producer 没有写入该字段。
		return GetVOffsetT(t.buf.b[vtable+UOffsetT(vtableOffset):])
	}
	return 0
}

// Field returns the table-relative offset of the field in the given slot, or
// 0 when the field is absent.
func (t Table) Field(slot VOffsetT) VOffsetT {
	vtable := t.vtable()
	off := SlotOffset(slot)
	if off >= UOffsetT(GetVOffsetT(t.buf.b[vtable:])) {
		return 0
	}
	return GetVOffsetT(t.buf.b[vtable+off:])
}

// Check reports whether the field in slot is present.
func (t Table) Check(slot VOffsetT) bool {
	return t.Field(slot) != 0
}

// fieldPos returns the absolute position of a present field.
func (t Table) fieldPos(slot VOffsetT) (UOffsetT, bool) {
	off := t.Field(slot)
	if off == 0 {
		return 0, false
	}
	return Forward(t.pos, UOffsetT(off)), true
}

// mustFieldPos is fieldPos for setters: an absent field is a programmer error.
func (t Table) mustFieldPos(slot VOffsetT) UOffsetT {
	t.buf.mustWritable()
	pos, ok := t.fieldPos(slot)
	if !ok {
		panic(xerrors.Errorf("flatbuffers: set slot %d: %w", slot, ErrFieldAbsent))
	}
	return pos
}

// GetField returns the scalar stored in slot, or def when the field is absent.
func GetField[T Scalar](t Table, slot VOffsetT, def T) T {
	pos, ok := t.fieldPos(slot)
	if !ok {
		return def
	}
	return ReadScalar[T](t.buf.b[pos:])
}

// SetField overwrites the scalar stored in slot.
//
// The field must be present and the buffer must have been opened with
// TrustMutable; otherwise SetField panics. The table's shape never changes.
func SetField[T Scalar](t Table, slot VOffsetT, v T) {
	WriteScalar(t.buf.b[t.mustFieldPos(slot):], v)
}

// Bool returns the bool stored in slot, or def when the field is absent.
func (t Table) Bool(slot VOffsetT, def bool) bool {
	pos, ok := t.fieldPos(slot)
	if !ok {
		return def
	}
	return GetBool(t.buf.b[pos:])
}

// SetBool overwrites the bool stored in slot. See SetField.
func (t Table) SetBool(slot VOffsetT, v bool) {
	WriteBool(t.buf.b[t.mustFieldPos(slot):], v)
}

// GetRef resolves a reference field: the slot holds a UOffsetT that is
// followed once, and V builds the view at the target. It reports false when
// the field is absent.
func GetRef[T any, V Viewer[T]](t Table, slot VOffsetT) (T, bool) {
	pos, ok := t.fieldPos(slot)
	if !ok {
		var zero T
		return zero, false
	}
	var v V
	return v.View(t.buf, t.buf.deref(pos)), true
}

// GetVector resolves a vector field.
func GetVector[T any, I Indirect[T]](t Table, slot VOffsetT) (Vector[T, I], bool) {
	return GetRef[Vector[T, I], VectorView[T, I]](t, slot)
}

// Table resolves a nested table field.
func (t Table) Table(slot VOffsetT) (Table, bool) {
	return GetRef[Table, TableView](t, slot)
}

// String resolves a string field.
func (t Table) String(slot VOffsetT) (String, bool) {
	return GetRef[String, StringView](t, slot)
}

// ByteVector resolves a [ubyte] field as a sub-slice of the buffer.
func (t Table) ByteVector(slot VOffsetT) ([]byte, bool) {
	s, ok := t.String(slot)
	if !ok {
		return nil, false
	}
	return s.Bytes(), true
}

// Union resolves the value of a union field. The union's type tag lives in
// the preceding slot and is read with GetField.
func (t Table) Union(slot VOffsetT) (Table, bool) {
	return t.Table(slot)
}

// NestedRoot resolves a [ubyte] field that carries an embedded buffer and
// returns that buffer's root table. The nested table shares the parent's
// bytes and write permission.
func (t Table) NestedRoot(slot VOffsetT) (Table, bool) {
	pos, ok := t.fieldPos(slot)
	if !ok {
		return Table{}, false
	}
	// 嵌套 flatbuffer 的偏移都相对于它自己的起点，这里把它的数据区切成独立的 Buffer 。
	vec := VectorAt[byte, Direct[byte]](t.buf, t.buf.deref(pos))
	start := vec.Data()
	nested := Buffer{b: t.buf.b[start : start+UOffsetT(vec.Len())], writable: t.buf.writable}
	return GetRoot(nested), true
}

// Struct resolves an inline struct field. The slot's offset points straight
// at the struct bytes; no offset is followed.
func (t Table) Struct(slot VOffsetT) (Struct, bool) {
	pos, ok := t.fieldPos(slot)
	if !ok {
		return Struct{}, false
	}
	return StructAt(t.buf, pos), true
}
