package schema

import (
	"golang.org/x/xerrors"

	"github.com/blastbao/gomem/flatbuffers"
)

// MaxDepth bounds how many nested tables, structs and vectors Decode follows.
const MaxDepth = 64

var (
	ErrDepth      = xerrors.New("schema: nesting too deep")
	ErrIdentifier = xerrors.New("schema: file identifier mismatch")
	ErrUnionTag   = xerrors.New("schema: unknown union tag")
)

// DecodeOptions adjust Decode.
type DecodeOptions struct {
	// SizePrefixed reads the root after a 4-byte size prefix.
	SizePrefixed bool
	// IgnoreIdentifier skips the file identifier check.
	IgnoreIdentifier bool
}

// Decode walks b from its root table and returns the decoded tree.
//
// Absent scalar fields take their default; absent reference fields are left
// out. Deprecated fields are skipped. Strings are copied, so the result stays
// valid after the buffer is released.
func (s *Schema) Decode(b flatbuffers.Buffer, opt DecodeOptions) (*Object, error) {
	if s.Identifier != "" && !opt.IgnoreIdentifier {
		ok := flatbuffers.BufferHasIdentifier(b, s.Identifier)
		if opt.SizePrefixed {
			ok = flatbuffers.SizePrefixedBufferHasIdentifier(b, s.Identifier)
		}
		if !ok {
			return nil, xerrors.Errorf("want %q: %w", s.Identifier, ErrIdentifier)
		}
	}
	root := flatbuffers.GetRoot(b)
	if opt.SizePrefixed {
		root = flatbuffers.GetSizePrefixedRoot(b)
	}
	return s.DecodeTable(root, s.Root)
}

// DecodeTable decodes t as the named table.
func (s *Schema) DecodeTable(t flatbuffers.Table, name string) (*Object, error) {
	desc, ok := s.tables[name]
	if !ok {
		return nil, xerrors.Errorf("schema: unknown table %s", name)
	}
	d := decoder{s: s}
	return d.table(t, desc, 0)
}

type decoder struct {
	s *Schema
}

func (d *decoder) table(t flatbuffers.Table, desc *Table, depth int) (*Object, error) {
	if depth > MaxDepth {
		return nil, ErrDepth
	}
	obj := &Object{Type: desc.Name, Members: make([]Member, 0, len(desc.Fields))}
	for _, f := range desc.Fields {
		if f.Deprecated {
			continue
		}
		slot := flatbuffers.VOffsetT(*f.Slot)
		v, ok, err := d.tableField(t, slot, f, depth)
		if err != nil {
			return nil, xerrors.Errorf("%s.%s: %w", desc.Name, f.Name, err)
		}
		if ok {
			obj.Members = append(obj.Members, Member{Name: f.Name, Value: v})
		}
	}
	return obj, nil
}

func (d *decoder) tableField(t flatbuffers.Table, slot flatbuffers.VOffsetT, f *Field, depth int) (any, bool, error) {
	typ := f.typ
	if typ.Kind.IsScalar() {
		return tableScalar(t, slot, typ.Kind, f.def), true, nil
	}

	switch typ.Kind {
	case KindString:
		s, ok := t.String(slot)
		if !ok {
			return nil, false, nil
		}
		return string(s.Bytes()), true, nil

	case KindTable:
		sub, ok := t.Table(slot)
		if !ok {
			return nil, false, nil
		}
		v, err := d.table(sub, d.s.tables[typ.Ref], depth+1)
		return v, err == nil, err

	case KindStruct:
		st, ok := t.Struct(slot)
		if !ok {
			return nil, false, nil
		}
		v, err := d.structure(st, d.s.structs[typ.Ref], depth+1)
		return v, err == nil, err

	case KindUnion:
		tag := flatbuffers.GetField[uint8](t, slot-1, 0)
		if tag == 0 {
			return nil, false, nil
		}
		if int(tag) > len(typ.Members) {
			return nil, false, xerrors.Errorf("tag %d: %w", tag, ErrUnionTag)
		}
		sub, ok := t.Union(slot)
		if !ok {
			return nil, false, nil
		}
		v, err := d.table(sub, d.s.tables[typ.Members[tag-1]], depth+1)
		return v, err == nil, err

	case KindVector:
		vec, ok := flatbuffers.GetVector[byte, flatbuffers.Direct[byte]](t, slot)
		if !ok {
			return nil, false, nil
		}
		v, err := d.vector(vec, typ.Elem, depth+1)
		return v, err == nil, err
	}
	return nil, false, xerrors.Errorf("unexpected kind %d", typ.Kind)
}

func tableScalar(t flatbuffers.Table, slot flatbuffers.VOffsetT, k Kind, def any) any {
	switch k {
	case KindBool:
		return t.Bool(slot, def.(bool))
	case KindInt8:
		return flatbuffers.GetField(t, slot, def.(int8))
	case KindUint8:
		return flatbuffers.GetField(t, slot, def.(uint8))
	case KindInt16:
		return flatbuffers.GetField(t, slot, def.(int16))
	case KindUint16:
		return flatbuffers.GetField(t, slot, def.(uint16))
	case KindInt32:
		return flatbuffers.GetField(t, slot, def.(int32))
	case KindUint32:
		return flatbuffers.GetField(t, slot, def.(uint32))
	case KindInt64:
		return flatbuffers.GetField(t, slot, def.(int64))
	case KindUint64:
		return flatbuffers.GetField(t, slot, def.(uint64))
	case KindFloat32:
		return flatbuffers.GetField(t, slot, def.(float32))
	case KindFloat64:
		return flatbuffers.GetField(t, slot, def.(float64))
	}
	return nil
}

func (d *decoder) structure(st flatbuffers.Struct, desc *Struct, depth int) (*Object, error) {
	if depth > MaxDepth {
		return nil, ErrDepth
	}
	obj := &Object{Type: desc.Name, Members: make([]Member, 0, len(desc.Fields))}
	for _, f := range desc.Fields {
		if f.Deprecated {
			continue
		}
		off := flatbuffers.UOffsetT(*f.Offset)
		var v any
		switch k := f.typ.Kind; {
		case k.IsScalar():
			v = structScalar(st, off, k)
		case k == KindStruct:
			nested, err := d.structure(st.Struct(off), d.s.structs[f.typ.Ref], depth+1)
			if err != nil {
				return nil, xerrors.Errorf("%s.%s: %w", desc.Name, f.Name, err)
			}
			v = nested
		case k == KindString:
			v = string(st.String(off).Bytes())
		case k == KindTable:
			sub, err := d.table(st.Table(off), d.s.tables[f.typ.Ref], depth+1)
			if err != nil {
				return nil, xerrors.Errorf("%s.%s: %w", desc.Name, f.Name, err)
			}
			v = sub
		}
		obj.Members = append(obj.Members, Member{Name: f.Name, Value: v})
	}
	return obj, nil
}

func structScalar(st flatbuffers.Struct, off flatbuffers.UOffsetT, k Kind) any {
	switch k {
	case KindBool:
		return st.Bool(off)
	case KindInt8:
		return flatbuffers.GetStructField[int8](st, off)
	case KindUint8:
		return flatbuffers.GetStructField[uint8](st, off)
	case KindInt16:
		return flatbuffers.GetStructField[int16](st, off)
	case KindUint16:
		return flatbuffers.GetStructField[uint16](st, off)
	case KindInt32:
		return flatbuffers.GetStructField[int32](st, off)
	case KindUint32:
		return flatbuffers.GetStructField[uint32](st, off)
	case KindInt64:
		return flatbuffers.GetStructField[int64](st, off)
	case KindUint64:
		return flatbuffers.GetStructField[uint64](st, off)
	case KindFloat32:
		return flatbuffers.GetStructField[float32](st, off)
	case KindFloat64:
		return flatbuffers.GetStructField[float64](st, off)
	}
	return nil
}

// vector decodes the elements of a vector. raw is the same vector viewed as
// bytes, used only for its length and position; the element accessor is
// picked from the element kind.
func (d *decoder) vector(raw flatbuffers.Vector[byte, flatbuffers.Direct[byte]], elem *Type, depth int) ([]any, error) {
	if depth > MaxDepth {
		return nil, ErrDepth
	}
	b, pos := raw.Buffer(), raw.Pos()
	switch elem.Kind {
	case KindBool:
		return collect(flatbuffers.VectorAt[bool, flatbuffers.Bools](b, pos)), nil
	case KindInt8:
		return scalars[int8](b, pos), nil
	case KindUint8:
		return scalars[uint8](b, pos), nil
	case KindInt16:
		return scalars[int16](b, pos), nil
	case KindUint16:
		return scalars[uint16](b, pos), nil
	case KindInt32:
		return scalars[int32](b, pos), nil
	case KindUint32:
		return scalars[uint32](b, pos), nil
	case KindInt64:
		return scalars[int64](b, pos), nil
	case KindUint64:
		return scalars[uint64](b, pos), nil
	case KindFloat32:
		return scalars[float32](b, pos), nil
	case KindFloat64:
		return scalars[float64](b, pos), nil

	case KindString:
		out := make([]any, 0, raw.Len())
		for s := range flatbuffers.VectorAt[flatbuffers.String, flatbuffers.Strings](b, pos).Values() {
			out = append(out, string(s.Bytes()))
		}
		return out, nil

	case KindTable:
		desc := d.s.tables[elem.Ref]
		out := make([]any, 0, raw.Len())
		for t := range flatbuffers.VectorAt[flatbuffers.Table, flatbuffers.Tables](b, pos).Values() {
			obj, err := d.table(t, desc, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
		return out, nil

	case KindStruct:
		// struct width is only known at run time, so step through the
		// elements by hand instead of instantiating Inline.
		desc := d.s.structs[elem.Ref]
		n := raw.Len()
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			st := flatbuffers.StructAt(b, flatbuffers.Index(raw.Data(), i, flatbuffers.UOffsetT(desc.Size)))
			obj, err := d.structure(st, desc, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
		return out, nil
	}
	return nil, xerrors.Errorf("unexpected element kind %d", elem.Kind)
}

func scalars[T flatbuffers.Scalar](b flatbuffers.Buffer, pos flatbuffers.UOffsetT) []any {
	return collect(flatbuffers.VectorAt[T, flatbuffers.Direct[T]](b, pos))
}

func collect[T any, I flatbuffers.Indirect[T]](v flatbuffers.Vector[T, I]) []any {
	out := make([]any, 0, v.Len())
	for e := range v.Values() {
		out = append(out, e)
	}
	return out
}
