// Package schema describes buffer layouts in TOML and decodes buffers
// without generated code.
//
// A schema file lists tables (fields addressed by vtable slot) and structs
// (fields at fixed byte offsets):
//
//	root = "Monster"
//	identifier = "MONS"
//
//	[[struct]]
//	name = "Vec3"
//	size = 12
//	field = [
//	  { name = "x", type = "float32", offset = 0 },
//	  { name = "y", type = "float32", offset = 4 },
//	  { name = "z", type = "float32", offset = 8 },
//	]
//
//	[[table]]
//	name = "Monster"
//	field = [
//	  { name = "pos", type = "struct:Vec3", slot = 0 },
//	  { name = "hp", type = "int16", slot = 2, default = 100 },
//	  { name = "name", type = "string", slot = 3 },
//	]
package schema

import (
	"math"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

// Schema is a parsed and validated schema description.
type Schema struct {
	Root       string    `toml:"root"`
	Identifier string    `toml:"identifier"`
	Tables     []*Table  `toml:"table"`
	Structs    []*Struct `toml:"struct"`

	tables  map[string]*Table
	structs map[string]*Struct
}

// Table describes a vtable-indexed record.
type Table struct {
	Name   string   `toml:"name"`
	Fields []*Field `toml:"field"`
}

// Struct describes a fixed-layout record.
type Struct struct {
	Name   string   `toml:"name"`
	Size   uint32   `toml:"size"`
	Fields []*Field `toml:"field"`
}

// Field is one member of a table or struct.
type Field struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	// Slot is the vtable slot of a table field.
	Slot *uint16 `toml:"slot"`
	// Offset is the byte offset of a struct field.
	Offset *uint32 `toml:"offset"`
	// Default is the value of an absent scalar table field.
	Default    any  `toml:"default"`
	Deprecated bool `toml:"deprecated"`

	typ *Type
	def any
}

// Parsed returns the field's parsed type.
func (f *Field) Parsed() *Type { return f.typ }

// DefaultValue returns the default converted to the field's Go type.
func (f *Field) DefaultValue() any { return f.def }

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("schema: cannot read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, xerrors.Errorf("schema: %s: %w", path, err)
	}
	return s, nil
}

// Parse parses and validates a schema description. Unknown keys are errors.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, xerrors.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, xerrors.Errorf("unknown key %q", undecoded[0].String())
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Table returns the named table.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Struct returns the named struct.
func (s *Schema) Struct(name string) (*Struct, bool) {
	st, ok := s.structs[name]
	return st, ok
}

// RootTable returns the table named by Root.
func (s *Schema) RootTable() *Table { return s.tables[s.Root] }

func (s *Schema) validate() error {
	s.tables = make(map[string]*Table, len(s.Tables))
	s.structs = make(map[string]*Struct, len(s.Structs))
	for _, t := range s.Tables {
		if t.Name == "" {
			return xerrors.New("table without a name")
		}
		if _, dup := s.tables[t.Name]; dup {
			return xerrors.Errorf("table %s declared twice", t.Name)
		}
		s.tables[t.Name] = t
	}
	for _, st := range s.Structs {
		if st.Name == "" {
			return xerrors.New("struct without a name")
		}
		if _, dup := s.structs[st.Name]; dup {
			return xerrors.Errorf("struct %s declared twice", st.Name)
		}
		s.structs[st.Name] = st
	}

	if s.Root == "" {
		return xerrors.New("no root table")
	}
	if _, ok := s.tables[s.Root]; !ok {
		return xerrors.Errorf("root table %s is not declared", s.Root)
	}
	if s.Identifier != "" && len(s.Identifier) != 4 {
		return xerrors.Errorf("identifier %q must be 4 bytes", s.Identifier)
	}

	for _, st := range s.Structs {
		if err := s.validateStruct(st); err != nil {
			return xerrors.Errorf("struct %s: %w", st.Name, err)
		}
	}
	for _, t := range s.Tables {
		if err := s.validateTable(t); err != nil {
			return xerrors.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (s *Schema) resolve(f *Field) error {
	typ, err := ParseType(f.Type)
	if err != nil {
		return xerrors.Errorf("field %s: %w", f.Name, err)
	}
	check := []*Type{typ}
	if typ.Elem != nil {
		check = append(check, typ.Elem)
	}
	for _, c := range check {
		switch c.Kind {
		case KindTable:
			if _, ok := s.tables[c.Ref]; !ok {
				return xerrors.Errorf("field %s: unknown table %s", f.Name, c.Ref)
			}
		case KindStruct:
			if _, ok := s.structs[c.Ref]; !ok {
				return xerrors.Errorf("field %s: unknown struct %s", f.Name, c.Ref)
			}
		case KindUnion:
			for _, m := range c.Members {
				if _, ok := s.tables[m]; !ok {
					return xerrors.Errorf("field %s: unknown union member %s", f.Name, m)
				}
			}
		}
	}
	f.typ = typ
	return nil
}

func (s *Schema) validateTable(t *Table) error {
	slots := make(map[uint16]string, len(t.Fields))
	for _, f := range t.Fields {
		if err := s.resolve(f); err != nil {
			return err
		}
		if f.Slot == nil {
			return xerrors.Errorf("field %s: missing slot", f.Name)
		}
		if f.Offset != nil {
			return xerrors.Errorf("field %s: table fields take a slot, not an offset", f.Name)
		}
		if prev, dup := slots[*f.Slot]; dup {
			return xerrors.Errorf("field %s: slot %d already used by %s", f.Name, *f.Slot, prev)
		}
		slots[*f.Slot] = f.Name
		if f.typ.Kind == KindUnion && *f.Slot == 0 {
			return xerrors.Errorf("field %s: union needs its type tag in the previous slot", f.Name)
		}
		def, err := convertDefault(f.typ.Kind, f.Default)
		if err != nil {
			return xerrors.Errorf("field %s: %w", f.Name, err)
		}
		f.def = def
	}
	// decode in slot order
	sort.SliceStable(t.Fields, func(i, j int) bool { return *t.Fields[i].Slot < *t.Fields[j].Slot })
	return nil
}

func (s *Schema) validateStruct(st *Struct) error {
	if st.Size == 0 {
		return xerrors.New("missing size")
	}
	for _, f := range st.Fields {
		if err := s.resolve(f); err != nil {
			return err
		}
		if f.Offset == nil {
			return xerrors.Errorf("field %s: missing offset", f.Name)
		}
		if f.Default != nil {
			return xerrors.Errorf("field %s: struct fields have no default", f.Name)
		}
		var width uint32
		switch k := f.typ.Kind; {
		case k == KindStruct:
			nested := s.structs[f.typ.Ref]
			if nested == st {
				return xerrors.Errorf("field %s: struct contains itself", f.Name)
			}
			width = nested.Size
		case k == KindVector || k == KindUnion:
			return xerrors.Errorf("field %s: %s cannot be stored in a struct", f.Name, f.typ)
		default:
			width = inlineSizes[k]
		}
		if *f.Offset+width > st.Size {
			return xerrors.Errorf("field %s: bytes [%d, %d) overrun size %d", f.Name, *f.Offset, *f.Offset+width, st.Size)
		}
	}
	return nil
}

// convertDefault turns a TOML default (int64, float64 or bool) into the
// field's Go type. Reference kinds take no default.
func convertDefault(k Kind, v any) (any, error) {
	if !k.IsScalar() {
		if v != nil {
			return nil, xerrors.New("only scalar fields take a default")
		}
		return nil, nil
	}
	if k == KindBool {
		if v == nil {
			return false, nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, xerrors.Errorf("default %v is not a bool", v)
		}
		return b, nil
	}

	var f float64
	switch x := v.(type) {
	case nil:
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return nil, xerrors.Errorf("default %v is not a number", v)
	}
	i, isInt := v.(int64)
	if !isInt && f != math.Trunc(f) && k != KindFloat32 && k != KindFloat64 {
		return nil, xerrors.Errorf("default %v is not an integer", v)
	}
	if !isInt {
		i = int64(f)
	}

	inRange := func(lo, hi int64) error {
		if i < lo || i > hi {
			return xerrors.Errorf("default %d out of range [%d, %d]", i, lo, hi)
		}
		return nil
	}
	switch k {
	case KindInt8:
		return int8(i), inRange(math.MinInt8, math.MaxInt8)
	case KindUint8:
		return uint8(i), inRange(0, math.MaxUint8)
	case KindInt16:
		return int16(i), inRange(math.MinInt16, math.MaxInt16)
	case KindUint16:
		return uint16(i), inRange(0, math.MaxUint16)
	case KindInt32:
		return int32(i), inRange(math.MinInt32, math.MaxInt32)
	case KindUint32:
		return uint32(i), inRange(0, math.MaxUint32)
	case KindInt64:
		return i, nil
	case KindUint64:
		return uint64(i), inRange(0, math.MaxInt64)
	case KindFloat32:
		return float32(f), nil
	case KindFloat64:
		return f, nil
	}
	return nil, xerrors.Errorf("unexpected kind %d", k)
}
