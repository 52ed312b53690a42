package schema

import (
	"strings"

	"golang.org/x/xerrors"
)

// Kind classifies a field type.
type Kind int

const (
	KindBool Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindTable
	KindStruct
	KindUnion
	KindVector
)

var scalarNames = map[string]Kind{
	"bool":    KindBool,
	"byte":    KindInt8,
	"ubyte":   KindUint8,
	"int8":    KindInt8,
	"uint8":   KindUint8,
	"short":   KindInt16,
	"ushort":  KindUint16,
	"int16":   KindInt16,
	"uint16":  KindUint16,
	"int":     KindInt32,
	"uint":    KindUint32,
	"int32":   KindInt32,
	"uint32":  KindUint32,
	"long":    KindInt64,
	"ulong":   KindUint64,
	"int64":   KindInt64,
	"uint64":  KindUint64,
	"float":   KindFloat32,
	"double":  KindFloat64,
	"float32": KindFloat32,
	"float64": KindFloat64,
	"string":  KindString,
}

// inlineSizes is the stored width of kinds that can live inside a struct or
// a vector slot. References take a UOffsetT.
var inlineSizes = [...]uint32{
	KindBool:    1,
	KindInt8:    1,
	KindUint8:   1,
	KindInt16:   2,
	KindUint16:  2,
	KindInt32:   4,
	KindUint32:  4,
	KindInt64:   8,
	KindUint64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
	KindString:  4,
	KindTable:   4,
	KindUnion:   4,
	KindVector:  4,
}

// IsScalar reports whether k is stored inline with a fixed width.
func (k Kind) IsScalar() bool { return k <= KindFloat64 }

// Type is a parsed field type.
//
//	int16            scalar
//	string           string
//	table:Weapon     nested table
//	struct:Vec3      inline struct
//	union:Sword|Bow  union, tag stored in the previous slot
//	[T]              vector of any of the above except unions and vectors
type Type struct {
	Kind Kind
	// Ref names the table or struct of KindTable and KindStruct.
	Ref string
	// Members lists the tables of a union, tag 1 first.
	Members []string
	// Elem is the element type of a vector.
	Elem *Type
}

// ParseType parses a type expression.
func ParseType(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		elem, err := ParseType(s[1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		if elem.Kind == KindVector || elem.Kind == KindUnion {
			return nil, xerrors.Errorf("schema: vector of %s is not supported", s[1:len(s)-1])
		}
		return &Type{Kind: KindVector, Elem: elem}, nil
	}
	if k, ok := scalarNames[s]; ok {
		return &Type{Kind: k}, nil
	}
	kind, ref, ok := strings.Cut(s, ":")
	if !ok || ref == "" {
		return nil, xerrors.Errorf("schema: unknown type %q", s)
	}
	switch kind {
	case "table":
		return &Type{Kind: KindTable, Ref: ref}, nil
	case "struct":
		return &Type{Kind: KindStruct, Ref: ref}, nil
	case "union":
		return &Type{Kind: KindUnion, Members: strings.Split(ref, "|")}, nil
	}
	return nil, xerrors.Errorf("schema: unknown type %q", s)
}

func (t *Type) String() string {
	switch t.Kind {
	case KindTable:
		return "table:" + t.Ref
	case KindStruct:
		return "struct:" + t.Ref
	case KindUnion:
		return "union:" + strings.Join(t.Members, "|")
	case KindVector:
		return "[" + t.Elem.String() + "]"
	}
	for name, k := range canonicalNames {
		if k == t.Kind {
			return name
		}
	}
	return "?"
}

var canonicalNames = map[string]Kind{
	"bool": KindBool, "int8": KindInt8, "uint8": KindUint8,
	"int16": KindInt16, "uint16": KindUint16, "int32": KindInt32,
	"uint32": KindUint32, "int64": KindInt64, "uint64": KindUint64,
	"float32": KindFloat32, "float64": KindFloat64, "string": KindString,
}
