package flatbuffers

// 间接寻址抽象：给定容器数据区起点 start 与下标 i ，产出逻辑值。
//
// 两种形态：
//   - Direct/Inline : 元素按值内联存储，bytes 本身就是值 (标量、struct)；
//   - Offset        : 元素槽里存的是 4B 的相对偏移，值在 slot + offset 处 (table、string、嵌套 vector)。
//
// 具体选哪种在泛型实例化时确定，Vector 的实现只有一份。

// Indirect produces the logical value of element i of a container whose
// element data starts at start.
type Indirect[T any] interface {
	// Stride is the byte width of one stored element.
	Stride() UOffsetT
	At(b Buffer, start UOffsetT, i int) T
}

// Viewer constructs a typed view over the value located at pos.
type Viewer[T any] interface {
	View(b Buffer, pos UOffsetT) T
}

// Layout describes a fixed-layout struct type by its byte size. It is
// implemented by zero-size marker types, one per schema struct.
type Layout interface {
	Size() UOffsetT
}

// Direct reads scalar elements stored inline.
type Direct[T Scalar] struct{}

func (Direct[T]) Stride() UOffsetT { return SizeOf[T]() }

func (d Direct[T]) At(b Buffer, start UOffsetT, i int) T {
	return ReadScalar[T](b.b[Index(start, i, d.Stride()):])
}

// Bools reads one-byte bool elements stored inline.
type Bools struct{}

func (Bools) Stride() UOffsetT { return SizeBool }

func (Bools) At(b Buffer, start UOffsetT, i int) bool {
	return GetBool(b.b[Index(start, i, SizeBool):])
}

// Inline reads fixed-layout struct elements stored inline, each L.Size()
// bytes wide.
type Inline[L Layout] struct{}

func (Inline[L]) Stride() UOffsetT {
	var l L
	return l.Size()
}

func (x Inline[L]) At(b Buffer, start UOffsetT, i int) Struct {
	return StructAt(b, Index(start, i, x.Stride()))
}

// Offset reads elements that are UOffsetT references to values stored
// elsewhere in the buffer. V builds the view at the referenced position.
type Offset[T any, V Viewer[T]] struct{}

func (Offset[T, V]) Stride() UOffsetT { return SizeUOffsetT }

func (Offset[T, V]) At(b Buffer, start UOffsetT, i int) T {
	var v V
	return v.View(b, b.deref(Index(start, i, SizeUOffsetT)))
}

// TableView builds a Table at a position.
type TableView struct{}

func (TableView) View(b Buffer, pos UOffsetT) Table { return TableAt(b, pos) }

// StringView builds a String at a position.
type StringView struct{}

func (StringView) View(b Buffer, pos UOffsetT) String { return StringAt(b, pos) }

// StructView builds a Struct at a position, for structs held by reference.
type StructView struct{}

func (StructView) View(b Buffer, pos UOffsetT) Struct { return StructAt(b, pos) }

// VectorView builds a Vector at a position.
type VectorView[T any, I Indirect[T]] struct{}

func (VectorView[T, I]) View(b Buffer, pos UOffsetT) Vector[T, I] {
	return VectorAt[T, I](b, pos)
}

type (
	// Tables reads vector elements that reference tables.
	Tables = Offset[Table, TableView]
	// Strings reads vector elements that reference strings.
	Strings = Offset[String, StringView]
	// StructRefs reads vector elements that reference out-of-line structs.
	StructRefs = Offset[Struct, StructView]
)
