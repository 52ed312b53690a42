package flatbuffers

import (
	"iter"
)

//	vector:
//	+-----------------+------------+------------+-----+----------------+
//	| length (4B)     | element 0  | element 1  | ... | element len-1  |
//	+-----------------+------------+------------+-----+----------------+
//	^ pos             ^ pos + 4 (data)
//
// 每个元素宽度为 I.Stride() ：标量/struct 为自身大小，引用类型为 4B 偏移。

// Vector is a view of a length-prefixed sequence of elements. I decides how
// an element slot becomes a value.
type Vector[T any, I Indirect[T]] struct {
	buf Buffer
	pos UOffsetT // position of the length field
}

// VectorAt returns the vector whose length field is at pos.
func VectorAt[T any, I Indirect[T]](b Buffer, pos UOffsetT) Vector[T, I] {
	return Vector[T, I]{buf: b, pos: pos}
}

// Buffer returns the buffer the vector lives in.
func (v Vector[T, I]) Buffer() Buffer { return v.buf }

// Pos returns the position of the length field.
func (v Vector[T, I]) Pos() UOffsetT { return v.pos }

// Len returns the number of elements.
func (v Vector[T, I]) Len() int {
	return int(v.buf.uoffset(v.pos))
}

// Data returns the position of the first element.
func (v Vector[T, I]) Data() UOffsetT {
	return v.pos + SizeUOffsetT
}

// Get returns element i. It reports false when i is outside [0, Len()).
// This is the only bounds check the accessors perform.
func (v Vector[T, I]) Get(i int) (T, bool) {
	if i < 0 || i >= v.Len() {
		var zero T
		return zero, false
	}
	return v.at(i), true
}

func (v Vector[T, I]) at(i int) T {
	var ind I
	return ind.At(v.buf, v.Data(), i)
}

// All yields index and element pairs in storage order.
func (v Vector[T, I]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(i, v.at(i)) {
				return
			}
		}
	}
}

// Values yields elements in storage order.
func (v Vector[T, I]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		n := v.Len()
		for i := 0; i < n; i++ {
			if !yield(v.at(i)) {
				return
			}
		}
	}
}

// Iter returns an explicit forward iterator positioned before element 0.
func (v Vector[T, I]) Iter() *VectorIter[T, I] {
	return &VectorIter[T, I]{vec: v, n: v.Len()}
}

// Search finds an element in a vector sorted by key. cmp reports how the
// wanted key compares to the key of the element it is given: negative if the
// wanted key sorts before it, zero on a match, positive after.
func (v Vector[T, I]) Search(cmp func(T) int) (T, bool) {
	lo, hi := 0, v.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		e := v.at(mid)
		switch c := cmp(e); {
		case c == 0:
			return e, true
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	var zero T
	return zero, false
}

// VectorIter walks a Vector one element at a time. It never writes to the
// buffer and can be rewound with Reset.
type VectorIter[T any, I Indirect[T]] struct {
	vec Vector[T, I]
	idx int
	n   int
}

// Next returns the next element, or false once the vector is exhausted.
func (it *VectorIter[T, I]) Next() (T, bool) {
	if it.idx >= it.n {
		var zero T
		return zero, false
	}
	e := it.vec.at(it.idx)
	it.idx++
	return e, true
}

// Remaining returns how many elements Next will still produce.
func (it *VectorIter[T, I]) Remaining() int { return it.n - it.idx }

// Reset rewinds the iterator to the first element.
func (it *VectorIter[T, I]) Reset() { it.idx = 0 }
