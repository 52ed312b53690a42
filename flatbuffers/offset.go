package flatbuffers

// 地址计算原语：纯函数，不做任何越界检查，调用方保证合法性。
//
//	Index   : pos + i*stride   (向量元素定位)
//	Forward : pos + delta      (无符号偏移，只能向后)
//	Signed  : pos + delta      (有符号偏移，可以向前，vtable 回指就是这种)
//	Deref   : pos + *(uint32*)(buf+pos)  (自相对寻址，一跳)

// Index returns the position of element i in a run of stride-sized elements
// starting at pos.
func Index(pos UOffsetT, i int, stride UOffsetT) UOffsetT {
	return pos + UOffsetT(i)*stride
}

// Forward returns pos moved forward by delta bytes.
func Forward(pos UOffsetT, delta UOffsetT) UOffsetT {
	return pos + delta
}

// Signed returns pos moved by a signed delta. A negative delta moves backward.
func Signed(pos UOffsetT, delta SOffsetT) UOffsetT {
	return UOffsetT(SOffsetT(pos) + delta)
}

// Deref follows the self-relative UOffsetT stored at pos and returns the
// absolute position it designates.
func Deref(buf []byte, pos UOffsetT) UOffsetT {
	return pos + GetUOffsetT(buf[pos:])
}

// SlotOffset converts a field's slot index (its position in schema order)
// into the byte offset of its entry inside a vtable. The first two entries of
// every vtable are the vtable size and the table size.
//
//	slot 0 -> 4, slot 1 -> 6, slot 2 -> 8, ...
//
// The result is a UOffsetT: slots from 32766 upward lie past any vtable a
// VOffsetT can describe and must not wrap back onto the header.
func SlotOffset(slot VOffsetT) UOffsetT {
	return (VtableMetadataFields + UOffsetT(slot)) * SizeVOffsetT
}
