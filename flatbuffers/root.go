package flatbuffers

//	finished buffer:
//	+------------------+---------------------+------------------------------+
//	| root uoffset (4B)| file identifier (4B)| vtables / tables / vectors ...|
//	+------------------+---------------------+------------------------------+
//
//	size-prefixed buffer:
//	+------------------+------------------+---------------------+-----+
//	| size prefix (4B) | root uoffset (4B)| file identifier (4B)| ... |
//	+------------------+------------------+---------------------+-----+
//
// file identifier 是可选的，只有 producer 用 FinishWithFileIdentifier 结束时才存在。

// GetRoot returns the root table of a finished buffer.
func GetRoot(b Buffer) Table {
	return TableAt(b, b.deref(0))
}

// GetSizePrefix returns the length recorded in front of a size-prefixed
// buffer. It excludes the prefix itself.
func GetSizePrefix(b Buffer) uint32 {
	return GetUint32(b.b)
}

// GetSizePrefixedRoot returns the root table of a size-prefixed buffer.
func GetSizePrefixedRoot(b Buffer) Table {
	return TableAt(b, b.deref(SizeUint32))
}

// BufferIdentifier returns the four identifier bytes of a finished buffer.
// They are meaningless when the producer did not write an identifier.
func BufferIdentifier(b Buffer) string {
	return byteSliceToString(b.b[SizeUOffsetT : SizeUOffsetT+fileIdentifierLength])
}

// BufferHasIdentifier reports whether a finished buffer carries id.
func BufferHasIdentifier(b Buffer, id string) bool {
	return len(id) == fileIdentifierLength &&
		b.Len() >= SizeUOffsetT+fileIdentifierLength &&
		BufferIdentifier(b) == id
}

// SizePrefixedBufferHasIdentifier is BufferHasIdentifier for size-prefixed
// buffers.
func SizePrefixedBufferHasIdentifier(b Buffer, id string) bool {
	return len(id) == fileIdentifierLength &&
		b.Len() >= SizeUint32+SizeUOffsetT+fileIdentifierLength &&
		byteSliceToString(b.b[SizeUint32+SizeUOffsetT:SizeUint32+SizeUOffsetT+fileIdentifierLength]) == id
}
