// Package flatbuffers provides zero-copy read access to FlatBuffers encoded
// buffers.
//
// Every accessor is a view holding a Buffer handle and a position: Table for
// vtable-indexed records, Struct for fixed-layout records, Vector for
// length-prefixed sequences and String for UTF-8 byte vectors. Nothing is
// parsed up front and nothing is copied; a field access is a handful of
// little-endian loads.
//
// The accessors do not validate offsets. A Buffer obtained from Trust or
// TrustMutable is assumed to be well formed, and TrustVerified is the opt-in
// place to run an external Verifier first. The one checked condition is the
// vector index against the stored length.
//
// Element access is selected at instantiation through the Indirect
// interface: Direct and Inline read values stored in place, Offset follows a
// self-relative UOffsetT first.
//
//	root := flatbuffers.GetRoot(flatbuffers.Trust(data))
//	hp := flatbuffers.GetField[int16](root, 2, 100)
//	name, _ := root.String(3)
//	inv, _ := flatbuffers.GetVector[uint8, flatbuffers.Direct[uint8]](root, 5)
//	for i, v := range inv.All() { ... }
//
// Views are safe for concurrent reads. SetField and the other setters write
// in place and require a TrustMutable buffer and external serialization.
package flatbuffers

// 简单来说 FlatBuffers 把对象数据保存在一个一维的 []byte 中，每个对象分为两部分：
//	元数据部分：存放索引 (vtable、偏移)；
//	真实数据部分：存放实际的值。
//
// 基本原则：
//	小端模式：所有多字节数值都按小端存储，与主流 CPU 一致；
//	相对寻址：所有偏移都相对于存放它的位置 (self-relative)，buffer 可以整体拷贝/搬移而不用改写偏移；
//	写读方向不同：builder 从尾部向头部填充，读取时从头 (root offset) 开始顺序解析。
//
// table 通过 vtable 间接访问字段，以支持 schema 演进：
//	简单类型和 struct 成员直接存储在 table_data 中；
//	复杂类型 (string、vector、table) 在 table_data 中只存一个相对偏移，需要再做一次相对寻址。
