package flatbuffers

// 一个最小的完整例子：只有一个 int32 字段 (slot 0) 的 table ，值为 42 。
//
//	offset  bytes          含义
//	0       0c 00 00 00    root uoffset = 12 ，root table 在 0 + 12
//	4       06 00          vtable size = 6 (2B size + 2B table size + 1 个字段)
//	6       08 00          table size = 8 (4B soffset + 4B int32)
//	8       04 00          slot 0 的字段在 table + 4
//	10      00 00          padding
//	12      08 00 00 00    soffset = 8 ，vtable = 12 - 8 = 4
//	16      2a 00 00 00    slot 0 = 42
//
// 字段访问：
//	GetField[int32](root, 0, 0)
//		vtable = 12 - 8 = 4 ，vtsize = 6
//		SlotOffset(0) = 4 < 6 ，读 vtable+4 得到 4 ，值在 12 + 4 = 16 ，返回 42
//	GetField[int32](root, 1, 7)
//		SlotOffset(1) = 6 >= 6 ，buffer 比 schema 旧，字段不存在，直接返回默认值 7
//
// slot 与 vtable 偏移的换算：
//	vtable_entry = vtable + 4 + slot*2
// 4 是 vtable 头部的两个 VOffset (vtable size 、table size)，2 是每个字段偏移项的大小。
// vtable 只需要覆盖到最后一个被写入的字段，后面未写入的字段不占空间，这就是老 buffer
// 能被新 reader 读取的原因。

// 引用类型字段 (string/vector/table) 多一跳：
//
//	table + off  : 存 uoffset u
//	table+off+u  : 真正的对象 (vector 的 length 字段、或子 table 的 soffset)
//
// struct 字段不多跳，vtable 里的偏移直接指向 struct 的字节；
// struct 内部字段的偏移是 schema 决定的常量，不需要 vtable 。

// Q&A vtable 会不会让每条消息都变大？
//
// 会有一些开销：每个 vtable 4B 头部 + 每个字段 2B 。字段少的小 table 相对开销较大，
// 复杂结构下可以忽略；builder 会对布局相同的 table 复用同一个 vtable 。
// 对比 Protobuf：没有 vtable ，每个字段带 tag ，数据更紧凑，但读取需要顺序扫描解码。

// Q&A FlatBuffers 是自描述的吗？
//
// 不是。buffer 中只有偏移和值，没有字段名和类型；读取时必须知道 schema 。
// schema 包用 TOML 描述 schema ，配合本包的通用访问器可以在没有生成代码时把 buffer 解码出来。
