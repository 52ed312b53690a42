package flatbuffers

import (
	"unsafe"
)

type (
	// A SOffsetT stores a signed offset into arbitrary data.
	SOffsetT int32
	// A UOffsetT stores an unsigned offset into vector data.
	UOffsetT uint32
	// A VOffsetT stores an unsigned offset in a vtable.
	VOffsetT uint16
)

const (
	// VtableMetadataFields is the count of metadata fields in each vtable.
	VtableMetadataFields = 2
)

// Scalar is the set of fixed-width numeric types that can be stored inline
// in a buffer. Named types with one of these underlying types are accepted,
// which lets generated enums be read without conversion.
//
// bool is not part of the set; see GetBool.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// 所有多字节数值在 buffer 中一律按小端存储，这里统一用移位拼装的方式读写，
// 与主机字节序无关：小端主机上编译器会把它优化成一次 load ，大端主机上等价于 byte swap 。
//
// 浮点数：先按同宽度的无符号整数读出，再按位重解释 (bit-reinterpret) 成浮点，
// 前提是主机浮点是 IEEE-754 且其字节序与整数一致，见 SelfTest 。

// ReadScalar decodes a little-endian scalar of type T from buf.
//
// buf must hold at least sizeof(T) bytes.
func ReadScalar[T Scalar](buf []byte) (v T) {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		*(*uint8)(p) = buf[0]
	case 2:
		*(*uint16)(p) = GetUint16(buf)
	case 4:
		*(*uint32)(p) = GetUint32(buf)
	case 8:
		*(*uint64)(p) = GetUint64(buf)
	}
	return v
}

// WriteScalar encodes v as little-endian into buf.
func WriteScalar[T Scalar](buf []byte, v T) {
	p := unsafe.Pointer(&v)
	switch unsafe.Sizeof(v) {
	case 1:
		buf[0] = *(*uint8)(p)
	case 2:
		WriteUint16(buf, *(*uint16)(p))
	case 4:
		WriteUint32(buf, *(*uint32)(p))
	case 8:
		WriteUint64(buf, *(*uint64)(p))
	}
}

// SizeOf returns the encoded width of T.
func SizeOf[T Scalar]() UOffsetT {
	var v T
	return UOffsetT(unsafe.Sizeof(v))
}

// GetByte decodes a little-endian byte from a byte slice.
func GetByte(buf []byte) byte {
	return buf[0]
}

// GetBool decodes a little-endian bool from a byte slice.
// Only the byte value 1 is true.
func GetBool(buf []byte) bool {
	return buf[0] == 1
}

// GetUint8 decodes a little-endian uint8 from a byte slice.
func GetUint8(buf []byte) uint8 {
	return buf[0]
}

// GetUint16 decodes a little-endian uint16 from a byte slice.
func GetUint16(buf []byte) (n uint16) {
	_ = buf[1] // Force one bounds check. See: golang.org/issue/14808
	n |= uint16(buf[0])
	n |= uint16(buf[1]) << 8
	return
}

// GetUint32 decodes a little-endian uint32 from a byte slice.
func GetUint32(buf []byte) (n uint32) {
	_ = buf[3] // Force one bounds check. See: golang.org/issue/14808
	n |= uint32(buf[0])
	n |= uint32(buf[1]) << 8
	n |= uint32(buf[2]) << 16
	n |= uint32(buf[3]) << 24
	return
}

// GetUint64 decodes a little-endian uint64 from a byte slice.
func GetUint64(buf []byte) (n uint64) {
	_ = buf[7] // Force one bounds check. See: golang.org/issue/14808
	n |= uint64(buf[0])
	n |= uint64(buf[1]) << 8
	n |= uint64(buf[2]) << 16
	n |= uint64(buf[3]) << 24
	n |= uint64(buf[4]) << 32
	n |= uint64(buf[5]) << 40
	n |= uint64(buf[6]) << 48
	n |= uint64(buf[7]) << 56
	return
}

// GetInt8 decodes a little-endian int8 from a byte slice.
func GetInt8(buf []byte) int8 { return int8(buf[0]) }

// GetInt16 decodes a little-endian int16 from a byte slice.
func GetInt16(buf []byte) int16 { return int16(GetUint16(buf)) }

// GetInt32 decodes a little-endian int32 from a byte slice.
func GetInt32(buf []byte) int32 { return int32(GetUint32(buf)) }

// GetInt64 decodes a little-endian int64 from a byte slice.
func GetInt64(buf []byte) int64 { return int64(GetUint64(buf)) }

// GetFloat32 decodes a little-endian float32 from a byte slice.
func GetFloat32(buf []byte) float32 { return ReadScalar[float32](buf) }

// GetFloat64 decodes a little-endian float64 from a byte slice.
func GetFloat64(buf []byte) float64 { return ReadScalar[float64](buf) }

// GetUOffsetT decodes a little-endian UOffsetT from a byte slice.
func GetUOffsetT(buf []byte) UOffsetT { return UOffsetT(GetUint32(buf)) }

// GetSOffsetT decodes a little-endian SOffsetT from a byte slice.
func GetSOffsetT(buf []byte) SOffsetT { return SOffsetT(GetUint32(buf)) }

// GetVOffsetT decodes a little-endian VOffsetT from a byte slice.
func GetVOffsetT(buf []byte) VOffsetT { return VOffsetT(GetUint16(buf)) }

// WriteByte encodes a little-endian uint8 into a byte slice.
func WriteByte(buf []byte, n byte) { buf[0] = n }

// WriteBool encodes a little-endian bool into a byte slice.
func WriteBool(buf []byte, b bool) {
	buf[0] = 0
	if b {
		buf[0] = 1
	}
}

// WriteUint8 encodes a little-endian uint8 into a byte slice.
func WriteUint8(buf []byte, n uint8) { buf[0] = n }

// WriteUint16 encodes a little-endian uint16 into a byte slice.
func WriteUint16(buf []byte, n uint16) {
	_ = buf[1] // Force one bounds check. See: golang.org/issue/14808
	buf[0] = byte(n)
	buf[1] = byte(n >> 8)
}

// WriteUint32 encodes a little-endian uint32 into a byte slice.
func WriteUint32(buf []byte, n uint32) {
	_ = buf[3] // Force one bounds check. See: golang.org/issue/14808
	buf[0] = byte(n)
	buf[1] = byte(n >> 8)
	buf[2] = byte(n >> 16)
	buf[3] = byte(n >> 24)
}

// WriteUint64 encodes a little-endian uint64 into a byte slice.
func WriteUint64(buf []byte, n uint64) {
	_ = buf[7] // Force one bounds check. See: golang.org/issue/14808
	for i := uint(0); i < uint(SizeUint64); i++ {
		buf[i] = byte(n >> (i * 8))
	}
}

// WriteInt8 encodes a little-endian int8 into a byte slice.
func WriteInt8(buf []byte, n int8) { buf[0] = byte(n) }

// WriteInt16 encodes a little-endian int16 into a byte slice.
func WriteInt16(buf []byte, n int16) { WriteUint16(buf, uint16(n)) }

// WriteInt32 encodes a little-endian int32 into a byte slice.
func WriteInt32(buf []byte, n int32) { WriteUint32(buf, uint32(n)) }

// WriteInt64 encodes a little-endian int64 into a byte slice.
func WriteInt64(buf []byte, n int64) { WriteUint64(buf, uint64(n)) }

// WriteFloat32 encodes a little-endian float32 into a byte slice.
func WriteFloat32(buf []byte, n float32) { WriteScalar(buf, n) }

// WriteFloat64 encodes a little-endian float64 into a byte slice.
func WriteFloat64(buf []byte, n float64) { WriteScalar(buf, n) }

// WriteUOffsetT encodes a little-endian UOffsetT into a byte slice.
func WriteUOffsetT(buf []byte, n UOffsetT) { WriteUint32(buf, uint32(n)) }

// WriteSOffsetT encodes a little-endian SOffsetT into a byte slice.
func WriteSOffsetT(buf []byte, n SOffsetT) { WriteUint32(buf, uint32(n)) }

// WriteVOffsetT encodes a little-endian VOffsetT into a byte slice.
func WriteVOffsetT(buf []byte, n VOffsetT) { WriteUint16(buf, uint16(n)) }
