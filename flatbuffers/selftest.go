package flatbuffers

import (
	"math"

	"golang.org/x/xerrors"
)

// The scalar codec reinterprets float bits through same-width integers. That
// is only correct on hosts whose floats are IEEE-754 with the same byte order
// as integers, which SelfTest checks against known encodings.
var floatPatterns = []struct {
	le  []byte
	f32 float32
	f64 float64
	w   int
}{
	{le: []byte{0x00, 0x00, 0x80, 0x3f}, f32: 1, w: 4},
	{le: []byte{0x00, 0x00, 0x20, 0xc0}, f32: -2.5, w: 4},
	{le: []byte{0x00, 0x00, 0x80, 0x7f}, f32: float32(math.Inf(1)), w: 4},
	{le: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f}, f64: 1, w: 8},
	{le: []byte{0x18, 0x2d, 0x44, 0x54, 0xfb, 0x21, 0x09, 0x40}, f64: math.Pi, w: 8},
	{le: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, f64: math.Copysign(0, -1), w: 8},
}

// SelfTest verifies the platform float assumptions of the scalar codec.
func SelfTest() error {
	var scratch [8]byte
	for _, p := range floatPatterns {
		switch p.w {
		case 4:
			if got := ReadScalar[float32](p.le); math.Float32bits(got) != math.Float32bits(p.f32) {
				return xerrors.Errorf("read float32 % x = %v, want %v: %w", p.le, got, p.f32, ErrFloatLayout)
			}
			WriteScalar(scratch[:4], p.f32)
			if string(scratch[:4]) != string(p.le) {
				return xerrors.Errorf("write float32 %v = % x, want % x: %w", p.f32, scratch[:4], p.le, ErrFloatLayout)
			}
		case 8:
			if got := ReadScalar[float64](p.le); math.Float64bits(got) != math.Float64bits(p.f64) {
				return xerrors.Errorf("read float64 % x = %v, want %v: %w", p.le, got, p.f64, ErrFloatLayout)
			}
			WriteScalar(scratch[:8], p.f64)
			if string(scratch[:8]) != string(p.le) {
				return xerrors.Errorf("write float64 %v = % x, want % x: %w", p.f64, scratch[:8], p.le, ErrFloatLayout)
			}
		}
	}
	return nil
}

func init() {
	if err := SelfTest(); err != nil {
		panic(err)
	}
}
