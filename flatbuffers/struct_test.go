package flatbuffers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastbao/gomem/flatbuffers"
)

func TestStructScenario(t *testing.T) {
	buf := []byte{0x05, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}
	s := flatbuffers.StructAt(flatbuffers.Trust(buf), 0)

	assert.Equal(t, uint8(5), flatbuffers.GetStructField[uint8](s, 0))
	assert.Equal(t, int32(-1), flatbuffers.GetStructField[int32](s, 4))
	assert.Equal(t, uint32(0xffffffff), flatbuffers.GetStructField[uint32](s, 4))
}

func TestStructNested(t *testing.T) {
	// outer { a: u16, pad, inner { x: i32, y: i32 } }
	buf := []byte{
		0x07, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0xfe, 0xff, 0xff, 0xff,
	}
	outer := flatbuffers.StructAt(flatbuffers.Trust(buf), 0)
	inner := outer.Struct(4)

	assert.Equal(t, uint16(7), flatbuffers.GetStructField[uint16](outer, 0))
	assert.Equal(t, int32(1), flatbuffers.GetStructField[int32](inner, 0))
	assert.Equal(t, int32(-2), flatbuffers.GetStructField[int32](inner, 4))
	assert.Equal(t, flatbuffers.UOffsetT(4), inner.Pos())
}

func TestStructReference(t *testing.T) {
	// struct { s: uoffset } -> "ok"
	buf := []byte{
		0x04, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 'o', 'k', 0x00,
	}
	s := flatbuffers.StructAt(flatbuffers.Trust(buf), 0)

	str := s.String(0)
	assert.Equal(t, "ok", str.Text())
	assert.Equal(t, flatbuffers.UOffsetT(4), str.Pos())

	again := flatbuffers.GetStructRef[flatbuffers.String, flatbuffers.StringView](s, 0)
	assert.True(t, again.Equal(str))
}

func TestStructTableReference(t *testing.T) {
	// struct at 0 holding a uoffset to the scenario table at 16
	buf := make([]byte, 16)
	flatbuffers.WriteUOffsetT(buf, 16+12)
	buf = append(buf, scenarioTable...)

	s := flatbuffers.StructAt(flatbuffers.Trust(buf), 0)
	tbl := s.Table(0)
	assert.Equal(t, int32(42), flatbuffers.GetField[int32](tbl, 0, 0))
}

func TestStructSetters(t *testing.T) {
	buf := make([]byte, 16)
	s := flatbuffers.StructAt(flatbuffers.TrustMutable(buf), 0)

	flatbuffers.SetStructField[int64](s, 8, -9)
	flatbuffers.SetStructField[float32](s, 0, 0.5)
	s.SetBool(4, true)

	assert.Equal(t, int64(-9), flatbuffers.GetStructField[int64](s, 8))
	assert.Equal(t, float32(0.5), flatbuffers.GetStructField[float32](s, 0))
	assert.True(t, s.Bool(4))
	require.Equal(t, []byte{0, 0, 0, 0x3f}, buf[:4])
}
