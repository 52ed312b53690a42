package provider

import (
	"bytes"
	"errors"
	"testing"
	"testing/quick"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastbao/gomem/flatbuffers"
	"github.com/blastbao/gomem/memory"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := buildItem(t, "sword", 10, false)
	for _, opt := range []FrameOptions{
		{},
		{Compress: true},
		{Compress: true, Level: zstd.SpeedBestCompression},
	} {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())

		frame, err := EncodeFrame(nil, payload, opt)
		require.NoError(t, err)
		require.Equal(t, frameMagic, string(frame[:4]))

		got, err := DecodeFrame(mem, frame)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.True(t, memory.IsAligned(got))
		mem.AssertSize(t, len(payload))

		mem.Free(got)
		mem.AssertSize(t, 0)
	}
}

func TestFrameAppends(t *testing.T) {
	prefix := []byte("xyz")
	frame, err := EncodeFrame(append([]byte(nil), prefix...), []byte("abc"), FrameOptions{})
	require.NoError(t, err)
	assert.Equal(t, prefix, frame[:3])
	assert.Len(t, frame, 3+frameHeaderSize+3)
}

func TestFrameCompresses(t *testing.T) {
	payload := bytes.Repeat([]byte("flatbuffers "), 1000)
	raw, err := EncodeFrame(nil, payload, FrameOptions{})
	require.NoError(t, err)
	packed, err := EncodeFrame(nil, payload, FrameOptions{Compress: true})
	require.NoError(t, err)
	assert.Less(t, len(packed), len(raw)/10)
}

func TestFrameErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	payload := []byte("some payload bytes")
	good, err := EncodeFrame(nil, payload, FrameOptions{})
	require.NoError(t, err)
	packed, err := EncodeFrame(nil, payload, FrameOptions{Compress: true})
	require.NoError(t, err)

	corrupt := append([]byte(nil), good...)
	corrupt[len(corrupt)-1] ^= 0xff

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'X'

	badZstd := append([]byte(nil), packed...)
	for i := frameHeaderSize; i < len(badZstd); i++ {
		badZstd[i] = 0
	}

	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"checksum", corrupt, ErrFrameChecksum},
		{"magic", badMagic, ErrFrameMagic},
		{"truncated header", good[:frameHeaderSize-1], ErrFrameLength},
		{"truncated body", good[:len(good)-2], ErrFrameLength},
		{"garbage zstd", badZstd, nil},
	} {
		_, err := DecodeFrame(mem, tc.data)
		require.Error(t, err, tc.name)
		var de *DataError
		require.True(t, errors.As(err, &de), tc.name)
		if tc.want != nil {
			assert.ErrorIs(t, err, tc.want, tc.name)
		}
		mem.AssertSize(t, 0)
	}
}

// boundedAllocator fails the test when asked for more than max bytes.
type boundedAllocator struct {
	memory.Allocator
	t   *testing.T
	max int
}

func (a boundedAllocator) Allocate(size int) []byte {
	if size > a.max {
		a.t.Fatalf("allocation of %d bytes, limit %d", size, a.max)
		return nil
	}
	return a.Allocator.Allocate(size)
}

func TestFrameHugeRawLenRejectedBeforeAllocating(t *testing.T) {
	mem := boundedAllocator{Allocator: memory.NewGoAllocator(), t: t, max: 1 << 20}

	packed, err := EncodeFrame(nil, []byte("x"), FrameOptions{Compress: true})
	require.NoError(t, err)
	lying := append([]byte(nil), packed...)
	flatbuffers.WriteUint32(lying[5:], maxBufferSize)

	garbage := append([]byte(nil), packed[:frameHeaderSize]...)
	flatbuffers.WriteUint32(garbage[5:], maxBufferSize)
	garbage = append(garbage, 1, 2, 3)

	for _, tc := range []struct {
		name string
		data []byte
		want error
	}{
		{"content size mismatch", lying, ErrFrameLength},
		{"no zstd header", garbage, nil},
	} {
		_, err := DecodeFrame(mem, tc.data)
		require.Error(t, err, tc.name)
		var de *DataError
		require.True(t, errors.As(err, &de), tc.name)
		if tc.want != nil {
			assert.ErrorIs(t, err, tc.want, tc.name)
		}
	}
}

func TestFrameProperty(t *testing.T) {
	mem := memory.NewGoAllocator()
	f := func(payload []byte, compress bool) bool {
		frame, err := EncodeFrame(nil, payload, FrameOptions{Compress: compress})
		if err != nil {
			return false
		}
		got, err := DecodeFrame(mem, frame)
		return err == nil && bytes.Equal(got, payload)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestDataErrorMessage(t *testing.T) {
	err := dataErrf(bytes.Repeat([]byte{0xab}, 100), 7, ErrFrameMagic, "bad %s", "thing")
	msg := err.Error()
	assert.Contains(t, msg, "bad thing at 7")
	assert.Contains(t, msg, "(100)")
	assert.Contains(t, msg, "...")
	assert.ErrorIs(t, err, ErrFrameMagic)

	short := dataErrf([]byte{1, 2}, 0, nil, "short")
	assert.Equal(t, "short at 0: (2) 0102", short.Error())

	// the error keeps its own copy of the excerpt
	src := bytes.Repeat([]byte{0xcd}, 64)
	kept := dataErrf(src, 0, nil, "kept")
	want := kept.Error()
	for i := range src {
		src[i] = 0
	}
	assert.Equal(t, want, kept.Error())
	var de *DataError
	require.True(t, errors.As(kept, &de))
	assert.Equal(t, 64, de.Size)
	assert.Len(t, de.Data, 48)
}
