package provider

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/xerrors"

	"github.com/blastbao/gomem/flatbuffers"
	"github.com/blastbao/gomem/memory"
)

// 帧格式 (所有整数小端)：
//
//	+-----------+----------+--------------+-----------------+-------------------+
//	| magic (4B)| flags(1B)| raw len (4B) | xxhash64 (8B)   | body ...          |
//	+-----------+----------+--------------+-----------------+-------------------+
//
// body 是原始 buffer ，或者 flags 含 frameZstd 时为其 zstd 压缩结果；
// 校验和总是针对解压后的原始 buffer 计算。

const (
	frameMagic      = "FBF1"
	frameHeaderSize = 4 + 1 + 4 + 8

	frameZstd byte = 1 << 0

	// maxBufferSize is the largest buffer addressable with 32-bit offsets.
	maxBufferSize = 1<<31 - 1
)

var (
	ErrFrameMagic    = xerrors.New("provider: not a frame")
	ErrFrameChecksum = xerrors.New("provider: frame checksum mismatch")
	ErrFrameLength   = xerrors.New("provider: frame length mismatch")
)

// FrameOptions control EncodeFrame.
type FrameOptions struct {
	// Compress stores the body zstd compressed.
	Compress bool
	// Level is the zstd encoder level; zero means zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

var decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxBufferSize))
})

// EncodeFrame appends a frame holding payload to dst.
func EncodeFrame(dst, payload []byte, opt FrameOptions) ([]byte, error) {
	var flags byte
	if opt.Compress {
		flags |= frameZstd
	}

	var hdr [frameHeaderSize]byte
	copy(hdr[:4], frameMagic)
	flatbuffers.WriteUint8(hdr[4:], flags)
	flatbuffers.WriteUint32(hdr[5:], uint32(len(payload)))
	flatbuffers.WriteUint64(hdr[9:], xxhash.Sum64(payload))
	dst = append(dst, hdr[:]...)

	if !opt.Compress {
		return append(dst, payload...), nil
	}

	level := opt.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, xerrors.Errorf("provider: zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(payload, dst), nil
}

// DecodeFrame unwraps a frame into memory obtained from mem and verifies its
// checksum. On error nothing stays allocated.
func DecodeFrame(mem memory.Allocator, data []byte) ([]byte, error) {
	if len(data) < frameHeaderSize {
		return nil, dataErrf(data, len(data), ErrFrameLength, "truncated frame header")
	}
	if string(data[:4]) != frameMagic {
		return nil, dataErrf(data, 0, ErrFrameMagic, "bad magic")
	}
	flags := flatbuffers.GetUint8(data[4:])
	rawLen := int(flatbuffers.GetUint32(data[5:]))
	sum := flatbuffers.GetUint64(data[9:])
	body := data[frameHeaderSize:]

	if flags&frameZstd == 0 && len(body) != rawLen {
		return nil, dataErrf(data, frameHeaderSize, ErrFrameLength, "body is %d bytes, header says %d", len(body), rawLen)
	}
	if rawLen > maxBufferSize {
		return nil, dataErrf(data, 5, ErrFrameLength, "raw length %d exceeds %d", rawLen, maxBufferSize)
	}

	var out []byte
	if flags&frameZstd == 0 {
		out = mem.Allocate(rawLen)
		copy(out, body)
	} else {
		var err error
		if out, err = inflate(mem, data, body, rawLen); err != nil {
			return nil, err
		}
	}

	if xxhash.Sum64(out) != sum {
		mem.Free(out)
		return nil, dataErrf(data, 9, ErrFrameChecksum, "checksum")
	}
	return out, nil
}

// inflate decompresses a zstd body into memory from mem. rawLen comes from
// the frame header and is only trusted once the zstd frame header agrees.
func inflate(mem memory.Allocator, data, body []byte, rawLen int) ([]byte, error) {
	var zh zstd.Header
	if err := zh.Decode(body); err != nil {
		return nil, dataErrf(data, frameHeaderSize, err, "zstd header")
	}
	if zh.HasFCS && zh.FrameContentSize != uint64(rawLen) {
		return nil, dataErrf(data, frameHeaderSize, ErrFrameLength, "zstd frame holds %d bytes, header says %d", zh.FrameContentSize, rawLen)
	}

	dec, err := decoder()
	if err != nil {
		return nil, xerrors.Errorf("provider: zstd decoder: %w", err)
	}

	if !zh.HasFCS {
		// 没有 content size ：先解到临时内存，长度核对无误后再拷进 mem 。
		got, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, dataErrf(data, frameHeaderSize, err, "zstd body")
		}
		if len(got) != rawLen {
			return nil, dataErrf(data, frameHeaderSize, ErrFrameLength, "inflated to %d bytes, header says %d", len(got), rawLen)
		}
		return memory.Clone(mem, got), nil
	}

	out := mem.Allocate(rawLen)
	got, err := dec.DecodeAll(body, out[:0])
	if err != nil {
		mem.Free(out)
		return nil, dataErrf(data, frameHeaderSize, err, "zstd body")
	}
	if len(got) != rawLen {
		mem.Free(out)
		return nil, dataErrf(data, frameHeaderSize, ErrFrameLength, "inflated to %d bytes, header says %d", len(got), rawLen)
	}
	return out, nil
}
