// Package provider delivers encoded buffers to the flatbuffers accessors.
//
// A Provider turns a name into a Handle: the bytes are loaded from memory, a
// file, a memory mapping or a bbolt bucket, optionally unwrapped from a
// checksummed (and possibly zstd compressed) frame, passed through an
// optional Verifier and finally wrapped in a flatbuffers.Buffer. The Handle
// owns whatever backs the bytes and releases it on Close; views obtained from
// it must not be used afterwards.
package provider

import (
	"context"
	"log/slog"

	"golang.org/x/xerrors"

	"github.com/blastbao/gomem/flatbuffers"
	"github.com/blastbao/gomem/memory"
)

var (
	ErrNotFound   = xerrors.New("provider: buffer not found")
	ErrClosed     = xerrors.New("provider: handle is closed")
	ErrIdentifier = xerrors.New("provider: file identifier mismatch")
	ErrTooLarge   = xerrors.New("provider: buffer exceeds 32-bit offsets")
)

// Provider opens named buffers.
type Provider interface {
	Open(ctx context.Context, name string) (*Handle, error)
}

// Options control how a provider turns raw bytes into a trusted buffer.
type Options struct {
	// Logger receives debug records for every open and close. Defaults to
	// slog.Default().
	Logger *slog.Logger
	// Allocator backs buffers that the provider has to copy. Defaults to
	// memory.DefaultAllocator.
	Allocator memory.Allocator
	// Verifier, if set, must accept the bytes before they are trusted.
	Verifier flatbuffers.Verifier
	// Mutable hands out private, writable bytes so that setters can be used.
	Mutable bool
	// Framed means the stored bytes are wrapped by EncodeFrame.
	Framed bool
	// SizePrefixed means the buffer starts with a 4-byte size prefix.
	SizePrefixed bool
	// Identifier, if set, must match the buffer's file identifier.
	Identifier string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	return o
}

// Handle is an opened buffer. It is not safe to Close concurrently with use.
type Handle struct {
	name         string
	buf          flatbuffers.Buffer
	sizePrefixed bool
	release      func() error
	logger       *slog.Logger
	closed       bool
}

// Name returns the name the handle was opened with.
func (h *Handle) Name() string { return h.name }

// Buffer returns the trusted buffer.
func (h *Handle) Buffer() flatbuffers.Buffer { return h.buf }

// Root returns the buffer's root table.
func (h *Handle) Root() flatbuffers.Table {
	if h.sizePrefixed {
		return flatbuffers.GetSizePrefixedRoot(h.buf)
	}
	return flatbuffers.GetRoot(h.buf)
}

// Close releases the memory or mapping behind the buffer. Closing twice
// returns ErrClosed.
func (h *Handle) Close() error {
	if h.closed {
		return ErrClosed
	}
	h.closed = true
	h.logger.Debug("provider: closed", slog.String("name", h.name))
	if h.release == nil {
		return nil
	}
	if err := h.release(); err != nil {
		return xerrors.Errorf("provider: release %s: %w", h.name, err)
	}
	return nil
}

// minBuffer is the smallest region that can hold a root offset.
func (o Options) minBuffer() int {
	if o.SizePrefixed {
		return flatbuffers.SizeUint32 + flatbuffers.SizeUOffsetT
	}
	return flatbuffers.SizeUOffsetT
}

// open finishes a load: it unwraps frames, checks the identifier, runs the
// verifier and trusts the bytes. release frees data and is called on error.
// owned reports whether data is private to this handle.
func (o Options) open(ctx context.Context, source, name string, data []byte, owned bool, release func() error) (h *Handle, err error) {
	defer func() {
		if err != nil && release != nil {
			_ = release()
		}
	}()

	if o.Framed {
		payload, err := DecodeFrame(o.Allocator, data)
		if err != nil {
			return nil, xerrors.Errorf("provider: %s %s: %w", source, name, err)
		}
		if release != nil {
			if err := release(); err != nil {
				o.Allocator.Free(payload)
				release = nil
				return nil, xerrors.Errorf("provider: release %s: %w", name, err)
			}
		}
		data, owned = payload, true
		release = func() error { o.Allocator.Free(payload); return nil }
	}

	if o.Mutable && !owned {
		cp := memory.Clone(o.Allocator, data)
		if release != nil {
			if err := release(); err != nil {
				o.Allocator.Free(cp)
				release = nil
				return nil, xerrors.Errorf("provider: release %s: %w", name, err)
			}
		}
		data = cp
		release = func() error { o.Allocator.Free(cp); return nil }
	}

	if len(data) < o.minBuffer() {
		return nil, dataErrf(data, 0, nil, "buffer too short for a root offset")
	}

	var buf flatbuffers.Buffer
	switch {
	case o.Verifier != nil:
		buf, err = flatbuffers.TrustVerified(data, o.Verifier)
		if err != nil {
			return nil, xerrors.Errorf("provider: %s %s: %w", source, name, err)
		}
		if o.Mutable {
			buf = flatbuffers.TrustMutable(data)
		}
	case o.Mutable:
		buf = flatbuffers.TrustMutable(data)
	default:
		buf = flatbuffers.Trust(data)
	}

	if o.Identifier != "" {
		ok := flatbuffers.BufferHasIdentifier(buf, o.Identifier)
		if o.SizePrefixed {
			ok = flatbuffers.SizePrefixedBufferHasIdentifier(buf, o.Identifier)
		}
		if !ok {
			return nil, xerrors.Errorf("provider: %s %s: want %q: %w", source, name, o.Identifier, ErrIdentifier)
		}
	}

	o.Logger.LogAttrs(ctx, slog.LevelDebug, "provider: opened",
		slog.String("source", source),
		slog.String("name", name),
		slog.Int("size", len(data)),
		slog.Bool("mutable", o.Mutable),
		slog.Bool("framed", o.Framed))

	return &Handle{
		name:         name,
		buf:          buf,
		sizePrefixed: o.SizePrefixed,
		release:      release,
		logger:       o.Logger,
	}, nil
}
