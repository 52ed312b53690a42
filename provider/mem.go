package provider

import (
	"context"
	"sync"

	"golang.org/x/xerrors"
)

// Mem serves buffers held in memory, for example payloads received over the
// network. Read-only handles share the stored bytes.
type Mem struct {
	opt   Options
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMem returns an empty Mem provider.
func NewMem(opt Options) *Mem {
	return &Mem{opt: opt.withDefaults(), blobs: make(map[string][]byte)}
}

// Put stores data under name. The provider keeps a reference to data; the
// caller must not modify it afterwards.
func (p *Mem) Put(name string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blobs[name] = data
}

// Open implements Provider.
func (p *Mem) Open(ctx context.Context, name string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	data, ok := p.blobs[name]
	p.mu.RUnlock()
	if !ok {
		return nil, xerrors.Errorf("provider: mem %s: %w", name, ErrNotFound)
	}
	return p.opt.open(ctx, "mem", name, data, false, nil)
}

var _ Provider = (*Mem)(nil)
