package provider

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"golang.org/x/xerrors"
)

// Mmap maps buffer files into memory instead of reading them. Read-only
// handles share pages with the page cache; Mutable handles get a private
// copy-on-write mapping, so setters never reach the file.
//
// On platforms without mmap support it reads the file like File.
type Mmap struct {
	File
}

// NewMmap returns a provider that maps files under root.
func NewMmap(root string, opt Options) *Mmap {
	return &Mmap{File: File{root: root, opt: opt.withDefaults()}}
}

// Open implements Provider.
func (p *Mmap) Open(ctx context.Context, name string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := p.path(name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, xerrors.Errorf("provider: mmap %s: %w", path, ErrNotFound)
	} else if err != nil {
		return nil, xerrors.Errorf("provider: %w", err)
	}
	// the mapping outlives the descriptor
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, xerrors.Errorf("provider: %w", err)
	}
	size := st.Size()
	if size > maxBufferSize {
		return nil, xerrors.Errorf("provider: mmap %s is %d bytes: %w", path, size, ErrTooLarge)
	}
	if size < int64(p.opt.minBuffer()) {
		return nil, dataErrf(nil, 0, nil, "mmap %s: %d bytes is too short for a root offset", path, size)
	}

	data, release, err := mmapFile(f, int(size), p.opt)
	if err != nil {
		return nil, err
	}
	return p.opt.open(ctx, "mmap", name, data, p.opt.Mutable, release)
}

var _ Provider = (*Mmap)(nil)
