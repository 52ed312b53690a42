package provider

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// File reads buffers from files under a root directory into aligned memory.
type File struct {
	root string
	opt  Options
}

// NewFile returns a provider that resolves names relative to root. An empty
// root resolves names as given.
func NewFile(root string, opt Options) *File {
	return &File{root: root, opt: opt.withDefaults()}
}

func (p *File) path(name string) string {
	if p.root == "" {
		return name
	}
	return filepath.Join(p.root, filepath.FromSlash(name))
}

// Open implements Provider.
func (p *File) Open(ctx context.Context, name string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(p.path(name), p.opt)
	if err != nil {
		return nil, err
	}
	mem := p.opt.Allocator
	return p.opt.open(ctx, "file", name, data, true, func() error {
		mem.Free(data)
		return nil
	})
}

func readFile(path string, opt Options) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, xerrors.Errorf("provider: file %s: %w", path, ErrNotFound)
	} else if err != nil {
		return nil, xerrors.Errorf("provider: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, xerrors.Errorf("provider: %w", err)
	}
	if st.Size() > maxBufferSize {
		return nil, xerrors.Errorf("provider: file %s is %d bytes: %w", path, st.Size(), ErrTooLarge)
	}

	data := opt.Allocator.Allocate(int(st.Size()))
	if _, err := io.ReadFull(f, data); err != nil {
		opt.Allocator.Free(data)
		return nil, xerrors.Errorf("provider: read %s: %w", path, err)
	}
	return data, nil
}

var _ Provider = (*File)(nil)
