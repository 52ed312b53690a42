package provider

import (
	"context"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"

	"github.com/blastbao/gomem/memory"
)

// Bolt stores buffers as values of a bbolt bucket, keyed by name.
//
// bbolt values are only valid inside their transaction, so Open copies the
// value into allocator memory owned by the Handle.
type Bolt struct {
	db     *bbolt.DB
	bucket []byte
	opt    Options
	owned  bool
}

// OpenBolt opens (creating if needed) the bbolt database at path.
func OpenBolt(path, bucket string, opt Options) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, xerrors.Errorf("provider: bolt %s: %w", path, err)
	}
	p := NewBolt(db, bucket, opt)
	p.owned = true
	return p, nil
}

// NewBolt uses an already open database. Close does not close db.
func NewBolt(db *bbolt.DB, bucket string, opt Options) *Bolt {
	return &Bolt{db: db, bucket: []byte(bucket), opt: opt.withDefaults()}
}

// Put stores data under name, replacing any previous value.
func (p *Bolt) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(p.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return xerrors.Errorf("provider: bolt put %s: %w", name, err)
	}
	return nil
}

// Delete removes name. Deleting a missing name is not an error.
func (p *Bolt) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		return xerrors.Errorf("provider: bolt delete %s: %w", name, err)
	}
	return nil
}

// List returns the stored names in key order.
func (p *Bolt) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var names []string
	err := p.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, xerrors.Errorf("provider: bolt list: %w", err)
	}
	return names, nil
}

// Open implements Provider.
func (p *Bolt) Open(ctx context.Context, name string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(p.bucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		data = memory.Clone(p.opt.Allocator, v)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("provider: bolt %s: %w", name, err)
	}
	mem := p.opt.Allocator
	return p.opt.open(ctx, "bolt", name, data, true, func() error {
		mem.Free(data)
		return nil
	})
}

// Close closes the database if OpenBolt opened it.
func (p *Bolt) Close() error {
	if !p.owned {
		return nil
	}
	return p.db.Close()
}

var _ Provider = (*Bolt)(nil)
