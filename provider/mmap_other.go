//go:build !unix

package provider

import (
	"os"
)

func mmapFile(f *os.File, size int, opt Options) ([]byte, func() error, error) {
	data, err := readFile(f.Name(), opt)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { opt.Allocator.Free(data); return nil }, nil
}
