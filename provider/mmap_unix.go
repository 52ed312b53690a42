//go:build unix

package provider

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

func mmapFile(f *os.File, size int, opt Options) ([]byte, func() error, error) {
	prot := unix.PROT_READ
	flags := unix.MAP_SHARED
	if opt.Mutable {
		prot |= unix.PROT_WRITE
		flags = unix.MAP_PRIVATE
	}

	b, err := unix.Mmap(int(f.Fd()), 0, size, prot, flags)
	if err != nil {
		return nil, nil, xerrors.Errorf("provider: mmap %s: %w", f.Name(), err)
	}

	// 访问模式是按偏移随机跳转的，关闭预读。
	err = unix.Madvise(b, unix.MADV_RANDOM)
	if err != nil && err != unix.ENOSYS {
		_ = unix.Munmap(b)
		return nil, nil, xerrors.Errorf("provider: madvise(MADV_RANDOM): %w", err)
	}

	return b, func() error { return unix.Munmap(b) }, nil
}
