//go:build unix

package bitio

import (
	"os"

	"golang.org/x/sys/unix"
)

func tryMmap(f *os.File, size int64) ([]byte, bool) {
	if size <= 0 {
		return nil, false
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false
	}
	return data, true
}

func unmap(data []byte) {
	unix.Munmap(data)
}
