//go:build !unix

package bitio

import "os"

func tryMmap(f *os.File, size int64) ([]byte, bool) { return nil, false }

func unmap(data []byte) {}
