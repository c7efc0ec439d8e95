package duden

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// readU8/readU16/readU32 are little-endian primitive reads over a
// ByteCursor, matching original_source/lib/common/BitStream.cpp's
// read8/read16/read32 free functions.
func readU8(c bitio.ByteCursor) (byte, error) {
	var b [1]byte
	if _, err := readFull(c, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readU16(c bitio.ByteCursor) (uint16, error) {
	var b [2]byte
	if _, err := readFull(c, b[:]); err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func readU32(c bitio.ByteCursor) (uint32, error) {
	var b [4]byte
	if _, err := readFull(c, b[:]); err != nil {
		return 0, err
	}
	return le32(b[:]), nil
}

func readFull(c bitio.ByteCursor, dst []byte) (int, error) {
	n, err := c.ReadSome(dst)
	if err != nil {
		return n, err
	}
	if n != len(dst) {
		return n, fmt.Errorf("duden: short read: got %d of %d bytes", n, len(dst))
	}
	return n, nil
}

// readLine reads bytes up to (and excluding) sep, or EOF, returning false
// (with whatever was read discarded by the caller) when nothing at all
// could be read. Mirrors readLine(stream, line, sep) from BitStream.cpp.
func readLine(c bitio.ByteCursor, sep byte) (string, bool) {
	var out []byte
	var b [1]byte
	for {
		n, err := c.ReadSome(b[:])
		if n == 0 || err != nil {
			if len(out) == 0 {
				return "", false
			}
			return string(out), true
		}
		if b[0] == sep {
			return string(out), true
		}
		out = append(out, b[0])
	}
}

// newCursor wraps a random-access Stream as a sequential ByteCursor.
func newCursor(s bitio.Stream) bitio.ByteCursor {
	return bitio.NewStreamCursor(s)
}

// peekU32 reads a uint32 without advancing the cursor.
func peekU32(c bitio.ByteCursor) (uint32, error) {
	pos := c.Tell()
	v, err := readU32(c)
	c.Seek(pos)
	return v, err
}
