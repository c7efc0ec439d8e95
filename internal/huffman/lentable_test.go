package huffman

import (
	"testing"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// bitWriter packs MSB-first bits into bytes, matching BitReader's layout.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbits uint
}

func (w *bitWriter) writeBits(v uint32, k int) {
	for i := k - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = (w.cur << 1) | bit
		w.nbits++
		if w.nbits == 8 {
			w.bytes = append(w.bytes, w.cur)
			w.cur = 0
			w.nbits = 0
		}
	}
}

func (w *bitWriter) finish() []byte {
	if w.nbits > 0 {
		w.cur <<= (8 - w.nbits)
		w.bytes = append(w.bytes, w.cur)
		w.nbits = 0
	}
	return w.bytes
}

func TestLenTableBuildAndDecode(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(3, 32) // count
	w.writeBits(8, 8)  // bitsPerLen
	// symIdx (2 bits), length (8 bits) per entry
	w.writeBits(0, 2)
	w.writeBits(1, 8)
	w.writeBits(1, 2)
	w.writeBits(2, 8)
	w.writeBits(2, 2)
	w.writeBits(2, 8)
	// codes to decode: sym0="0", sym1="10", sym2="11"
	w.writeBits(0, 1)
	w.writeBits(0b10, 2)
	w.writeBits(0b11, 2)
	buf := w.finish()

	s := bitio.NewMemStream(buf)
	br := bitio.NewBitReader(bitio.NewStreamCursor(s))

	var lt LenTable
	if err := lt.Read(br); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := lt.GetMaxLen(); got != 2 {
		t.Fatalf("GetMaxLen() = %d, want 2", got)
	}

	wantSyms := []uint32{0, 1, 2}
	wantLens := []int{1, 2, 2}
	for i, want := range wantSyms {
		length, sym, err := lt.Decode(br)
		if err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if sym != want || length != wantLens[i] {
			t.Fatalf("Decode %d = (len=%d,sym=%d), want (len=%d,sym=%d)", i, length, sym, wantLens[i], want)
		}
	}
}

func TestLenTableSingleSymbol(t *testing.T) {
	w := &bitWriter{}
	w.writeBits(1, 32)
	w.writeBits(8, 8)
	w.writeBits(0, 1) // idxBits = BitLength(1) = 1
	w.writeBits(5, 8) // length, unused
	buf := w.finish()

	s := bitio.NewMemStream(buf)
	br := bitio.NewBitReader(bitio.NewStreamCursor(s))
	var lt LenTable
	if err := lt.Read(br); err != nil {
		t.Fatalf("Read: %v", err)
	}
	_, sym, err := lt.Decode(br)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sym != 0 {
		t.Fatalf("sym = %d, want 0", sym)
	}
}
