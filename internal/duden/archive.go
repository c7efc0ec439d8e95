package duden

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"

	"github.com/dicebound/lsd2dsl/internal/bitio"
	"github.com/dicebound/lsd2dsl/internal/duden/inflate"
)

// BlockCache is a bounded, shared admission cache for decoded BOF blocks.
// original_source's Archive keeps a single-entry _lastBlock cache per
// archive; a conversion run here opens a primary archive plus one
// resource archive per referenced picture/sound/table file (see LdFile's
// ranges), so a single entry per Archive thrashes constantly when articles
// interleave references across files. BlockCache generalizes that to one
// W-TinyLFU cache shared across every Archive opened during a run, keyed
// by archive identity plus block index.
type BlockCache struct {
	c *tinylfu.T
}

// NewBlockCache builds a shared cache sized for approximately size decoded
// blocks (each up to inflate.MaxBlockSize bytes).
func NewBlockCache(size int) *BlockCache {
	return &BlockCache{c: tinylfu.New(size, size*10)}
}

func blockCacheKey(archiveID string, block int) string {
	h := xxhash.New()
	h.WriteString(archiveID)
	h.WriteString(":")
	h.WriteString(strconv.Itoa(block))
	return strconv.FormatUint(h.Sum64(), 36)
}

// Archive is a Duden BOF/IDX pair: an index of block offsets over a
// compressed byte stream, decompressed on demand a block at a time and
// addressed as one flat, seekable plaintext space. Grounded on
// original_source/lib/duden/Archive.h/.cpp.
type Archive struct {
	id       string
	bof      bitio.Stream
	index    []uint32 // block i occupies bof[index[i]:index[i+1]) compressed
	decoded  int64    // total plaintext size, the popped last index entry
	cache    *BlockCache
	lastIdx  int
	lastData []byte
}

// OpenArchive builds an Archive over bof (the compressed block stream) and
// idx (the raw little-endian uint32 index stream, including its trailing
// decoded-size sentinel). id identifies this archive for cache keys and
// should be stable across the conversion run (e.g. its file path).
func OpenArchive(id string, bof bitio.Stream, idx bitio.Stream, cache *BlockCache) (*Archive, error) {
	raw, err := bitio.ReadAll(idx)
	if err != nil {
		return nil, fmt.Errorf("duden: read archive index: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("duden: archive index size %d not a multiple of 4", len(raw))
	}
	index := make([]uint32, len(raw)/4)
	for i := range index {
		index[i] = le32(raw[i*4:])
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("duden: empty archive index")
	}
	decoded := index[len(index)-1]
	index = index[:len(index)-1]
	return &Archive{
		id:      id,
		bof:     bof,
		index:   index,
		decoded: int64(decoded),
		cache:   cache,
		lastIdx: -1,
	}, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Size returns the total decoded (plaintext) size of the archive.
func (a *Archive) Size() int64 { return a.decoded }

func (a *Archive) readBlock(block int) ([]byte, error) {
	if block == a.lastIdx {
		return a.lastData, nil
	}
	if a.cache != nil {
		if v, ok := a.cache.c.Get(blockCacheKey(a.id, block)); ok {
			data := v.([]byte)
			a.lastIdx, a.lastData = block, data
			return data, nil
		}
	}
	if block+1 >= len(a.index) {
		return nil, fmt.Errorf("duden: block %d out of range (have %d)", block, len(a.index)-1)
	}
	start, end := a.index[block], a.index[block+1]
	if end < start {
		return nil, fmt.Errorf("duden: archive block %d has negative size", block)
	}
	raw := make([]byte, end-start)
	if _, err := a.bof.ReadAt(raw, int64(start)); err != nil {
		return nil, fmt.Errorf("duden: read bof block %d: %w", block, err)
	}
	outSize := inflate.MaxBlockSize
	if rem := a.decoded - int64(block)*inflate.MaxBlockSize; rem < int64(outSize) {
		outSize = int(rem)
	}
	data, err := inflate.DecodeBofBlock(raw, outSize)
	if err != nil {
		return nil, fmt.Errorf("duden: decode bof block %d: %w", block, err)
	}
	if a.cache != nil {
		a.cache.c.Add(blockCacheKey(a.id, block), data)
	}
	a.lastIdx, a.lastData = block, data
	return data, nil
}

// Read fills out with size bytes of decoded plaintext starting at
// plainOffset, walking as many consecutive 8KB blocks as needed.
// Mirrors Archive::read.
func (a *Archive) Read(plainOffset int64, size int) ([]byte, error) {
	if plainOffset >= a.decoded {
		return nil, fmt.Errorf("duden: read offset %d past archive size %d", plainOffset, a.decoded)
	}
	out := make([]byte, 0, size)
	for len(out) < size {
		block := int(plainOffset / inflate.MaxBlockSize)
		offset := int(plainOffset % inflate.MaxBlockSize)
		data, err := a.readBlock(block)
		if err != nil {
			return out, err
		}
		if offset >= len(data) {
			break
		}
		n := size - len(out)
		if avail := len(data) - offset; n > avail {
			n = avail
		}
		out = append(out, data[offset:offset+n]...)
		plainOffset += int64(n)
	}
	return out, nil
}
