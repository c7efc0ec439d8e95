// Package huffman builds and decodes the canonical Huffman length table
// used throughout the LSD format: a flat array of (symbol-index,
// code-length) pairs from which a binary tree is built by depth-first
// placement, one symbol per call, left child before right.
package huffman

import (
	"fmt"

	"github.com/dicebound/lsd2dsl/internal/bitio"
)

// node mirrors original_source's HuffmanNode: left/right are 0 for
// "unallocated", a positive n for "child is nodes[n-1]", or a negative n
// for "child is the leaf holding symbol index -1-n".
type node struct {
	left, right int32
	parent      int32
}

// LenTable is a canonical Huffman tree built from (symbol_index,
// code_length) pairs, per spec.md §4.2. The zero value is not usable;
// construct via Read.
type LenTable struct {
	nodes       []node
	symToNode   []int32
	nextNode    int
	singleSymIn bool // true when the table has exactly one entry (no tree)
	singleSym   uint32
}

// Read consumes a length table from br: count (u32), bits-per-length (u8),
// then count entries of (symbol_index, length): the index is
// BitLength(count) bits wide and the length bits-per-length bits wide, per
// spec.md §4.2.
func (t *LenTable) Read(br *bitio.BitReader) error {
	countU, err := br.ReadBits(32)
	if err != nil {
		return fmt.Errorf("huffman: read count: %w", err)
	}
	count := int(countU)
	if count <= 0 {
		return fmt.Errorf("huffman: non-positive symbol count %d", count)
	}
	bitsPerLenU, err := br.ReadBits(8)
	if err != nil {
		return fmt.Errorf("huffman: read bits-per-length: %w", err)
	}
	bitsPerLen := int(bitsPerLenU)
	idxBits := bitio.BitLength(count)

	if count == 1 {
		symIdx, err := br.ReadBits(idxBits)
		if err != nil {
			return fmt.Errorf("huffman: read single symbol index: %w", err)
		}
		if _, err := br.ReadBits(bitsPerLen); err != nil { // length is present but unused
			return fmt.Errorf("huffman: read single symbol length: %w", err)
		}
		t.singleSymIn = true
		t.singleSym = symIdx
		return nil
	}

	t.symToNode = make([]int32, count)
	for i := range t.symToNode {
		t.symToNode[i] = -1
	}
	t.nodes = make([]node, count-1)
	rootIdx := len(t.nodes) - 1
	t.nodes[rootIdx] = node{0, 0, -1}
	t.nextNode = 0

	for i := 0; i < count; i++ {
		symIdx, err := br.ReadBits(idxBits)
		if err != nil {
			return fmt.Errorf("huffman: read symbol index %d/%d: %w", i, count, err)
		}
		length, err := br.ReadBits(bitsPerLen)
		if err != nil {
			return fmt.Errorf("huffman: read length %d/%d: %w", i, count, err)
		}
		if length == 0 {
			return fmt.Errorf("huffman: zero-length code for symbol %d", symIdx)
		}
		t.placeSymIdx(int(symIdx), rootIdx, int(length))
	}
	return nil
}

// placeSymIdx walks to the first free leaf slot at the given depth,
// allocating internal nodes as needed, left before right — exactly
// original_source/lib/lingvo/LenTable.cpp's placeSymidx.
func (t *LenTable) placeSymIdx(symIdx, nodeIdx, length int) bool {
	if length == 1 {
		n := &t.nodes[nodeIdx]
		if n.left == 0 {
			n.left = int32(-1 - symIdx)
			t.symToNode[symIdx] = int32(nodeIdx)
			return true
		}
		if n.right == 0 {
			n.right = int32(-1 - symIdx)
			t.symToNode[symIdx] = int32(nodeIdx)
			return true
		}
		return false
	}
	n := &t.nodes[nodeIdx]
	if n.left == 0 {
		t.nextNode++
		t.nodes[t.nextNode-1] = node{0, 0, int32(nodeIdx)}
		n.left = int32(t.nextNode)
	}
	if n.left > 0 {
		if t.placeSymIdx(symIdx, int(n.left)-1, length-1) {
			return true
		}
	}
	n = &t.nodes[nodeIdx]
	if n.right == 0 {
		t.nextNode++
		t.nodes[t.nextNode-1] = node{0, 0, int32(nodeIdx)}
		n.right = int32(t.nextNode)
	}
	if n.right > 0 {
		if t.placeSymIdx(symIdx, int(n.right)-1, length-1) {
			return true
		}
	}
	return false
}

// Decode walks the tree bit by bit (0=left, 1=right) until a leaf is
// reached, returning the code length consumed and the decoded symbol
// index.
func (t *LenTable) Decode(br *bitio.BitReader) (length int, symIdx uint32, err error) {
	if t.singleSymIn {
		return 0, t.singleSym, nil
	}
	if len(t.nodes) == 0 {
		return 0, 0, fmt.Errorf("huffman: Decode called on empty table")
	}
	nodeIdx := len(t.nodes) - 1
	for {
		length++
		bit, err := br.ReadBit()
		if err != nil {
			return 0, 0, fmt.Errorf("huffman: decode: %w", err)
		}
		n := &t.nodes[nodeIdx]
		var child int32
		if bit != 0 {
			child = n.right
		} else {
			child = n.left
		}
		if child < 0 {
			return length, uint32(-1 - child), nil
		}
		if child == 0 {
			return 0, 0, fmt.Errorf("huffman: decode: unplaced code at node %d", nodeIdx)
		}
		nodeIdx = int(child) - 1
	}
}

// GetMaxLen returns the length of the longest code in the table, by
// walking each symbol's node up to the root.
func (t *LenTable) GetMaxLen() int {
	if t.singleSymIn {
		return 0
	}
	maxLen := 0
	for _, nodeIdx := range t.symToNode {
		if nodeIdx < 0 {
			continue
		}
		length := 1
		parent := t.nodes[nodeIdx].parent
		for parent != -1 {
			length++
			parent = t.nodes[parent].parent
		}
		if length > maxLen {
			maxLen = length
		}
	}
	return maxLen
}
