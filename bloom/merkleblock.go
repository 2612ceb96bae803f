// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// NewMerkleBlock builds a wire.MsgMerkleBlock proving the membership (or
// non-membership) of every transaction in block that filter matches. It
// returns the merkle block alongside the matched transactions themselves,
// which the caller relays to whichever local component registered
// interest in them. This runs on a full-node peer that holds complete
// blocks; the SPV client itself only ever consumes the result via
// ExtractMatches in reconstruct.go.
func NewMerkleBlock(block *wire.MsgBlock, filter *Filter) (*wire.MsgMerkleBlock, []*wire.MsgTx) {
	numTx := uint32(len(block.Transactions))
	mBlock := wire.NewMsgMerkleBlock(&block.Header)
	mBlock.Transactions = numTx

	var matchedIndices []uint32
	var matchedTxs []*wire.MsgTx
	allHashes := make([]*chainhash.Hash, numTx)

	for i, tx := range block.Transactions {
		hash := tx.TxHash()
		allHashes[i] = &hash
		if filter.MatchTxAndUpdate(tx) {
			matchedIndices = append(matchedIndices, uint32(i))
			matchedTxs = append(matchedTxs, tx)
		}
	}

	b := &treeBuilder{
		allHashes: allHashes,
		matched:   indexSet(matchedIndices, int(numTx)),
	}
	height := treeDepth(int(numTx))
	b.build(height, 0)

	mBlock.Hashes = b.hashes
	mBlock.Flags = packBits(b.bits)

	return mBlock, matchedTxs
}

// MerkleRoot computes the merkle root of hashes using the same pairwise
// double-SHA256 combination (duplicating an odd level's last hash) that
// NewMerkleBlock's partial tree encodes a proof against. A block producer
// uses this to populate BlockHeader.MerkleRoot from its transaction ids.
func MerkleRoot(hashes []*chainhash.Hash) *chainhash.Hash {
	if len(hashes) == 0 {
		h := chainhash.Hash{}
		return &h
	}
	b := &treeBuilder{allHashes: hashes}
	return b.nodeHash(treeDepth(len(hashes)), 0)
}

func indexSet(indices []uint32, n int) []bool {
	matched := make([]bool, n)
	for _, i := range indices {
		matched[i] = true
	}
	return matched
}

// treeDepth returns ceil(log2(n)), the height of the merkle tree over n
// leaves (0 for n <= 1).
func treeDepth(n int) uint {
	h := uint(0)
	for (1 << h) < n {
		h++
	}
	return h
}

// treeWidth returns the number of nodes at the given height of a tree over
// numTx leaves, per the standard partial-merkle-tree width formula.
func treeWidth(numTx int, height uint) int {
	return (numTx + (1 << height) - 1) >> height
}

// treeBuilder performs the depth-first traversal BIP 0037 specifies for
// encoding a partial merkle tree: at each node, emit one flag bit saying
// whether the subtree beneath it contains a match, then either recurse
// (interior node with a match below) or emit the node's hash and stop
// (leaf, or interior node with nothing of interest below).
type treeBuilder struct {
	allHashes []*chainhash.Hash
	matched   []bool
	bits      []bool
	hashes    []*chainhash.Hash
}

func (b *treeBuilder) build(height uint, pos int) {
	width := treeWidth(len(b.allHashes), height)
	anyMatch := b.subtreeHasMatch(height, pos, width)

	b.bits = append(b.bits, anyMatch)

	if height == 0 || !anyMatch {
		b.hashes = append(b.hashes, b.nodeHash(height, pos))
		return
	}

	b.build(height-1, pos*2)
	if pos*2+1 < treeWidth(len(b.allHashes), height-1) {
		b.build(height-1, pos*2+1)
	}
}

func (b *treeBuilder) subtreeHasMatch(height uint, pos, width int) bool {
	first := pos << height
	last := (pos + 1) << height
	if last > len(b.matched) {
		last = len(b.matched)
	}
	for i := first; i < last; i++ {
		if b.matched[i] {
			return true
		}
	}
	return false
}

// nodeHash computes the hash of the node at (height, pos), where height 0
// is the leaves. Interior nodes hash the concatenation of their two
// children, duplicating the left child when a level has an odd count, per
// the same rule MsgBlock's merkle root computation uses.
func (b *treeBuilder) nodeHash(height uint, pos int) *chainhash.Hash {
	if height == 0 {
		return b.allHashes[pos]
	}

	left := b.nodeHash(height-1, pos*2)
	width := treeWidth(len(b.allHashes), height-1)
	right := left
	if pos*2+1 < width {
		right = b.nodeHash(height-1, pos*2+1)
	}

	combined := make([]byte, 0, chainhash.HashSize*2)
	combined = append(combined, left[:]...)
	combined = append(combined, right[:]...)
	h := chainhash.DoubleHashH(combined)
	return &h
}

func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return out
}
