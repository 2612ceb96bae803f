// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"errors"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// ErrMalformedTree is returned when a merkleblock message's hash and flag
// lists cannot describe a valid partial merkle tree over its declared
// transaction count: too few or too many hashes consumed, or leftover
// flags after the traversal completes.
var ErrMalformedTree = errors.New("bloom: malformed partial merkle tree")

// ErrUnexpectedRoot is returned when a reconstructed partial merkle tree's
// root does not match the block header's MerkleRoot. Receiving this from a
// peer is a RuleError-equivalent reason to disconnect: the peer sent a
// filtered block whose proof does not correspond to its own claimed header.
var ErrUnexpectedRoot = errors.New("bloom: reconstructed merkle root does not match header")

// ExtractMatches verifies mb's partial merkle tree against its own header
// and returns the transaction ids it proves are included in the block, in
// the order they appear in the block. The download coordinator calls this
// on every merkleblock it receives before treating any of the ids as
// confirmed.
func ExtractMatches(mb *wire.MsgMerkleBlock) ([]*chainhash.Hash, error) {
	if mb.Transactions == 0 {
		return nil, nil
	}
	if len(mb.Hashes) > int(mb.Transactions) {
		return nil, ErrMalformedTree
	}

	maxBits := 0
	for h := uint(0); h <= treeDepth(int(mb.Transactions)); h++ {
		maxBits += treeWidth(int(mb.Transactions), h)
	}
	if len(mb.Flags) > (maxBits+7)/8 {
		return nil, ErrMalformedTree
	}

	r := &treeReader{
		hashes: mb.Hashes,
		flags:  mb.Flags,
	}

	height := treeDepth(int(mb.Transactions))
	root, err := r.extract(height, 0, int(mb.Transactions))
	if err != nil {
		return nil, err
	}

	if r.hashIdx != len(r.hashes) {
		return nil, ErrMalformedTree
	}
	if !allFlagBitsConsumed(r.flags, r.bitIdx) {
		return nil, ErrMalformedTree
	}

	if !root.IsEqual(&mb.Header.MerkleRoot) {
		return nil, ErrUnexpectedRoot
	}

	return r.matches, nil
}

// treeReader performs the inverse depth-first traversal of treeBuilder:
// consuming one flag bit and, when set on an interior node, recursing
// into both children before any hash is consumed for that subtree.
type treeReader struct {
	hashes  []*chainhash.Hash
	flags   []byte
	bitIdx  int
	hashIdx int
	matches []*chainhash.Hash
}

func (r *treeReader) extract(height uint, pos, numTx int) (*chainhash.Hash, error) {
	bit, err := r.readBit()
	if err != nil {
		return nil, err
	}

	if height == 0 || !bit {
		hash, err := r.readHash()
		if err != nil {
			return nil, err
		}
		if height == 0 && bit {
			r.matches = append(r.matches, hash)
		}
		return hash, nil
	}

	left, err := r.extract(height-1, pos*2, numTx)
	if err != nil {
		return nil, err
	}

	right := left
	if pos*2+1 < treeWidth(numTx, height-1) {
		right, err = r.extract(height-1, pos*2+1, numTx)
		if err != nil {
			return nil, err
		}
	}

	combined := make([]byte, 0, chainhash.HashSize*2)
	combined = append(combined, left[:]...)
	combined = append(combined, right[:]...)
	h := chainhash.DoubleHashH(combined)
	return &h, nil
}

func (r *treeReader) readBit() (bool, error) {
	if r.bitIdx/8 >= len(r.flags) {
		return false, ErrMalformedTree
	}
	bit := r.flags[r.bitIdx/8]&(1<<(uint(r.bitIdx)%8)) != 0
	r.bitIdx++
	return bit, nil
}

func (r *treeReader) readHash() (*chainhash.Hash, error) {
	if r.hashIdx >= len(r.hashes) {
		return nil, ErrMalformedTree
	}
	h := r.hashes[r.hashIdx]
	r.hashIdx++
	return h, nil
}

// allFlagBitsConsumed reports whether every remaining bit past consumed in
// flags is zero padding, the shape a correctly-encoded merkleblock leaves
// behind once its true traversal bits are exhausted.
func allFlagBitsConsumed(flags []byte, consumed int) bool {
	for i := consumed; i < len(flags)*8; i++ {
		if flags[i/8]&(1<<(uint(i)%8)) != 0 {
			return false
		}
	}
	return true
}
