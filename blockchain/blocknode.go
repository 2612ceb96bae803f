// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// BlockNode is the header-chain engine's in-memory representation of a
// single accepted header. It augments the wire header with the derived
// fields the append path and retarget rule need: parent linkage, height,
// and cumulative work. An SPV client never stores anything heavier than
// this for the bulk of the chain, which is what makes full-history header
// sync viable on constrained devices.
type BlockNode struct {
	Parent *BlockNode

	Hash       chainhash.Hash
	PrevHash   chainhash.Hash
	Height     int32
	Version    int32
	MerkleRoot chainhash.Hash
	Timestamp  int64
	Bits       uint32
	Nonce      uint32

	// WorkSum is the total work from genesis through this node,
	// inclusive, used to compare candidate tips during reorganization.
	WorkSum *big.Int
}

// newBlockNode builds the root node for a header with no recorded parent
// (the genesis header of a network).
func newBlockNode(h *wire.BlockHeader, height int32) *BlockNode {
	node := &BlockNode{
		Hash:       h.BlockHash(),
		PrevHash:   h.PrevBlock,
		Height:     height,
		Version:    h.Version,
		MerkleRoot: h.MerkleRoot,
		Timestamp:  h.Timestamp.Unix(),
		Bits:       h.Bits,
		Nonce:      h.Nonce,
	}
	node.WorkSum = CalcWork(h.Bits)
	return node
}

// newChildBlockNode builds the node for a header whose parent is already
// stored, chaining height and cumulative work from it.
func newChildBlockNode(h *wire.BlockHeader, parent *BlockNode) *BlockNode {
	node := newBlockNode(h, parent.Height+1)
	node.Parent = parent
	node.WorkSum = new(big.Int).Add(parent.WorkSum, node.WorkSum)
	return node
}

// Header reconstructs the wire-format header for this node.
func (n *BlockNode) Header() wire.BlockHeader {
	return wire.BlockHeader{
		Version:    n.Version,
		PrevBlock:  n.PrevHash,
		MerkleRoot: n.MerkleRoot,
		Timestamp:  time.Unix(n.Timestamp, 0),
		Bits:       n.Bits,
		Nonce:      n.Nonce,
	}
}

// medianTimePast returns the median timestamp of up to the eleven nodes
// ending at n, the window a new header's timestamp must exceed.
func (n *BlockNode) medianTimePast() int64 {
	timestamps := make([]int64, 0, 11)
	node := n
	for i := 0; i < 11 && node != nil; i++ {
		timestamps = append(timestamps, node.Timestamp)
		node = node.Parent
	}

	for i := 1; i < len(timestamps); i++ {
		for j := i; j > 0 && timestamps[j-1] > timestamps[j]; j-- {
			timestamps[j-1], timestamps[j] = timestamps[j], timestamps[j-1]
		}
	}

	return timestamps[len(timestamps)/2]
}

// ancestorAt walks parent links back to the node at the given height.
// height must not exceed n.Height.
func (n *BlockNode) ancestorAt(height int32) *BlockNode {
	node := n
	for node != nil && node.Height > height {
		node = node.Parent
	}
	return node
}
