// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/storage"
)

// NewFromSnapshot rebuilds a Store from a previously persisted chain
// rather than genesis, the fast path cmd/spvd takes on every restart after
// the first. Blocks loaded this way skip proof-of-work and retarget
// re-verification (§4.3's "headers older than the most recent checkpoint
// may skip full proof-of-work verification when loaded from a trusted
// snapshot"): iter's own storage engine is the trust anchor, not the
// network.
func NewFromSnapshot(params *chaincfg.Params, iter storage.BlockIterator) (*Store, error) {
	s := New(params)

	for iter.Next() {
		b, err := iter.Block()
		if err != nil {
			return nil, err
		}
		if b.Height == 0 {
			// New already seeded the genesis node from params; a
			// persisted height-0 record should describe the same
			// block, so there is nothing further to link in.
			continue
		}

		hash := b.Header.BlockHash()
		parent, ok := s.nodes[b.Header.PrevBlock]
		if !ok {
			return nil, fmt.Errorf("blockchain: snapshot block %s at height %d has unknown parent %s",
				hash, b.Height, b.Header.PrevBlock)
		}

		node := newChildBlockNode(&b.Header, parent)
		node.WorkSum = b.CumulativeWork

		s.nodes[hash] = node
		if node.WorkSum.Cmp(s.tip.WorkSum) > 0 {
			s.tip = node
		}
	}

	return s, nil
}
