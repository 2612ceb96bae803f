// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"fmt"

	"github.com/spvbridge/spvd/bloom"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/peer"
)

// verifyMerkleBlock reconstructs the partial Merkle tree carried by ev's
// header and checks that the transactions the session actually delivered
// are exactly the set the tree claims to match, protecting against a peer
// that announces a match count it does not honestly deliver on.
func verifyMerkleBlock(ev *peer.MerkleBlockEvent) ([]*chainhash.Hash, error) {
	matched, err := bloom.ExtractMatches(ev.Header)
	if err != nil {
		return nil, err
	}

	want := make(map[chainhash.Hash]struct{}, len(matched))
	for _, h := range matched {
		want[*h] = struct{}{}
	}

	got := make(map[chainhash.Hash]struct{}, len(ev.Matched))
	for _, tx := range ev.Matched {
		got[tx.TxHash()] = struct{}{}
	}

	if len(want) != len(got) {
		return nil, fmt.Errorf("matched transaction count mismatch: tree claims %d, delivered %d",
			len(want), len(got))
	}
	for h := range want {
		if _, ok := got[h]; !ok {
			return nil, fmt.Errorf("transaction %s claimed by tree was never delivered", h)
		}
	}

	return matched, nil
}
