// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"testing"
	"time"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/stretchr/testify/require"
)

func TestRequestTrackerExpiry(t *testing.T) {
	tr := newRequestTracker()
	hash := chainhash.Hash{0x01}

	tr.Add(hash, time.Now().Add(-time.Second))
	require.Equal(t, 1, tr.Len())

	expired := tr.Expired(time.Now())
	require.Len(t, expired, 1)
	require.Equal(t, hash, expired[0])
	require.Equal(t, 0, tr.Len())
}

func TestRequestTrackerFulfill(t *testing.T) {
	tr := newRequestTracker()
	hash := chainhash.Hash{0x02}

	tr.Add(hash, time.Now().Add(time.Minute))
	tr.Fulfill(hash)
	require.Equal(t, 0, tr.Len())
}

func TestMerkleBlockAccumulation(t *testing.T) {
	tr := newRequestTracker()
	blockHash := chainhash.Hash{0x03}

	tr.BeginMerkleBlock(blockHash, 2, time.Now().Add(time.Minute))

	tx1 := chainhash.Hash{0x10}
	gotHash, complete := tr.AddMatchedTx(tx1)
	require.Equal(t, blockHash, gotHash)
	require.False(t, complete)

	tx2 := chainhash.Hash{0x11}
	gotHash, complete = tr.AddMatchedTx(tx2)
	require.Equal(t, blockHash, gotHash)
	require.True(t, complete)

	// Once complete, the accumulation is cleared.
	gotHash, complete = tr.AddMatchedTx(chainhash.Hash{0x12})
	require.Equal(t, chainhash.Hash{}, gotHash)
	require.False(t, complete)
}

func TestMerkleBlockExpiry(t *testing.T) {
	tr := newRequestTracker()
	blockHash := chainhash.Hash{0x04}

	tr.BeginMerkleBlock(blockHash, 1, time.Now().Add(-time.Second))
	expired := tr.ExpiredMerkleBlocks(time.Now())
	require.Len(t, expired, 1)
	require.Equal(t, blockHash, expired[0])
}
