// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/storage"
	"github.com/spvbridge/spvd/wire"
)

func testBlock(height int32, work int64) *storage.StoredBlock {
	return &storage.StoredBlock{
		Header: wire.BlockHeader{
			Version:    1,
			PrevBlock:  chainhash.Hash{byte(height)},
			MerkleRoot: chainhash.Hash{byte(height + 1)},
			Timestamp:  time.Unix(1600000000+int64(height)*600, 0),
			Bits:       0x1d00ffff,
			Nonce:      uint32(height),
		},
		Height:         height,
		CumulativeWork: big.NewInt(work),
	}
}

func loadHeights(t *testing.T, s *Store) []int32 {
	t.Helper()
	iter, err := s.LoadChain()
	require.NoError(t, err)

	var heights []int32
	for iter.Next() {
		b, err := iter.Block()
		require.NoError(t, err)
		heights = append(heights, b.Height)
	}
	return heights
}

func TestPersistAndLoadChain(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	for h := int32(0); h < 5; h++ {
		require.NoError(t, s.PersistBlock(testBlock(h, int64(h)+1)))
	}

	require.Equal(t, []int32{0, 1, 2, 3, 4}, loadHeights(t, s))
}

func TestDeleteBlockRemovesHeightIndex(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	b := testBlock(7, 42)
	require.NoError(t, s.PersistBlock(b))
	require.NoError(t, s.DeleteBlock(b.BlockID()))

	require.Empty(t, loadHeights(t, s))
}

func TestDeleteUnknownBlockIsNoop(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	var id chainhash.Hash
	require.NoError(t, s.DeleteBlock(id))
}

func TestPersistPartialMerkleTree(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	h1 := chainhash.Hash{0x01}
	h2 := chainhash.Hash{0x02}
	mb := &wire.MsgMerkleBlock{
		Header:       testBlock(1, 1).Header,
		Transactions: 2,
		Hashes:       []*chainhash.Hash{&h1, &h2},
		Flags:        []byte{0x00},
	}

	id := mb.Header.BlockHash()
	require.NoError(t, s.PersistPartialMerkleTree(id, mb))
}

func TestTransactionAtomicity(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	tx, err := s.Transaction()
	require.NoError(t, err)

	require.NoError(t, tx.PersistBlock(testBlock(0, 1)))
	require.NoError(t, tx.PersistBlock(testBlock(1, 2)))
	require.NoError(t, tx.Commit())

	require.Equal(t, []int32{0, 1}, loadHeights(t, s))
}

func TestTransactionRollbackDiscardsWrites(t *testing.T) {
	s, err := OpenMem()
	require.NoError(t, err)
	defer s.Close()

	tx, err := s.Transaction()
	require.NoError(t, err)
	require.NoError(t, tx.PersistBlock(testBlock(0, 1)))
	require.NoError(t, tx.Rollback())

	require.Empty(t, loadHeights(t, s))
}
