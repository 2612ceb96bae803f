// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom_test

import (
	"testing"

	"github.com/spvbridge/spvd/bloom"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
	"github.com/stretchr/testify/require"
)

func buildBlock(n int) *wire.MsgBlock {
	block := &wire.MsgBlock{
		Header: wire.BlockHeader{Version: 1},
	}
	for i := 0; i < n; i++ {
		tx := wire.NewMsgTx(1)
		tx.AddTxOut(&wire.TxOut{
			Value:    int64(i),
			PkScript: []byte{byte(i), byte(i >> 8), 0xac},
		})
		block.AddTransaction(tx)
	}

	hashes := make([]*chainhash.Hash, len(block.Transactions))
	for i, tx := range block.Transactions {
		h := tx.TxHash()
		hashes[i] = &h
	}
	block.Header.MerkleRoot = *bloom.MerkleRoot(hashes)

	return block
}

func TestMerkleBlockRoundTripAllMatch(t *testing.T) {
	block := buildBlock(7)
	f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	for _, tx := range block.Transactions {
		f.Add(tx.TxOut[0].PkScript)
	}

	mb, matched := bloom.NewMerkleBlock(block, f)
	require.Len(t, matched, len(block.Transactions))

	got, err := bloom.ExtractMatches(mb)
	require.NoError(t, err)
	require.Len(t, got, len(block.Transactions))
}

func TestMerkleBlockRoundTripNoMatch(t *testing.T) {
	block := buildBlock(5)
	f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	f.Add([]byte("not present in any output"))

	mb, matched := bloom.NewMerkleBlock(block, f)
	require.Empty(t, matched)

	got, err := bloom.ExtractMatches(mb)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMerkleBlockRoundTripSingleLeaf(t *testing.T) {
	block := buildBlock(1)
	f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	f.Add(block.Transactions[0].TxOut[0].PkScript)

	mb, matched := bloom.NewMerkleBlock(block, f)
	require.Len(t, matched, 1)

	got, err := bloom.ExtractMatches(mb)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestMerkleBlockRoundTripOddLeafCount(t *testing.T) {
	for _, n := range []int{3, 5, 9, 11} {
		block := buildBlock(n)
		f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
		// Match only the last transaction, which is the odd one out when
		// a level's width is uneven and its hash gets duplicated.
		f.Add(block.Transactions[n-1].TxOut[0].PkScript)

		mb, matched := bloom.NewMerkleBlock(block, f)
		require.Len(t, matched, 1, "n=%d", n)

		got, err := bloom.ExtractMatches(mb)
		require.NoError(t, err, "n=%d", n)
		require.Len(t, got, 1, "n=%d", n)
	}
}

func TestExtractMatchesRejectsWrongRoot(t *testing.T) {
	block := buildBlock(4)
	f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	f.Add(block.Transactions[0].TxOut[0].PkScript)

	mb, _ := bloom.NewMerkleBlock(block, f)
	mb.Header.MerkleRoot = chainhash.Hash{0xff}

	_, err := bloom.ExtractMatches(mb)
	require.ErrorIs(t, err, bloom.ErrUnexpectedRoot)
}

func TestFilterMatchTxAndUpdateFindsOutpointAfterSpend(t *testing.T) {
	parent := wire.NewMsgTx(1)
	parent.AddTxOut(&wire.TxOut{Value: 1, PkScript: []byte{0x51}})

	f := bloom.NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	f.Add(parent.TxOut[0].PkScript)
	require.True(t, f.MatchTxAndUpdate(parent))

	spend := wire.NewMsgTx(1)
	spend.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: parent.TxHash(), Index: 0},
	})
	spend.AddTxOut(&wire.TxOut{Value: 1, PkScript: []byte{0x6a}})

	require.True(t, f.MatchTxAndUpdate(spend))
}
