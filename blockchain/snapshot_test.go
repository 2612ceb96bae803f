// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/storage"
	"github.com/spvbridge/spvd/storage/leveldb"
)

func TestNewFromSnapshotRebuildsTip(t *testing.T) {
	params := chaincfg.RegressionNetParams
	live := New(&params)

	genesis := live.Tip()
	h1 := childHeader(genesis, 2, 1)
	n1, err := live.Append(h1)
	require.NoError(t, err)
	h2 := childHeader(n1, 2, 1)
	n2, err := live.Append(h2)
	require.NoError(t, err)

	db, err := leveldb.OpenMem()
	require.NoError(t, err)
	defer db.Close()

	for _, n := range []*BlockNode{genesis, n1, n2} {
		h := n.Header()
		require.NoError(t, db.PersistBlock(&storage.StoredBlock{
			Header:         h,
			Height:         n.Height,
			CumulativeWork: n.WorkSum,
		}))
	}

	iter, err := db.LoadChain()
	require.NoError(t, err)

	restored, err := NewFromSnapshot(&params, iter)
	require.NoError(t, err)

	require.True(t, restored.Tip().Hash.IsEqual(&n2.Hash))
	require.Equal(t, int32(2), restored.Tip().Height)
	require.Equal(t, 0, restored.Tip().WorkSum.Cmp(n2.WorkSum))
}

func TestNewFromSnapshotRejectsUnknownParent(t *testing.T) {
	params := chaincfg.RegressionNetParams
	live := New(&params)
	genesis := live.Tip()
	h1 := childHeader(genesis, 2, 1)
	n1, err := live.Append(h1)
	require.NoError(t, err)

	// Skip genesis entirely and try to graft n1 onto nothing: its
	// parent is never linked in.
	db, err := leveldb.OpenMem()
	require.NoError(t, err)
	defer db.Close()

	h := n1.Header()
	require.NoError(t, db.PersistBlock(&storage.StoredBlock{
		Header:         h,
		Height:         n1.Height,
		CumulativeWork: n1.WorkSum,
	}))

	iter, err := db.LoadChain()
	require.NoError(t, err)

	_, err = NewFromSnapshot(&params, iter)
	require.Error(t, err)
}
