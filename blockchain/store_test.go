// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
	"github.com/stretchr/testify/require"
)

// childHeader builds a syntactically valid header extending parent. The
// regression network's constant, maximal proof-of-work target means nearly
// any nonce satisfies BadProofOfWork, which keeps these tests independent
// of an actual miner.
func childHeader(parent *BlockNode, minutesAfter int64, nonce uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:    1,
		PrevBlock:  parent.Hash,
		MerkleRoot: chainhash.Hash{0x01},
		Timestamp:  time.Unix(parent.Timestamp+minutesAfter*60, 0),
		Bits:       parent.Bits,
		Nonce:      nonce,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	params := chaincfg.RegressionNetParams
	return New(&params)
}

func TestAppendExtendsTip(t *testing.T) {
	s := newTestStore(t)
	genesis := s.Tip()

	h1 := childHeader(genesis, 2, 1)
	n1, err := s.Append(h1)
	require.NoError(t, err)
	require.Equal(t, int32(1), n1.Height)
	require.Equal(t, genesis.Hash, n1.Parent.Hash)
	require.True(t, s.Tip().Hash.IsEqual(&n1.Hash))
}

func TestAppendAlreadyKnown(t *testing.T) {
	s := newTestStore(t)
	h1 := childHeader(s.Tip(), 2, 1)
	_, err := s.Append(h1)
	require.NoError(t, err)

	_, err = s.Append(h1)
	rerr, ok := err.(RuleError)
	require.True(t, ok)
	require.Equal(t, ErrAlreadyKnown, rerr.ErrorCode)
}

func TestAppendOrphan(t *testing.T) {
	s := newTestStore(t)
	detached := &BlockNode{
		Hash:      chainhash.Hash{0xaa},
		Height:    5,
		Bits:      s.Tip().Bits,
		Timestamp: s.Tip().Timestamp,
	}
	h := childHeader(detached, 2, 1)

	_, err := s.Append(h)
	rerr, ok := err.(RuleError)
	require.True(t, ok)
	require.Equal(t, ErrOrphan, rerr.ErrorCode)
	require.True(t, IsOrphan(err))
}

func TestAppendBadTimestampNotAfterMedian(t *testing.T) {
	s := newTestStore(t)
	genesis := s.Tip()

	h1, err := s.Append(childHeader(genesis, 2, 1))
	require.NoError(t, err)

	stale := childHeader(h1, -1, 2)
	_, err = s.Append(stale)
	rerr, ok := err.(RuleError)
	require.True(t, ok)
	require.Equal(t, ErrBadTimestamp, rerr.ErrorCode)
}

func TestAppendCheckpointMismatch(t *testing.T) {
	params := chaincfg.TestNet3Params
	s := New(&params)

	wrong := chainhash.Hash{0x42}
	params.Checkpoints = append(params.Checkpoints, Checkpoint{Height: 1, Hash: &wrong})

	h := childHeader(s.Tip(), 2, 1)
	_, err := s.Append(h)
	rerr, ok := err.(RuleError)
	require.True(t, ok)
	require.True(t, rerr.ErrorCode == ErrCheckpointMismatch || rerr.ErrorCode == ErrBadProofOfWork)
}

func TestReorgToHeavierFork(t *testing.T) {
	s := newTestStore(t)
	genesis := s.Tip()

	recorder := &recordingSubscriber{}
	s.Subscribe(recorder)

	a1, err := s.Append(childHeader(genesis, 2, 1))
	require.NoError(t, err)
	a2, err := s.Append(childHeader(a1, 2, 1))
	require.NoError(t, err)
	require.True(t, s.Tip().Hash.IsEqual(&a2.Hash))

	b1, err := s.Append(childHeader(genesis, 2, 2))
	require.NoError(t, err)
	require.True(t, s.Tip().Hash.IsEqual(&a2.Hash), "lighter fork must not replace the active tip")

	b2, err := s.Append(childHeader(b1, 2, 2))
	require.NoError(t, err)
	require.True(t, s.Tip().Hash.IsEqual(&a2.Hash), "equal-work fork must not replace the active tip")

	b3, err := s.Append(childHeader(b2, 2, 2))
	require.NoError(t, err)
	require.True(t, s.Tip().Hash.IsEqual(&b3.Hash), "heavier fork must become the active tip")

	require.NotNil(t, recorder.reorganized)
}

type recordingSubscriber struct {
	connected    []*BlockNode
	disconnected []*BlockNode
	reorganized  *reorgEvent
}

type reorgEvent struct {
	oldTip, newTip, ancestor *BlockNode
}

func (r *recordingSubscriber) Connected(n *BlockNode)    { r.connected = append(r.connected, n) }
func (r *recordingSubscriber) Disconnected(n *BlockNode) { r.disconnected = append(r.disconnected, n) }
func (r *recordingSubscriber) Reorganized(oldTip, newTip, ancestor *BlockNode) {
	r.reorganized = &reorgEvent{oldTip, newTip, ancestor}
}

func TestBlockLocatorIncludesGenesis(t *testing.T) {
	s := newTestStore(t)
	genesis := s.Tip()

	n := genesis
	for i := 0; i < 15; i++ {
		var err error
		n, err = s.Append(childHeader(n, 2, uint32(i+1)))
		require.NoError(t, err)
	}

	locator := s.BlockLocator()
	require.NotEmpty(t, locator)
	require.True(t, locator[len(locator)-1].IsEqual(&genesis.Hash))
}
