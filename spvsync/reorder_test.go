// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"testing"

	"github.com/spvbridge/spvd/peer"
	"github.com/stretchr/testify/require"
)

func TestReorderMapReleasesInOrder(t *testing.T) {
	r := newReorderMap(10)

	ev12 := &peer.MerkleBlockEvent{}
	ev11 := &peer.MerkleBlockEvent{}
	ev10 := &peer.MerkleBlockEvent{}

	require.Empty(t, r.Insert(12, ev12))
	require.Empty(t, r.Insert(11, ev11))

	out := r.Insert(10, ev10)
	require.Equal(t, []*peer.MerkleBlockEvent{ev10, ev11, ev12}, out)
	require.Equal(t, int32(13), r.NextHeight())
}

func TestReorderMapDropsAlreadyReleasedHeight(t *testing.T) {
	r := newReorderMap(5)
	r.Insert(5, &peer.MerkleBlockEvent{})
	require.Equal(t, int32(6), r.NextHeight())

	out := r.Insert(5, &peer.MerkleBlockEvent{})
	require.Nil(t, out)
}

func TestReorderMapRewind(t *testing.T) {
	r := newReorderMap(10)
	r.Insert(10, &peer.MerkleBlockEvent{})
	r.Insert(12, &peer.MerkleBlockEvent{})

	r.Rewind(11)
	require.Equal(t, int32(11), r.NextHeight())

	// height 12 was discarded by the rewind, so it must be re-delivered
	// before it will release.
	out := r.Insert(13, &peer.MerkleBlockEvent{})
	require.Empty(t, out)
}
