// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"net"
	"testing"

	"github.com/spvbridge/spvd/wire"
	"github.com/stretchr/testify/require"
)

func TestAddrManagerAddAndRetrieve(t *testing.T) {
	am := NewAddrManager()
	na := wire.NewNetAddressIPPort(net.ParseIP("203.0.113.7"), 25212, wire.SFNodeNetwork)

	am.AddAddress(na)
	require.Equal(t, 1, am.Count())

	got := am.GetAddress()
	require.NotNil(t, got)
	require.True(t, got.IP.Equal(na.IP))
}

func TestAddrManagerMarkTriedMovesBucket(t *testing.T) {
	am := NewAddrManager()
	na := wire.NewNetAddressIPPort(net.ParseIP("203.0.113.7"), 25212, wire.SFNodeNetwork)

	am.AddAddress(na)
	am.MarkTried(na)

	// The address has moved out of the new table, so it is no longer a
	// GetAddress candidate, but Count still reflects it in tried.
	require.Nil(t, am.GetAddress())
	require.Equal(t, 1, am.Count())
}

func TestAddrManagerBucketingIsDeterministicPerManager(t *testing.T) {
	am := NewAddrManager()
	na := wire.NewNetAddressIPPort(net.ParseIP("198.51.100.23"), 25212, 0)

	idx1 := am.bucketIndex(na, newBucketCount)
	idx2 := am.bucketIndex(na, newBucketCount)
	require.Equal(t, idx1, idx2)
}
