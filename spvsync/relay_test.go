// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"testing"
	"time"

	"github.com/spvbridge/spvd/wire"
	"github.com/stretchr/testify/require"
)

func TestRelayServicePublishThreshold(t *testing.T) {
	r := NewRelayService(2, 10*time.Minute, 100)
	tx := &wire.MsgTx{Version: 1}
	txid := tx.TxHash()

	r.Publish(tx)
	require.NotNil(t, r.Pending(txid))

	require.False(t, r.ObserveGetData("peerA", txid))
	require.True(t, r.ObserveGetData("peerB", txid))

	// Once published, the pending entry is cleared.
	require.Nil(t, r.Pending(txid))
}

func TestRelayServiceInboundDedupe(t *testing.T) {
	r := NewRelayService(2, 10*time.Minute, 100)
	tx := &wire.MsgTx{Version: 1}

	require.True(t, r.ObserveInbound(tx))
	require.False(t, r.ObserveInbound(tx))
}

func TestRelayServiceSweepExpiresOldEntries(t *testing.T) {
	r := NewRelayService(2, time.Millisecond, 100)
	tx := &wire.MsgTx{Version: 1}
	require.True(t, r.ObserveInbound(tx))

	r.Sweep(time.Now().Add(time.Second))
	require.True(t, r.ObserveInbound(tx))
}
