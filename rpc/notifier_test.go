// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"math/big"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/chaincfg"
)

func dialNotifier(t *testing.T, n *Notifier) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(n)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func testNode(height int32) *blockchain.BlockNode {
	params := chaincfg.RegressionNetParams
	store := blockchain.New(&params)
	tip := store.Tip()
	tip.Height = height
	tip.WorkSum = big.NewInt(int64(height))
	return tip
}

func TestNotifierBroadcastsConnected(t *testing.T) {
	n := NewNotifier()
	conn := dialNotifier(t, n)

	// Give the server goroutine a moment to register the client before
	// broadcasting, since ServeHTTP's registration races the dialer's
	// return in a loopback test.
	time.Sleep(50 * time.Millisecond)

	node := testNode(1)
	n.Connected(node)

	ev := readEvent(t, conn)
	require.Equal(t, EventConnected, ev.Type)
	require.Equal(t, node.Hash.String(), ev.Hash)
	require.Equal(t, int32(1), ev.Height)
}

func TestNotifierBroadcastsReorganized(t *testing.T) {
	n := NewNotifier()
	conn := dialNotifier(t, n)
	time.Sleep(50 * time.Millisecond)

	oldTip := testNode(5)
	newTip := testNode(6)
	ancestor := testNode(3)
	n.Reorganized(oldTip, newTip, ancestor)

	ev := readEvent(t, conn)
	require.Equal(t, EventReorganized, ev.Type)
	require.Equal(t, oldTip.Hash.String(), ev.OldTip)
	require.Equal(t, newTip.Hash.String(), ev.NewTip)
	require.Equal(t, ancestor.Hash.String(), ev.CommonAncestor)
}

func TestNotifierDropsWhenClientBufferFull(t *testing.T) {
	n := NewNotifier()
	dialNotifier(t, n)
	time.Sleep(50 * time.Millisecond)

	n.mu.Lock()
	var c *client
	for cl := range n.clients {
		c = cl
	}
	n.mu.Unlock()
	require.NotNil(t, c)

	// Fill the client's send buffer without a reader draining it, then
	// confirm one more broadcast does not block.
	for i := 0; i < clientSendBuffer; i++ {
		n.broadcast(Event{Type: EventConnected})
	}
	done := make(chan struct{})
	go func() {
		n.broadcast(Event{Type: EventConnected})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client buffer")
	}
}
