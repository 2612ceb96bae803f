// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/wire"
	"github.com/stretchr/testify/require"
)

// pipeConn wraps one side of a net.Pipe with addresses net.Pipe itself does
// not provide, since Peer.handshake needs a parseable RemoteAddr.
type pipeConn struct {
	net.Conn
	remote net.Addr
}

func (c pipeConn) RemoteAddr() net.Addr { return c.remote }

type fakeAddr string

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return string(a) }

func testPipe() (local, remote net.Conn) {
	a, b := net.Pipe()
	return pipeConn{a, fakeAddr("127.0.0.1:8555")}, pipeConn{b, fakeAddr("127.0.0.1:9999")}
}

// collectListener records every Event posted to it for later assertions.
type collectListener struct {
	events chan Event
}

func newCollectListener() *collectListener {
	return &collectListener{events: make(chan Event, 50)}
}

func (l *collectListener) Post(e Event) {
	l.events <- e
}

func testConfig(listener EventListener) Config {
	params := chaincfg.RegressionNetParams
	cfg := Config{
		ChainParams: &params,
		Listener:    listener,
	}
	cfg.setDefaults()
	return cfg
}

// runFakeRemote performs the other side of the handshake by hand over conn,
// standing in for a remote node the session under test is dialing or
// accepting.
func runFakeRemote(t *testing.T, conn net.Conn, params *chaincfg.Params, inbound bool) {
	t.Helper()

	na := wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)
	ver := wire.NewMsgVersion(na, na, 99, 0)

	if inbound {
		// Session under test is accepting; the fake remote behaves as
		// the dialer and speaks first.
		require.NoError(t, wire.WriteMessage(conn, ver, wire.ProtocolVersion, params.Net))
		msg, _, err := wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
		require.NoError(t, err)
		_, ok := msg.(*wire.MsgVersion)
		require.True(t, ok)
		msg, _, err = wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
		require.NoError(t, err)
		_, ok = msg.(*wire.MsgVerAck)
		require.True(t, ok)
		require.NoError(t, wire.WriteMessage(conn, wire.NewMsgVerAck(), wire.ProtocolVersion, params.Net))
		return
	}

	msg, _, err := wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
	require.NoError(t, err)
	_, ok := msg.(*wire.MsgVersion)
	require.True(t, ok)
	require.NoError(t, wire.WriteMessage(conn, ver, wire.ProtocolVersion, params.Net))
	require.NoError(t, wire.WriteMessage(conn, wire.NewMsgVerAck(), wire.ProtocolVersion, params.Net))
	msg, _, err = wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
	require.NoError(t, err)
	_, ok = msg.(*wire.MsgVerAck)
	require.True(t, ok)
}

func TestOutboundHandshakeCompletes(t *testing.T) {
	local, remote := testPipe()
	defer remote.Close()

	listener := newCollectListener()
	cfg := testConfig(listener)

	p := NewOutboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	runFakeRemote(t, remote, cfg.ChainParams, false)

	select {
	case e := <-listener.events:
		require.Equal(t, EventHandshakeComplete, e.Kind)
		require.NotNil(t, e.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("handshake did not complete")
	}
	require.Equal(t, StateConnected, p.State())
}

func TestInboundHandshakeCompletes(t *testing.T) {
	local, remote := testPipe()
	defer remote.Close()

	listener := newCollectListener()
	cfg := testConfig(listener)

	p := NewInboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	runFakeRemote(t, remote, cfg.ChainParams, true)

	select {
	case e := <-listener.events:
		require.Equal(t, EventHandshakeComplete, e.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("handshake did not complete")
	}
}

func TestHandshakeTimeout(t *testing.T) {
	local, remote := testPipe()
	defer remote.Close()

	listener := newCollectListener()
	cfg := testConfig(listener)
	cfg.HandshakeTimeout = 50 * time.Millisecond

	p := NewOutboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	// The fake remote never responds, so the handshake deadline fires
	// and the session must terminate rather than hang.
	select {
	case e := <-listener.events:
		require.Equal(t, EventDisconnected, e.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not disconnect after handshake timeout")
	}
}

func TestKeepAliveTimeoutDisconnects(t *testing.T) {
	local, remote := testPipe()

	listener := newCollectListener()
	cfg := testConfig(listener)
	cfg.KeepAliveIdle = 50 * time.Millisecond
	cfg.PingTimeout = 50 * time.Millisecond

	p := NewOutboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	done := make(chan struct{})
	go func() {
		runFakeRemote(t, remote, cfg.ChainParams, false)
		close(done)
		// Read (and discard) the ping the session sends, but never
		// answer it with a pong, forcing the keep-alive timeout.
		wire.ReadMessage(remote, wire.ProtocolVersion, cfg.ChainParams.Net)
	}()
	<-done

	var sawHandshake, sawDisconnect bool
	deadline := time.After(3 * time.Second)
	for !sawDisconnect {
		select {
		case e := <-listener.events:
			switch e.Kind {
			case EventHandshakeComplete:
				sawHandshake = true
			case EventDisconnected:
				sawDisconnect = true
				require.Error(t, e.Err)
			}
		case <-deadline:
			t.Fatal("keep-alive timeout never fired")
		}
	}
	require.True(t, sawHandshake)
}

func TestFilterLoadSentAfterHandshake(t *testing.T) {
	local, remote := testPipe()
	defer remote.Close()

	listener := newCollectListener()
	cfg := testConfig(listener)
	cfg.BloomFilteringEnabled = true
	cfg.Services = wire.SFNodeBloom
	cfg.Filter = stubFilterProvider{}

	p := NewOutboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	runFakeRemoteWithBloom(t, remote, cfg.ChainParams)

	select {
	case e := <-listener.events:
		require.Equal(t, EventHandshakeComplete, e.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("handshake did not complete")
	}

	msg, _, err := wire.ReadMessage(remote, wire.ProtocolVersion, cfg.ChainParams.Net)
	require.NoError(t, err)
	_, ok := msg.(*wire.MsgFilterLoad)
	require.True(t, ok, "expected filterload to follow handshake, got %T", msg)
}

// TestChecksumMismatchResyncs verifies that a frame with a corrupted
// checksum does not disconnect the session (§4.1, §7): the connection
// thread must resume magic-scanning and keep the peer alive rather than
// terminating it like a framed-payload error would.
func TestChecksumMismatchResyncs(t *testing.T) {
	local, remote := testPipe()
	defer remote.Close()

	listener := newCollectListener()
	cfg := testConfig(listener)

	p := NewOutboundPeer(cfg, local)
	p.Start()
	defer p.Disconnect(nil)

	runFakeRemote(t, remote, cfg.ChainParams, false)

	select {
	case e := <-listener.events:
		require.Equal(t, EventHandshakeComplete, e.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("handshake did not complete")
	}

	var corrupt bytes.Buffer
	require.NoError(t, wire.WriteMessage(&corrupt, wire.NewMsgPing(1), wire.ProtocolVersion, cfg.ChainParams.Net))
	corruptBytes := corrupt.Bytes()
	corruptBytes[len(corruptBytes)-1] ^= 0xff // flip a payload byte, breaking the checksum
	_, err := remote.Write(corruptBytes)
	require.NoError(t, err)

	require.NoError(t, wire.WriteMessage(remote, wire.NewMsgPing(2), wire.ProtocolVersion, cfg.ChainParams.Net))

	msg, _, err := wire.ReadMessage(remote, wire.ProtocolVersion, cfg.ChainParams.Net)
	require.NoError(t, err)
	pong, ok := msg.(*wire.MsgPong)
	require.True(t, ok, "expected pong in reply to the ping that followed the corrupted frame, got %T", msg)
	require.Equal(t, uint64(2), pong.Nonce)

	require.Equal(t, uint32(1), p.Resyncs())
	require.Equal(t, StateConnected, p.State())
}

type stubFilterProvider struct{}

func (stubFilterProvider) FilterLoadMsg() *wire.MsgFilterLoad {
	return wire.NewMsgFilterLoad(make([]byte, 8), 5, 0, wire.BloomUpdateNone)
}

func runFakeRemoteWithBloom(t *testing.T, conn net.Conn, params *chaincfg.Params) {
	t.Helper()
	na := wire.NewNetAddressIPPort(net.IPv4zero, 0, wire.SFNodeBloom)
	ver := wire.NewMsgVersion(na, na, 99, 0)
	ver.Services = wire.SFNodeBloom

	msg, _, err := wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
	require.NoError(t, err)
	_, ok := msg.(*wire.MsgVersion)
	require.True(t, ok)
	require.NoError(t, wire.WriteMessage(conn, ver, wire.ProtocolVersion, params.Net))
	require.NoError(t, wire.WriteMessage(conn, wire.NewMsgVerAck(), wire.ProtocolVersion, params.Net))
	msg, _, err = wire.ReadMessage(conn, wire.ProtocolVersion, params.Net)
	require.NoError(t, err)
	_, ok = msg.(*wire.MsgVerAck)
	require.True(t, ok)
}
