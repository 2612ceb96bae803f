// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements one remote connection's session state machine:
// the handshake, keep-alive pinging, bloom filter upload, and the dispatch
// of inbound messages into the tagged Event stream a download coordinator
// consumes (§4.4, §5, §9).
package peer

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spvbridge/spvd/bloom"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// Peer manages one remote connection. Per §5, its work is split across two
// goroutines: a connection thread (readLoop) that only performs blocking
// socket I/O and wire codec framing, and a group thread (eventLoop) that is
// the sole mutator of session state and the sole caller of Config.Listener.
// readLoop never touches fields eventLoop owns; it only ever hands a fully
// decoded wire.Message across inMsgs.
type Peer struct {
	cfg  Config
	conn net.Conn

	inbound bool
	na      *wire.NetAddress

	state   atomic.Int32 // State
	nonce   uint64
	version atomic.Value // *wire.MsgVersion, set once on handshake

	sendMu sync.Mutex // serializes WriteMessage calls from any goroutine

	reqs *requestTracker

	pendingMu     sync.Mutex
	pendingBlocks map[chainhash.Hash]*pendingBlockAccum

	inMsgs  chan wire.Message
	outMsgs chan wire.Message
	quit    chan struct{}
	quitErr error
	once    sync.Once

	resyncs atomic.Uint32 // count of checksum-mismatch resyncs (§7)

	wg sync.WaitGroup
}

// NewOutboundPeer creates a Peer for a connection this node initiated.
func NewOutboundPeer(cfg Config, conn net.Conn) *Peer {
	return newPeer(cfg, conn, false)
}

// NewInboundPeer creates a Peer for a connection accepted from a listener.
func NewInboundPeer(cfg Config, conn net.Conn) *Peer {
	return newPeer(cfg, conn, true)
}

func newPeer(cfg Config, conn net.Conn, inbound bool) *Peer {
	cfg.setDefaults()
	p := &Peer{
		cfg:     cfg,
		conn:    conn,
		inbound: inbound,
		nonce:   randomNonce(),
		reqs:          newRequestTracker(),
		pendingBlocks: make(map[chainhash.Hash]*pendingBlockAccum),
		inMsgs:  make(chan wire.Message, 50),
		outMsgs: make(chan wire.Message, 50),
		quit:    make(chan struct{}),
	}
	p.state.Store(int32(StateConnecting))
	return p
}

func randomNonce() uint64 {
	var b [8]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		// crypto/rand failing means the platform is broken beyond
		// what a retry could fix; a non-random nonce just weakens
		// self-connection detection, it does not corrupt the session.
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Addr returns the remote address of the underlying connection.
func (p *Peer) Addr() net.Addr {
	return p.conn.RemoteAddr()
}

// Inbound reports whether the remote initiated this connection.
func (p *Peer) Inbound() bool {
	return p.inbound
}

// State returns the session's current lifecycle state.
func (p *Peer) State() State {
	return State(p.state.Load())
}

// VersionMsg returns the remote's version message once the handshake has
// completed, or nil beforehand.
func (p *Peer) VersionMsg() *wire.MsgVersion {
	v, _ := p.version.Load().(*wire.MsgVersion)
	return v
}

// Resyncs returns the number of times the connection thread has recovered
// from a checksum-mismatched frame by resuming magic-scanning instead of
// disconnecting (§4.1, §7).
func (p *Peer) Resyncs() uint32 {
	return p.resyncs.Load()
}

// Start launches the connection and group threads. It returns immediately;
// the session runs until Disconnect is called or an unrecoverable error
// occurs, at which point an EventDisconnected is posted.
func (p *Peer) Start() {
	p.wg.Add(2)
	go p.readLoop()
	go p.eventLoop()
}

// Disconnect terminates the session and closes the underlying connection.
// It is safe to call more than once and from any goroutine.
func (p *Peer) Disconnect(err error) {
	p.once.Do(func() {
		p.quitErr = err
		close(p.quit)
		p.conn.Close()
	})
}

// WaitForDisconnect blocks until both session goroutines have exited.
func (p *Peer) WaitForDisconnect() {
	p.wg.Wait()
}

// QueueMessage schedules msg to be written to the remote. It never blocks
// the caller on network I/O; if the outbound queue is full the session is
// considered stalled and disconnects.
func (p *Peer) QueueMessage(msg wire.Message) {
	select {
	case p.outMsgs <- msg:
	case <-p.quit:
	default:
		logger.Warnf("outbound queue full for %s, disconnecting", p.Addr())
		p.Disconnect(sessionError(ErrProtocolViolation, "outbound queue overflow"))
	}
}

// readLoop is the connection thread: it only blocks on socket reads and
// wire decoding, then hands the result to the group thread. It leaves the
// state eventLoop owns alone; its only direct effects on the Peer are
// incrementing the resync counter after a checksum mismatch and calling
// Disconnect on any other read error.
func (p *Peer) readLoop() {
	defer p.wg.Done()
	defer close(p.inMsgs)

	for {
		msg, _, err := wire.ReadMessage(p.conn, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net)
		if err != nil {
			var codecErr *wire.CodecError
			if errors.As(err, &codecErr) && codecErr.Code == wire.ErrChecksumMismatch {
				p.resyncs.Add(1)
				continue
			}

			select {
			case <-p.quit:
			default:
				p.Disconnect(fmt.Errorf("read message: %w", err))
			}
			return
		}

		select {
		case p.inMsgs <- msg:
		case <-p.quit:
			return
		}
	}
}

// writeLoop drains outMsgs onto the wire. It runs as part of the group
// thread's goroutine set but touches no session state beyond the socket, so
// it is safe to run concurrently with eventLoop's message handling.
func (p *Peer) writeLoop() {
	defer p.wg.Done()

	for {
		select {
		case msg, ok := <-p.outMsgs:
			if !ok {
				return
			}
			p.sendMu.Lock()
			err := wire.WriteMessage(p.conn, msg, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net)
			p.sendMu.Unlock()
			if err != nil {
				p.Disconnect(fmt.Errorf("write message: %w", err))
				return
			}
		case <-p.quit:
			return
		}
	}
}

// eventLoop is the group thread: the sole owner of session state and the
// sole caller of Config.Listener.Post. It drives the handshake, keep-alive
// pinging, request deadlines, and inbound message dispatch.
func (p *Peer) eventLoop() {
	defer p.wg.Done()

	p.wg.Add(1)
	go p.writeLoop()

	if err := p.handshake(); err != nil {
		p.Disconnect(err)
		p.drainUntilClosed()
		p.postDisconnected()
		return
	}

	p.state.Store(int32(StateConnected))
	p.cfg.Listener.Post(Event{Kind: EventHandshakeComplete, Peer: p, Version: p.VersionMsg()})

	if p.cfg.BloomFilteringEnabled && p.cfg.Filter != nil {
		if fl := p.cfg.Filter.FilterLoadMsg(); fl != nil {
			p.QueueMessage(fl)
		}
	}

	keepAlive := time.NewTimer(p.cfg.KeepAliveIdle)
	defer keepAlive.Stop()
	reqCheck := time.NewTicker(p.cfg.RequestTimeout)
	defer reqCheck.Stop()

	var pingNonce uint64
	var pingDeadline time.Time

	for {
		select {
		case msg, ok := <-p.inMsgs:
			if !ok {
				p.postDisconnected()
				return
			}
			if !keepAlive.Stop() {
				select {
				case <-keepAlive.C:
				default:
				}
			}
			keepAlive.Reset(p.cfg.KeepAliveIdle)

			if pong, ok := msg.(*wire.MsgPong); ok {
				if pong.Nonce == pingNonce {
					pingNonce = 0
				}
				continue
			}

			p.handleMessage(msg)

		case <-keepAlive.C:
			if pingNonce != 0 && time.Now().After(pingDeadline) {
				p.Disconnect(sessionError(ErrKeepAliveTimeout, "no pong within timeout"))
				p.drainUntilClosed()
				p.postDisconnected()
				return
			}
			pingNonce = randomNonce()
			pingDeadline = time.Now().Add(p.cfg.PingTimeout)
			p.QueueMessage(wire.NewMsgPing(pingNonce))
			keepAlive.Reset(p.cfg.PingTimeout)

		case now := <-reqCheck.C:
			for _, h := range p.reqs.Expired(now) {
				logger.Debugf("request for %s to %s timed out", h, p.Addr())
			}
			for _, h := range p.reqs.ExpiredMerkleBlocks(now) {
				p.Disconnect(sessionError(ErrProtocolViolation,
					"merkleblock "+h.String()+" matches never arrived"))
				p.drainUntilClosed()
				p.postDisconnected()
				return
			}

		case <-p.quit:
			p.postDisconnected()
			return
		}
	}
}

// drainUntilClosed consumes any messages still in flight from readLoop so
// it can observe p.quit and exit without blocking on a full channel.
func (p *Peer) drainUntilClosed() {
	for range p.inMsgs {
	}
}

func (p *Peer) postDisconnected() {
	p.state.Store(int32(StateDisconnected))
	p.cfg.Listener.Post(Event{Kind: EventDisconnected, Peer: p, Err: p.quitErr})
}

// handshake performs the version/verack exchange required before a session
// may be treated as Connected (§4.4). Both directions must complete within
// HandshakeTimeout.
func (p *Peer) handshake() error {
	p.state.Store(int32(StateHandshaking))

	deadline := time.Now().Add(p.cfg.HandshakeTimeout)
	p.conn.SetDeadline(deadline)
	defer p.conn.SetDeadline(time.Time{})

	localNA := wire.NewNetAddressIPPort(net.IPv4zero, 0, p.cfg.Services)
	remoteNA, err := addrFromConn(p.conn, p.cfg.Services)
	if err != nil {
		return sessionError(ErrProtocolViolation, "bad remote address: "+err.Error())
	}

	ourVersion := wire.NewMsgVersion(localNA, remoteNA, p.nonce, p.cfg.BestHeight())
	ourVersion.ProtocolVersion = int32(p.cfg.ProtocolVersion)
	ourVersion.Services = p.cfg.Services
	ourVersion.UserAgent = p.cfg.userAgent()
	ourVersion.DisableRelayTx = !p.cfg.DownloadBlocks

	if p.inbound {
		remote, err := p.waitForVersion()
		if err != nil {
			return err
		}
		if err := p.checkRemoteVersion(remote); err != nil {
			return err
		}
		if err := wire.WriteMessage(p.conn, ourVersion, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net); err != nil {
			return err
		}
		if err := wire.WriteMessage(p.conn, wire.NewMsgVerAck(), p.cfg.ProtocolVersion, p.cfg.ChainParams.Net); err != nil {
			return err
		}
		if err := p.waitForVerAck(); err != nil {
			return err
		}
		p.version.Store(remote)
		return nil
	}

	if err := wire.WriteMessage(p.conn, ourVersion, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net); err != nil {
		return err
	}
	remote, err := p.waitForVersion()
	if err != nil {
		return err
	}
	if err := p.checkRemoteVersion(remote); err != nil {
		return err
	}
	if err := wire.WriteMessage(p.conn, wire.NewMsgVerAck(), p.cfg.ProtocolVersion, p.cfg.ChainParams.Net); err != nil {
		return err
	}
	if err := p.waitForVerAck(); err != nil {
		return err
	}
	p.version.Store(remote)
	return nil
}

func (p *Peer) checkRemoteVersion(v *wire.MsgVersion) error {
	if uint32(v.ProtocolVersion) < p.cfg.MinProtocolVersion {
		return sessionError(ErrProtocolViolation, "remote protocol version too old")
	}
	if v.Nonce == p.nonce && v.Nonce != 0 {
		return sessionError(ErrProtocolViolation, "connected to self")
	}
	if p.cfg.BloomFilteringEnabled && !v.Services.HasFlag(wire.SFNodeBloom) {
		return sessionError(ErrProtocolViolation, "remote does not support bloom filtering")
	}
	return nil
}

func (p *Peer) waitForVersion() (*wire.MsgVersion, error) {
	msg, _, err := wire.ReadMessage(p.conn, wire.ProtocolVersion, p.cfg.ChainParams.Net)
	if err != nil {
		return nil, err
	}
	v, ok := msg.(*wire.MsgVersion)
	if !ok {
		return nil, sessionError(ErrProtocolViolation, "expected version, got "+msg.Command())
	}
	return v, nil
}

func (p *Peer) waitForVerAck() error {
	msg, _, err := wire.ReadMessage(p.conn, p.cfg.ProtocolVersion, p.cfg.ChainParams.Net)
	if err != nil {
		return err
	}
	if _, ok := msg.(*wire.MsgVerAck); !ok {
		return sessionError(ErrProtocolViolation, "expected verack, got "+msg.Command())
	}
	return nil
}

func addrFromConn(conn net.Conn, services wire.ServiceFlag) (*wire.NetAddress, error) {
	host, portStr, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return wire.NewNetAddressIPPort(net.IPv4zero, 0, services), nil
	}
	ip := net.ParseIP(host)
	var port uint16
	fmt.Sscanf(portStr, "%d", &port)
	return wire.NewNetAddressIPPort(ip, port, services), nil
}

// handleMessage dispatches one decoded inbound message into an Event,
// applying the merkleblock/tx accumulation described in request.go so a
// coordinator always receives a merkleblock together with its matches.
func (p *Peer) handleMessage(msg wire.Message) {
	switch m := msg.(type) {
	case *wire.MsgHeaders:
		headers := make([]*wire.BlockHeader, len(m.Headers))
		copy(headers, m.Headers)
		p.cfg.Listener.Post(Event{Kind: EventHeaders, Peer: p, Headers: headers})

	case *wire.MsgMerkleBlock:
		matches, err := bloom.ExtractMatches(m)
		if err != nil {
			p.Disconnect(sessionError(ErrProtocolViolation, "merkleblock: "+err.Error()))
			return
		}
		if len(matches) == 0 {
			p.cfg.Listener.Post(Event{Kind: EventMerkleBlock, Peer: p, Block: &MerkleBlockEvent{Header: m}})
			return
		}
		blockHash := m.Header.BlockHash()
		p.pendingMerkleHeaderStore(blockHash, m)
		p.reqs.BeginMerkleBlock(blockHash, uint32(len(matches)), time.Now().Add(p.cfg.RequestTimeout))

	case *wire.MsgTx:
		txid := m.TxHash()
		blockHash, complete := p.reqs.AddMatchedTx(txid)
		if blockHash == (chainhash.Hash{}) {
			p.cfg.Listener.Post(Event{Kind: EventTx, Peer: p, Tx: m})
			return
		}
		p.appendMatchedTx(blockHash, m)
		if complete {
			hdr, matches := p.takeMerkleBlock(blockHash)
			if hdr != nil {
				p.cfg.Listener.Post(Event{Kind: EventMerkleBlock, Peer: p, Block: &MerkleBlockEvent{Header: hdr, Matched: matches}})
			}
		}

	case *wire.MsgInv:
		p.cfg.Listener.Post(Event{Kind: EventInv, Peer: p, Inv: append([]*wire.InvVect(nil), m.InvList...)})

	case *wire.MsgNotFound:
		p.cfg.Listener.Post(Event{Kind: EventNotFound, Peer: p, NotFound: append([]*wire.InvVect(nil), m.InvList...)})

	case *wire.MsgGetData:
		p.cfg.Listener.Post(Event{Kind: EventGetData, Peer: p, GetData: append([]*wire.InvVect(nil), m.InvList...)})

	case *wire.MsgAddr:
		p.cfg.Listener.Post(Event{Kind: EventAddr, Peer: p, Addrs: append([]*wire.NetAddress(nil), m.AddrList...)})

	case *wire.MsgPing:
		p.QueueMessage(wire.NewMsgPong(m.Nonce))

	case *wire.MsgGetAddr:
		// An SPV client relays nothing of its own; reply with an empty
		// addr to satisfy the request without leaking peer state.
		p.QueueMessage(wire.NewMsgAddr())

	default:
		logger.Debugf("unhandled message %s from %s", msg.Command(), p.Addr())
	}
}

// pendingBlockAccum holds a merkleblock header while its announced matched
// transactions are still arriving.
type pendingBlockAccum struct {
	header  *wire.MsgMerkleBlock
	matched []*wire.MsgTx
}

func (p *Peer) pendingMerkleHeaderStore(hash chainhash.Hash, m *wire.MsgMerkleBlock) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	p.pendingBlocks[hash] = &pendingBlockAccum{header: m}
}

func (p *Peer) appendMatchedTx(hash chainhash.Hash, tx *wire.MsgTx) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	if acc, ok := p.pendingBlocks[hash]; ok {
		acc.matched = append(acc.matched, tx)
	}
}

func (p *Peer) takeMerkleBlock(hash chainhash.Hash) (*wire.MsgMerkleBlock, []*wire.MsgTx) {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	acc, ok := p.pendingBlocks[hash]
	if !ok {
		return nil, nil
	}
	delete(p.pendingBlocks, hash)
	return acc.header, acc.matched
}
