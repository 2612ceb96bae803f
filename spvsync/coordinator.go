// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spvsync implements the multi-peer download coordinator (§4.5,
// §4.6): header catch-up, ranged filtered-block catch-up with reorder and
// reassignment, rescan, and outbound/inbound relay bookkeeping. It is
// expressed as a single event-loop goroutine driving a state machine
// rather than the callback-driven download the source expresses (§9).
package spvsync

import (
	"time"

	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/peer"
	"github.com/spvbridge/spvd/storage"
	"github.com/spvbridge/spvd/wire"
)

// ChainSubscriber receives every coordinator-level event a consumer needs:
// chain connect/disconnect/reorg (delegated straight from blockchain.Store)
// plus relevant-transaction delivery, which this package produces (§6's
// chain subscriber interface).
type ChainSubscriber interface {
	blockchain.Subscriber

	// RelevantTransaction is called once for each transaction this node
	// cares about: either matched inside a filtered block (containing
	// non-nil) or observed as a standalone relay (containing nil).
	RelevantTransaction(tx *wire.MsgTx, containing *chainhash.Hash)

	// DownloadFailed reports a coordinator-level error that does not
	// terminate the coordinator (§7's coordinator error policy).
	DownloadFailed(err CoordinatorError)
}

// phase identifies which half of §4.5's two sequential phases the
// coordinator is driving.
type phase int

const (
	phaseIdle phase = iota
	phaseHeaderCatchup
	phaseBlockCatchup
)

// rangeAssignment tracks one peer's Phase B work: a contiguous block range
// it has been asked to deliver via getdata, and how many times it has
// already missed its deadline.
type rangeAssignment struct {
	peerAddr string
	start    int32
	end      int32
	deadline time.Time
	misses   int
}

// Coordinator owns a pool of peer sessions and drives Phase A/B, rescan,
// and relay bookkeeping. It does not implement peer.EventListener itself:
// every session it manages is configured with the per-peer adapter that
// EventListenerFor returns, which carries the peer's identity.
type Coordinator struct {
	cfg        Config
	store      *blockchain.Store
	subscriber ChainSubscriber

	pool    *PeerPool
	relay   *RelayService
	addrMgr *AddrManager

	events chan peerEvent

	phase        phase
	downloadPeer *peer.Peer
	reorder      *reorderMap
	assignments  map[string]*rangeAssignment

	quit chan struct{}
	done chan struct{}
}

// peerEvent pairs a peer.Event with the coordinator-assigned address
// string, since peer.Event.Peer may have already been torn down by the
// time the event is processed.
type peerEvent struct {
	addr string
	ev   peer.Event
}

// peerListener adapts one Peer's events into the coordinator's inbound
// queue, tagging each with the peer's address so later lookups survive
// disconnection.
type peerListener struct {
	c    *Coordinator
	addr string
}

// Post implements peer.EventListener.
func (l peerListener) Post(e peer.Event) {
	select {
	case l.c.events <- peerEvent{addr: l.addr, ev: e}:
	case <-l.c.quit:
	}
}

// NewCoordinator creates a Coordinator driving store and notifying sub.
func NewCoordinator(cfg Config, store *blockchain.Store, sub ChainSubscriber) *Coordinator {
	cfg.setDefaults()
	c := &Coordinator{
		cfg:         cfg,
		store:       store,
		subscriber:  sub,
		pool:        NewPeerPool(cfg),
		relay:       NewRelayService(cfg.MinRelays, cfg.RelayDedupeWindow, cfg.RelayDedupeCapacity),
		addrMgr:     NewAddrManager(),
		events:      make(chan peerEvent, 256),
		phase:       phaseIdle,
		assignments: make(map[string]*rangeAssignment),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	store.Subscribe(chainStoreBridge{c})
	return c
}

// chainStoreBridge forwards blockchain.Store events straight to the
// configured ChainSubscriber, keeping blockchain unaware of spvsync. When a
// Persister is configured it also issues the corresponding storage write
// (§6: the core issues all persistence from the group thread, which this
// bridge runs on since blockchain.Store calls subscribers synchronously
// from within Append).
type chainStoreBridge struct{ c *Coordinator }

func (b chainStoreBridge) Connected(n *blockchain.BlockNode) {
	b.c.persistNode(n)
	b.c.subscriber.Connected(n)
}

func (b chainStoreBridge) Disconnected(n *blockchain.BlockNode) {
	b.c.deleteNode(n)
	b.c.subscriber.Disconnected(n)
}
func (b chainStoreBridge) Reorganized(oldTip, newTip, ancestor *blockchain.BlockNode) {
	b.c.subscriber.Reorganized(oldTip, newTip, ancestor)
	// A reorg may invalidate in-flight Phase B assignments below the
	// common ancestor; the simplest correct response is to restart
	// Phase B from the new ancestor height exactly as a rescan would.
	if b.c.phase == phaseBlockCatchup {
		b.c.rewindTo(ancestor.Height + 1)
	}
}

// persistNode writes n to the configured Persister, logging rather than
// failing the coordinator on a storage error: a failed write only costs a
// re-download on the next restart, not correctness of the running chain.
func (c *Coordinator) persistNode(n *blockchain.BlockNode) {
	if c.cfg.Persister == nil {
		return
	}
	h := n.Header()
	b := &storage.StoredBlock{Header: h, Height: n.Height, CumulativeWork: n.WorkSum}
	if err := c.cfg.Persister.PersistBlock(b); err != nil {
		logger.Warnf("failed to persist block %s: %v", n.Hash, err)
	}
}

// deleteNode removes a block leaving the active chain from the Persister.
// Only the active chain is replayed via LoadChain on startup, so a block
// that falls off it is pruned from storage immediately rather than kept
// around for a reorg that may never reclaim it; blockchain.Store itself
// still holds it in memory for the life of the process.
func (c *Coordinator) deleteNode(n *blockchain.BlockNode) {
	if c.cfg.Persister == nil {
		return
	}
	if err := c.cfg.Persister.DeleteBlock(n.Hash); err != nil {
		logger.Warnf("failed to delete block %s: %v", n.Hash, err)
	}
}

// EventListenerFor returns the peer.EventListener a newly constructed
// session should be configured with so its events reach this coordinator.
func (c *Coordinator) EventListenerFor(addr string) peer.EventListener {
	return peerListener{c: c, addr: addr}
}

// AddPeer registers a session with the pool. It does not start Phase A
// itself: the event loop elects a download peer when the session's
// EventHandshakeComplete event arrives.
func (c *Coordinator) AddPeer(p *peer.Peer) {
	c.pool.AddPeer(p)
	c.pool.ResetBackoff(p.Addr().String())
}

// Run starts the coordinator's event loop in its own goroutine.
func (c *Coordinator) Run() {
	go c.loop()
}

// Stop terminates the event loop and waits for it to exit (§5's shutdown
// contract: closes sessions and drains subscriber queues before returning
// is the caller's responsibility for the peer pool; the coordinator itself
// only needs to stop consuming events).
func (c *Coordinator) Stop() {
	close(c.quit)
	<-c.done
}

func (c *Coordinator) loop() {
	defer close(c.done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case pe := <-c.events:
			c.handleEvent(pe)
		case now := <-ticker.C:
			c.checkDeadlines(now)
			c.relay.Sweep(now)
		case <-c.quit:
			return
		}
	}
}

func (c *Coordinator) handleEvent(pe peerEvent) {
	switch pe.ev.Kind {
	case peer.EventHandshakeComplete:
		c.pool.SetLastBlockHeight(pe.addr, pe.ev.Version.LastBlock)
		c.maybeStartPhaseA()

	case peer.EventHeaders:
		c.handleHeaders(pe.addr, pe.ev.Peer, pe.ev.Headers)

	case peer.EventMerkleBlock:
		c.handleMerkleBlock(pe.addr, pe.ev.Block)

	case peer.EventTx:
		if c.relay.ObserveInbound(pe.ev.Tx) {
			c.subscriber.RelevantTransaction(pe.ev.Tx, nil)
		}

	case peer.EventGetData:
		c.handleGetData(pe.addr, pe.ev.GetData)

	case peer.EventNotFound:
		c.handleNotFound(pe.addr, pe.ev.NotFound)

	case peer.EventDisconnected:
		c.handleDisconnect(pe.addr)
	}
}

// maybeStartPhaseA elects a download peer and issues the first getheaders
// request if the coordinator has nothing in flight yet.
func (c *Coordinator) maybeStartPhaseA() {
	if c.phase != phaseIdle {
		return
	}
	dp := c.pool.ElectDownloadPeer()
	if dp == nil {
		return
	}
	c.phase = phaseHeaderCatchup
	c.downloadPeer = dp
	c.requestHeaders(dp)
}

func (c *Coordinator) requestHeaders(p *peer.Peer) {
	gh := wire.NewMsgGetHeaders()
	for _, h := range c.store.BlockLocator() {
		gh.AddBlockLocatorHash(h)
	}
	p.QueueMessage(gh)
}

// handleHeaders appends each header to the store; an Orphan response
// triggers a further locator-based backfill request (§7's Orphan policy).
// Phase A completes, and Phase B begins, once a response contains fewer
// than wire.MaxBlockHeadersPerMsg headers or the tip is within the fast
// catch-up threshold of now.
func (c *Coordinator) handleHeaders(addr string, p *peer.Peer, headers []*wire.BlockHeader) {
	if c.phase != phaseHeaderCatchup || p != c.downloadPeer {
		return
	}

	for _, h := range headers {
		if _, err := c.store.Append(h); err != nil {
			if blockchain.IsOrphan(err) {
				c.requestHeaders(p)
				return
			}
			logger.Warnf("rejecting header from %s: %v", addr, err)
			return
		}
	}

	tip := c.store.Tip()
	caughtUp := len(headers) < wire.MaxBlockHeadersPerMsg ||
		c.cfg.Now().Sub(time.Unix(tip.Timestamp, 0)) < c.cfg.FastCatchupThreshold

	if caughtUp {
		c.startPhaseB(tip.Height + 1)
		return
	}
	c.requestHeaders(p)
}

// startPhaseB begins walking the active chain from startHeight forward,
// assigning contiguous ranges to every available peer.
func (c *Coordinator) startPhaseB(startHeight int32) {
	c.phase = phaseBlockCatchup
	c.reorder = newReorderMap(startHeight)
	c.assignments = make(map[string]*rangeAssignment)

	tip := c.store.Tip()
	next := startHeight
	for _, p := range c.pool.Peers() {
		if next > tip.Height {
			break
		}
		end := next + c.cfg.BlockRangeSize - 1
		if end > tip.Height {
			end = tip.Height
		}
		c.assignRange(p, next, end)
		next = end + 1
	}
}

func (c *Coordinator) assignRange(p *peer.Peer, start, end int32) {
	addr := p.Addr().String()
	c.assignments[addr] = &rangeAssignment{
		peerAddr: addr,
		start:    start,
		end:      end,
		deadline: c.cfg.Now().Add(c.cfg.BlockRangeTimeout),
	}

	gd := wire.NewMsgGetData()
	for h := start; h <= end; h++ {
		node := c.heightToNode(h)
		if node == nil {
			break
		}
		gd.AddInvVect(wire.NewInvVect(wire.InvTypeFilteredBlock, &node.Hash))
	}
	p.QueueMessage(gd)
}

// heightToNode walks the active chain tip backward to find the node at
// height. Phase B only ever looks up heights at or below the tip recorded
// when the range was assigned, so this always finds one sitting on the
// active chain at call time modulo a reorg, which rewindTo handles
// separately.
func (c *Coordinator) heightToNode(height int32) *blockchain.BlockNode {
	n := c.store.Tip()
	for n != nil && n.Height > height {
		n = n.Parent
	}
	if n == nil || n.Height != height {
		return nil
	}
	return n
}

func (c *Coordinator) handleMerkleBlock(addr string, ev *peer.MerkleBlockEvent) {
	if c.phase != phaseBlockCatchup || ev == nil || ev.Header == nil {
		return
	}
	blockHash := ev.Header.Header.BlockHash()
	node := c.store.NodeByHash(blockHash)
	if node == nil {
		logger.Warnf("merkleblock %s from %s does not match any known header", blockHash, addr)
		return
	}

	if _, err := verifyMerkleBlock(ev); err != nil {
		logger.Warnf("merkleblock %s from %s failed verification: %v", blockHash, addr, err)
		return
	}

	if c.cfg.Persister != nil {
		if err := c.cfg.Persister.PersistPartialMerkleTree(blockHash, ev.Header); err != nil {
			logger.Warnf("failed to persist partial merkle tree for %s: %v", blockHash, err)
		}
	}

	released := c.reorder.Insert(node.Height, ev)
	for _, rel := range released {
		relHash := rel.Header.Header.BlockHash()
		for _, tx := range rel.Matched {
			h := relHash
			c.subscriber.RelevantTransaction(tx, &h)
		}
	}

	if a, ok := c.assignments[addr]; ok && node.Height >= a.start {
		if node.Height == a.end {
			delete(c.assignments, addr)
			c.maybeExtendRange(addr)
		}
	}
}

// maybeExtendRange hands the peer that just finished its range the next
// unassigned one, if any remains below the tip.
func (c *Coordinator) maybeExtendRange(addr string) {
	tip := c.store.Tip()
	highest := c.reorder.NextHeight() - 1
	for _, a := range c.assignments {
		if a.end > highest {
			highest = a.end
		}
	}
	if highest+1 > tip.Height {
		return
	}
	for _, p := range c.pool.Peers() {
		if p.Addr().String() != addr {
			continue
		}
		start := highest + 1
		end := start + c.cfg.BlockRangeSize - 1
		if end > tip.Height {
			end = tip.Height
		}
		c.assignRange(p, start, end)
		return
	}
}

func (c *Coordinator) handleGetData(addr string, inv []*wire.InvVect) {
	for _, iv := range inv {
		if iv.Type != wire.InvTypeTx {
			continue
		}
		if c.relay.ObserveGetData(addr, iv.Hash) {
			logger.Debugf("tx %s reached relay threshold", iv.Hash)
		}
	}
}

func (c *Coordinator) handleNotFound(addr string, inv []*wire.InvVect) {
	logger.Debugf("peer %s could not satisfy %d inventory requests", addr, len(inv))
}

func (c *Coordinator) handleDisconnect(addr string) {
	c.pool.RemovePeer(addr)
	c.pool.MarkFailed(addr, c.cfg.Now())

	if a, ok := c.assignments[addr]; ok {
		delete(c.assignments, addr)
		c.reassignRange(a)
	}

	if c.downloadPeer != nil && c.downloadPeer.Addr().String() == addr {
		c.downloadPeer = nil
		c.phase = phaseIdle
		c.maybeStartPhaseA()
	}
}

// checkDeadlines reassigns any Phase B range whose deadline has passed and
// disconnects a peer that has missed two consecutive deadlines (§4.5).
func (c *Coordinator) checkDeadlines(now time.Time) {
	if c.phase != phaseBlockCatchup {
		return
	}
	for addr, a := range c.assignments {
		if now.Before(a.deadline) {
			continue
		}
		a.misses++
		delete(c.assignments, addr)
		if a.misses >= 2 {
			c.disconnectSlowPeer(addr)
		}
		c.reassignRange(a)
	}
}

func (c *Coordinator) reassignRange(a *rangeAssignment) {
	for _, p := range c.pool.Peers() {
		addr := p.Addr().String()
		if addr == a.peerAddr {
			continue
		}
		if _, busy := c.assignments[addr]; busy {
			continue
		}
		c.assignRange(p, a.start, a.end)
		return
	}
	c.subscriber.DownloadFailed(coordinatorError(ErrNoEligiblePeer,
		"no peer available to take over range"))
}

func (c *Coordinator) disconnectSlowPeer(addr string) {
	for _, p := range c.pool.Peers() {
		if p.Addr().String() == addr {
			p.Disconnect(coordinatorError(ErrDownloadStalled, "missed two consecutive range deadlines"))
			return
		}
	}
}

// Rescan calls filterRebuild, when non-nil, and then, if Phase B is
// running, discards the buffered and assigned block ranges and restarts
// Phase B at height without re-fetching headers. It does not notify the
// subscriber of the rewind, it does not send the rebuilt filter to
// connected sessions, and outside Phase B it does nothing beyond calling
// filterRebuild.
func (c *Coordinator) Rescan(height int32, filterRebuild func()) {
	if filterRebuild != nil {
		filterRebuild()
	}
	c.rewindTo(height)
}

func (c *Coordinator) rewindTo(height int32) {
	if c.phase != phaseBlockCatchup {
		return
	}
	c.assignments = make(map[string]*rangeAssignment)
	if c.reorder != nil {
		c.reorder.Rewind(height)
	} else {
		c.reorder = newReorderMap(height)
	}
	c.startPhaseB(height)
}
