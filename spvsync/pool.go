// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"math/rand"
	"sync"
	"time"

	"github.com/spvbridge/spvd/peer"
)

// peerEntry tracks per-session bookkeeping the coordinator needs beyond
// what peer.Peer itself exposes.
type peerEntry struct {
	peer            *peer.Peer
	addr            string
	lastBlockHeight int32
}

// backoffState tracks a disconnected address's retry schedule (§7: 1s, 2s,
// 4s, ... capped at 60s).
type backoffState struct {
	next  time.Duration
	until time.Time
}

// PeerPool tracks connected sessions and the retry backoff of addresses
// that have recently failed, and elects the download peer for Phase A/B
// (§4.5: highest advertised last-block-height, ties broken at random).
type PeerPool struct {
	cfg Config

	mu      sync.Mutex
	peers   map[string]*peerEntry
	backoff map[string]*backoffState
	rng     *rand.Rand
}

// NewPeerPool creates an empty pool governed by cfg.
func NewPeerPool(cfg Config) *PeerPool {
	return &PeerPool{
		cfg:     cfg,
		peers:   make(map[string]*peerEntry),
		backoff: make(map[string]*backoffState),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddPeer registers a newly handshaken session.
func (p *PeerPool) AddPeer(pr *peer.Peer) {
	addr := pr.Addr().String()
	p.mu.Lock()
	defer p.mu.Unlock()
	lastBlock := int32(0)
	if v := pr.VersionMsg(); v != nil {
		lastBlock = v.LastBlock
	}
	p.peers[addr] = &peerEntry{peer: pr, addr: addr, lastBlockHeight: lastBlock}
	delete(p.backoff, addr)
}

// RemovePeer unregisters a session, typically on EventDisconnected.
func (p *PeerPool) RemovePeer(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.peers, addr)
}

// SetLastBlockHeight updates the height a peer advertised in its version
// message (called once, at handshake completion).
func (p *PeerPool) SetLastBlockHeight(addr string, height int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.peers[addr]; ok {
		e.lastBlockHeight = height
	}
}

// Len reports how many peers are currently registered.
func (p *PeerPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.peers)
}

// Peers returns a snapshot of every registered session.
func (p *PeerPool) Peers() []*peer.Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*peer.Peer, 0, len(p.peers))
	for _, e := range p.peers {
		out = append(out, e.peer)
	}
	return out
}

// ElectDownloadPeer picks the peer with the highest advertised
// last-block-height, breaking ties at random (§4.5). It returns nil if the
// pool is empty.
func (p *PeerPool) ElectDownloadPeer() *peer.Peer {
	p.mu.Lock()
	defer p.mu.Unlock()

	var best []*peerEntry
	var bestHeight int32 = -1
	for _, e := range p.peers {
		switch {
		case e.lastBlockHeight > bestHeight:
			bestHeight = e.lastBlockHeight
			best = []*peerEntry{e}
		case e.lastBlockHeight == bestHeight:
			best = append(best, e)
		}
	}
	if len(best) == 0 {
		return nil
	}
	return best[p.rng.Intn(len(best))].peer
}

// OtherPeers returns every registered peer other than exclude, used to
// spread Phase B range assignments across the pool.
func (p *PeerPool) OtherPeers(exclude *peer.Peer) []*peer.Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*peer.Peer, 0, len(p.peers))
	for _, e := range p.peers {
		if e.peer != exclude {
			out = append(out, e.peer)
		}
	}
	return out
}

// MarkFailed records a connection failure for addr and returns how long the
// caller should wait before retrying it.
func (p *PeerPool) MarkFailed(addr string, now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.backoff[addr]
	if !ok {
		b = &backoffState{next: p.cfg.BaseBackoff}
		p.backoff[addr] = b
	} else {
		b.next *= 2
		if b.next > p.cfg.MaxBackoff {
			b.next = p.cfg.MaxBackoff
		}
	}
	b.until = now.Add(b.next)
	return b.next
}

// Eligible reports whether addr's backoff window has elapsed.
func (p *PeerPool) Eligible(addr string, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.backoff[addr]
	return !ok || !now.Before(b.until)
}

// ResetBackoff clears addr's retry schedule after a successful connection.
func (p *PeerPool) ResetBackoff(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.backoff, addr)
}
