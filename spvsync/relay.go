// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"sync"
	"time"

	"github.com/decred/dcrd/lru"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// pendingRelay tracks one outbound transaction awaiting enough distinct
// peer requests to be considered published (§4.6).
type pendingRelay struct {
	tx          *wire.MsgTx
	requestedBy map[string]struct{}
}

// RelayService implements the outbound publish threshold and inbound
// dedupe window §4.6 describes.
type RelayService struct {
	minRelays int

	mu      sync.Mutex
	pending map[chainhash.Hash]*pendingRelay

	seen      *lru.Cache[chainhash.Hash]
	seenTimes map[chainhash.Hash]time.Time
	window    time.Duration
}

// NewRelayService creates a RelayService requiring minRelays distinct
// peers before an outbound transaction is considered published, and
// deduping inbound transactions over window, backstopped by a
// capacity-bounded LRU so an unexpectedly large burst of distinct
// transactions cannot grow the dedupe set without limit.
func NewRelayService(minRelays int, window time.Duration, capacity uint) *RelayService {
	return &RelayService{
		minRelays: minRelays,
		pending:   make(map[chainhash.Hash]*pendingRelay),
		seen:      lru.NewCache[chainhash.Hash](capacity),
		seenTimes: make(map[chainhash.Hash]time.Time),
		window:    window,
	}
}

// Publish registers tx as an outbound transaction awaiting relay
// confirmation.
func (r *RelayService) Publish(tx *wire.MsgTx) {
	txid := tx.TxHash()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[txid] = &pendingRelay{tx: tx, requestedBy: make(map[string]struct{})}
}

// Pending returns the transaction awaiting relay for txid, or nil if none
// is pending. The coordinator's getdata handling does not call it: it
// counts the request but does not send the transaction.
func (r *RelayService) Pending(txid chainhash.Hash) *wire.MsgTx {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[txid]
	if !ok {
		return nil
	}
	return p.tx
}

// ObserveGetData records that peerAddr requested txid via getdata and
// reports whether the transaction has now crossed the minRelays threshold
// and should be considered published (and removed from pending).
func (r *RelayService) ObserveGetData(peerAddr string, txid chainhash.Hash) (published bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[txid]
	if !ok {
		return false
	}
	p.requestedBy[peerAddr] = struct{}{}
	if len(p.requestedBy) >= r.minRelays {
		delete(r.pending, txid)
		return true
	}
	return false
}

// ObserveInbound reports whether tx, observed outside a filtered block,
// should be delivered upward: true the first time its txid is seen within
// the dedupe window, false on every subsequent sighting.
func (r *RelayService) ObserveInbound(tx *wire.MsgTx) bool {
	txid := tx.TxHash()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen.Contains(txid) {
		r.seenTimes[txid] = time.Now()
		return false
	}
	r.seen.Add(txid)
	r.seenTimes[txid] = time.Now()
	return true
}

// Sweep evicts dedupe entries older than the configured window. The
// coordinator calls this periodically; the LRU's own capacity bound is
// only a backstop, so without a sweep a long-idle txid would otherwise
// linger indefinitely instead of aging out after window.
func (r *RelayService) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for txid, seenAt := range r.seenTimes {
		if now.Sub(seenAt) > r.window {
			delete(r.seenTimes, txid)
			r.seen.Delete(txid)
		}
	}
}
