// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"
	"time"

	"github.com/spvbridge/spvd/chainhash"
)

// requestTracker records outstanding getdata requests so the session can
// notice a peer that goes silent on a specific piece of inventory rather
// than only on the connection as a whole. Every tracked request carries its
// own deadline; requestTracker itself does not run a timer -- the session's
// group thread polls Expired on each tick of its own loop.
type requestTracker struct {
	mu        sync.Mutex
	byHash    map[chainhash.Hash]*outstandingRequest
	pendingTx map[chainhash.Hash]*pendingMerkleBlock
}

type outstandingRequest struct {
	hash     chainhash.Hash
	deadline time.Time
}

// pendingMerkleBlock accumulates the filtered transactions a remote sends
// immediately after a merkleblock message. Bitcoin's wire protocol does not
// frame these together, so the session must hold back the merkleblock event
// until every matched tx has arrived or a request timeout elapses.
type pendingMerkleBlock struct {
	header   *chainhash.Hash
	expected uint32
	txs      []chainhash.Hash
	deadline time.Time
}

func newRequestTracker() *requestTracker {
	return &requestTracker{
		byHash:    make(map[chainhash.Hash]*outstandingRequest),
		pendingTx: make(map[chainhash.Hash]*pendingMerkleBlock),
	}
}

// Add records a new outstanding request for hash, due by deadline.
func (t *requestTracker) Add(hash chainhash.Hash, deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byHash[hash] = &outstandingRequest{hash: hash, deadline: deadline}
}

// Fulfill clears the outstanding request for hash, if any was tracked.
func (t *requestTracker) Fulfill(hash chainhash.Hash) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byHash, hash)
}

// Expired returns every outstanding request whose deadline has passed as of
// now, clearing them from the tracker.
func (t *requestTracker) Expired(now time.Time) []chainhash.Hash {
	t.mu.Lock()
	defer t.mu.Unlock()

	var expired []chainhash.Hash
	for hash, req := range t.byHash {
		if now.After(req.deadline) {
			expired = append(expired, hash)
			delete(t.byHash, hash)
		}
	}
	return expired
}

// Len reports how many requests are currently outstanding.
func (t *requestTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byHash)
}

// BeginMerkleBlock opens a pending accumulation for a merkleblock whose
// partial merkle tree matches `expected` transactions, due by
// deadline. A merkleblock announcing zero matches is never opened; the
// caller should post its Event immediately instead.
func (t *requestTracker) BeginMerkleBlock(blockHash chainhash.Hash, expected uint32, deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := blockHash
	t.pendingTx[blockHash] = &pendingMerkleBlock{
		header:   &h,
		expected: expected,
		deadline: deadline,
	}
}

// AddMatchedTx records a tx message against an open merkleblock
// accumulation that is still awaiting matches. It returns that block's
// hash with complete true once expected has been reached (the
// accumulation is then closed), or with complete false while it is still
// in progress. When no accumulation is open it returns the zero hash and
// false.
func (t *requestTracker) AddMatchedTx(txid chainhash.Hash) (blockHash chainhash.Hash, complete bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for hash, p := range t.pendingTx {
		if uint32(len(p.txs)) >= p.expected {
			continue
		}
		p.txs = append(p.txs, txid)
		if uint32(len(p.txs)) >= p.expected {
			delete(t.pendingTx, hash)
			return hash, true
		}
		return hash, false
	}
	return chainhash.Hash{}, false
}

// ExpiredMerkleBlocks returns the block hashes of any pending merkleblock
// accumulations whose deadline has passed, clearing them from the tracker.
// The session treats these as a protocol violation: the remote announced
// matches it never delivered.
func (t *requestTracker) ExpiredMerkleBlocks(now time.Time) []chainhash.Hash {
	t.mu.Lock()
	defer t.mu.Unlock()

	var expired []chainhash.Hash
	for hash, p := range t.pendingTx {
		if now.After(p.deadline) {
			expired = append(expired, hash)
			delete(t.pendingTx, hash)
		}
	}
	return expired
}
