// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"sync"

	"github.com/spvbridge/spvd/peer"
)

// reorderMap buffers filtered blocks delivered out of order by concurrent
// Phase B peers and releases them upward in strict ascending height order
// (§4.5, §5's ordering guarantee).
type reorderMap struct {
	mu         sync.Mutex
	pending    map[int32]*peer.MerkleBlockEvent
	nextHeight int32
}

func newReorderMap(startHeight int32) *reorderMap {
	return &reorderMap{
		pending:    make(map[int32]*peer.MerkleBlockEvent),
		nextHeight: startHeight,
	}
}

// Insert buffers ev at height and returns the contiguous run of blocks
// (starting at the map's current low-water mark) that are now releasable in
// order, advancing the low-water mark past them.
func (r *reorderMap) Insert(height int32, ev *peer.MerkleBlockEvent) []*peer.MerkleBlockEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if height < r.nextHeight {
		// Already released (e.g. a reassigned range's original holder
		// delivered late); drop it.
		return nil
	}
	r.pending[height] = ev

	var out []*peer.MerkleBlockEvent
	for {
		e, ok := r.pending[r.nextHeight]
		if !ok {
			break
		}
		out = append(out, e)
		delete(r.pending, r.nextHeight)
		r.nextHeight++
	}
	return out
}

// NextHeight reports the lowest height not yet released.
func (r *reorderMap) NextHeight() int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextHeight
}

// Rewind resets the low-water mark to height, discarding any buffered
// blocks at or above it; used when a rescan restarts Phase B from an
// earlier point (§4.5's rescan operation).
func (r *reorderMap) Rewind(height int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextHeight = height
	for h := range r.pending {
		if h >= height {
			delete(r.pending, h)
		}
	}
}
