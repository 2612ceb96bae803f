// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"time"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/storage"
)

// Default tuning parameters, overridable per Config.
const (
	// DefaultBlockRangeSize is the number of contiguous blocks assigned
	// to one peer per Phase B request (§4.5).
	DefaultBlockRangeSize = 500

	// DefaultBlockRangeTimeout is the deadline for a peer to deliver a
	// full range before it is reassigned (§4.5, Open Question decision:
	// 15s, the documented reference default).
	DefaultBlockRangeTimeout = 15 * time.Second

	// DefaultFastCatchupThreshold is how close to the current time a
	// header's timestamp must be before Phase A is considered caught up.
	DefaultFastCatchupThreshold = 24 * time.Hour

	// DefaultMinRelays is the number of distinct peers that must
	// request an outbound transaction via getdata before it is
	// considered published (§4.6).
	DefaultMinRelays = 2

	// DefaultRelayDedupeWindow bounds how long an inbound transaction's
	// txid is remembered to suppress duplicate delivery (§4.6).
	DefaultRelayDedupeWindow = 10 * time.Minute

	// DefaultRelayDedupeCapacity bounds the inbound txid dedupe cache's
	// size as a backstop against DefaultRelayDedupeWindow never being
	// swept quickly enough under a flood of distinct transactions.
	DefaultRelayDedupeCapacity = 5000

	// DefaultBaseBackoff/DefaultMaxBackoff implement the coordinator's
	// peer retry policy (§7): 1s, 2s, 4s, ... capped at 60s.
	DefaultBaseBackoff = time.Second
	DefaultMaxBackoff  = 60 * time.Second

	// DefaultMaxPeers is the default for Config.MaxPeers. PeerPool does
	// not enforce it; cmd/spvd uses its own MaxPeers to cap how many
	// peers it dials.
	DefaultMaxPeers = 8
)

// Config configures a Coordinator.
type Config struct {
	ChainParams *chaincfg.Params

	// Persister is the optional storage port (§6) the coordinator
	// writes through as blocks connect, disconnect, and deliver
	// verified partial Merkle trees. A nil Persister leaves the
	// coordinator purely in-memory, matching a client that re-syncs
	// headers from genesis on every restart.
	Persister storage.Store

	BlockRangeSize       int32
	BlockRangeTimeout    time.Duration
	FastCatchupThreshold time.Duration
	MinRelays            int
	RelayDedupeWindow    time.Duration
	RelayDedupeCapacity  uint
	BaseBackoff          time.Duration
	MaxBackoff           time.Duration
	MaxPeers             int

	// Now is overridable for deterministic tests; defaults to time.Now.
	Now func() time.Time
}

func (c *Config) setDefaults() {
	if c.BlockRangeSize == 0 {
		c.BlockRangeSize = DefaultBlockRangeSize
	}
	if c.BlockRangeTimeout == 0 {
		c.BlockRangeTimeout = DefaultBlockRangeTimeout
	}
	if c.FastCatchupThreshold == 0 {
		c.FastCatchupThreshold = DefaultFastCatchupThreshold
	}
	if c.MinRelays == 0 {
		c.MinRelays = DefaultMinRelays
	}
	if c.RelayDedupeWindow == 0 {
		c.RelayDedupeWindow = DefaultRelayDedupeWindow
	}
	if c.RelayDedupeCapacity == 0 {
		c.RelayDedupeCapacity = DefaultRelayDedupeCapacity
	}
	if c.BaseBackoff == 0 {
		c.BaseBackoff = DefaultBaseBackoff
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.MaxPeers == 0 {
		c.MaxPeers = DefaultMaxPeers
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
