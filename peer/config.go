// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/wire"
)

// Default timing parameters, overridable per Config.
const (
	// DefaultHandshakeTimeout bounds how long the version/verack exchange
	// may take before the session gives up on a new connection.
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultKeepAliveIdle is how long a connection may go without
	// receiving any bytes before the session pings it (§4.4).
	DefaultKeepAliveIdle = 90 * time.Second

	// DefaultPingTimeout bounds how long a pong may take to arrive once
	// a keep-alive ping has been sent.
	DefaultPingTimeout = 30 * time.Second

	// DefaultRequestTimeout is the per-request deadline used for
	// getheaders/getdata requests that do not specify their own (§4.4).
	DefaultRequestTimeout = 15 * time.Second

	// DefaultMinProtocolVersion is the lowest protocol version a version
	// message may advertise before the session rejects it.
	DefaultMinProtocolVersion = wire.BIP0037Version
)

// FilterProvider supplies the bloom filter a session uploads on entering
// Connected when bloom filtering is enabled. The session consults it only
// then; it has no operation for reloading the filter on an established
// connection.
type FilterProvider interface {
	// FilterLoadMsg returns the filterload payload for the active
	// filter, or nil if no filter has been configured yet.
	FilterLoadMsg() *wire.MsgFilterLoad
}

// Config configures the behavior of a single Peer. Two peers in the same
// pool may legitimately use different configs: a relay-only peer, for
// instance, might set DownloadBlocks false (WaSPV's shouldDownloadBlocks).
type Config struct {
	ChainParams *chaincfg.Params

	// UserAgentName/Version/Comments build the UserAgent string sent in
	// this node's version message.
	UserAgentName     string
	UserAgentVersion  string
	UserAgentComments []string

	// ProtocolVersion is the highest protocol version this session will
	// advertise; MinProtocolVersion is the lowest it will accept from
	// the remote's own version message.
	ProtocolVersion    uint32
	MinProtocolVersion uint32

	// Services advertised by the local peer in its own version message.
	Services wire.ServiceFlag

	// DownloadBlocks (WaSPV's shouldDownloadBlocks) sets the relay flag
	// of this node's version message: false asks the remote not to relay
	// transactions. Neither the session nor the coordinator consults it
	// before a getdata for FilteredBlock inventory is sent.
	DownloadBlocks bool

	// BloomFilteringEnabled gates whether the session uploads a filter
	// on connect (WaSPV's needsBloomFiltering) and requires SFNodeBloom
	// from the remote's advertised services.
	BloomFilteringEnabled bool
	Filter                FilterProvider

	// BestHeight is reported in this node's outgoing version message as
	// LastBlock.
	BestHeight func() int32

	HandshakeTimeout time.Duration
	KeepAliveIdle    time.Duration
	PingTimeout      time.Duration
	RequestTimeout   time.Duration

	// Listener receives every application event this session produces
	// (§9's "explicit event channel" in place of callback soup). It is
	// always non-nil; NewInboundPeer/NewOutboundPeer installs a no-op
	// listener if the caller leaves it nil.
	Listener EventListener
}

func (c *Config) setDefaults() {
	if c.ProtocolVersion == 0 {
		c.ProtocolVersion = wire.ProtocolVersion
	}
	if c.MinProtocolVersion == 0 {
		c.MinProtocolVersion = DefaultMinProtocolVersion
	}
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.KeepAliveIdle == 0 {
		c.KeepAliveIdle = DefaultKeepAliveIdle
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = DefaultPingTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.UserAgentName == "" {
		c.UserAgentName = "spvd"
	}
	if c.UserAgentVersion == "" {
		c.UserAgentVersion = "0.1.0"
	}
	if c.BestHeight == nil {
		c.BestHeight = func() int32 { return 0 }
	}
	if c.Listener == nil {
		c.Listener = noopListener{}
	}
}

// userAgent builds the UserAgent string sent in the outgoing version
// message, following the reference "/name:version(comments)/" convention.
func (c *Config) userAgent() string {
	ua := "/" + c.UserAgentName + ":" + c.UserAgentVersion
	if len(c.UserAgentComments) > 0 {
		ua += "("
		for i, comment := range c.UserAgentComments {
			if i > 0 {
				ua += "; "
			}
			ua += comment
		}
		ua += ")"
	}
	return ua + "/"
}
