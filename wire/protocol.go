// Copyright (c) 2013-2024 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the latest protocol version this package supports.
	ProtocolVersion uint32 = 70016

	// MultipleAddressVersion is the protocol version which added multiple
	// addresses per message (pver >= MultipleAddressVersion).
	MultipleAddressVersion uint32 = 209

	// NetAddressTimeVersion is the protocol version which added the
	// timestamp field (pver >= NetAddressTimeVersion).
	NetAddressTimeVersion uint32 = 31402

	// BIP0031Version is the protocol version AFTER which a pong message
	// and nonce field in ping were added (pver > BIP0031Version).
	BIP0031Version uint32 = 60000

	// BIP0035Version is the protocol version which added the mempool
	// message (pver >= BIP0035Version).
	BIP0035Version uint32 = 60002

	// BIP0037Version is the protocol version which added bloom filtering
	// related messages and extended the version message with a relay flag
	// (pver >= BIP0037Version). It is the peer session's default minimum
	// version; a remote below it fails the handshake.
	BIP0037Version uint32 = 70001

	// RejectVersion is the protocol version which added the reject message.
	RejectVersion uint32 = 70002

	// BIP0111Version is the protocol version which added the SFNodeBloom
	// service flag.
	BIP0111Version uint32 = 70011

	// AddrV2Version is the protocol version which added the sendaddrv2
	// handshake message.
	AddrV2Version uint32 = 70016
)

// ServiceFlag identifies services supported by a peer, advertised in its
// version message and in addr entries.
type ServiceFlag uint64

const (
	// SFNodeNetwork indicates a peer is a full node serving complete blocks,
	// not just headers.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeGetUTXO indicates a peer supports the getutxos/utxos commands.
	SFNodeGetUTXO

	// SFNodeBloom indicates a peer supports bloom filtering (BIP0037). A
	// peer session with bloom filtering enabled fails the handshake when
	// the remote does not advertise it.
	SFNodeBloom

	// SFNodeWitness indicates a peer supports segregated witness data. The
	// header format and validation rules in this module predate witness
	// soft-fork activation and never request it, but the flag is decoded so
	// peer advertisements round-trip.
	SFNodeWitness

	// SFNodeNetworkLimited indicates a peer only serves a recent window of
	// blocks rather than the full chain.
	SFNodeNetworkLimited ServiceFlag = 1 << 10
)

var sfStrings = map[ServiceFlag]string{
	SFNodeNetwork:        "SFNodeNetwork",
	SFNodeGetUTXO:        "SFNodeGetUTXO",
	SFNodeBloom:          "SFNodeBloom",
	SFNodeWitness:        "SFNodeWitness",
	SFNodeNetworkLimited: "SFNodeNetworkLimited",
}

var orderedSFStrings = []ServiceFlag{
	SFNodeNetwork,
	SFNodeGetUTXO,
	SFNodeBloom,
	SFNodeWitness,
	SFNodeNetworkLimited,
}

// HasFlag returns a bool indicating if the service has the given flag.
func (f ServiceFlag) HasFlag(s ServiceFlag) bool {
	return f&s == s
}

// String returns the ServiceFlag in human-readable form.
func (f ServiceFlag) String() string {
	if f == 0 {
		return "0x0"
	}

	s := ""
	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			s += sfStrings[flag] + "|"
			f -= flag
		}
	}

	s = strings.TrimRight(s, "|")
	if f != 0 {
		s += "|0x" + strconv.FormatUint(uint64(f), 16)
	}
	return strings.TrimLeft(s, "|")
}

// FlcNet identifies which network a message frame's magic number belongs to.
type FlcNet uint32

const (
	// MainNet is the production network.
	MainNet FlcNet = 0xd9b4bef9

	// TestNet3 is the public test network.
	TestNet3 FlcNet = 0x0709110b

	// SimNet is a locally simulated network used for integration tests.
	SimNet FlcNet = 0x12141c16

	// RegTest is a regression-test network with no difficulty retargeting.
	RegTest FlcNet = 0xdab5bffa
)

var netStrings = map[FlcNet]string{
	MainNet:  "MainNet",
	TestNet3: "TestNet3",
	SimNet:   "SimNet",
	RegTest:  "RegTest",
}

// String returns the FlcNet in human-readable form.
func (n FlcNet) String() string {
	if s, ok := netStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown FlcNet (%d)", uint32(n))
}
