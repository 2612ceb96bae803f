// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"

	"github.com/spvbridge/spvd/wire"
)

// EventKind tags the payload carried by an Event. A coordinator switches on
// Kind rather than implementing one callback method per message type -- the
// redesign SPEC_FULL.md calls for in place of the teacher's per-message
// OnVersion/OnVerAck/OnHeaders/... callback bag.
type EventKind int

const (
	// EventHandshakeComplete fires once when a session enters
	// StateConnected, carrying the remote's advertised version info.
	EventHandshakeComplete EventKind = iota

	// EventHeaders carries a headers message's payload.
	EventHeaders

	// EventMerkleBlock carries a merkleblock message together with the
	// filtered transactions the remote sent immediately after it.
	EventMerkleBlock

	// EventTx carries a tx message not claimed by any pending
	// merkleblock (a relay announcement the session did not request via
	// getdata for a filtered block).
	EventTx

	// EventInv carries an inv message's advertised entries.
	EventInv

	// EventNotFound carries a notfound message's entries, signaling a
	// prior getdata request can never be satisfied by this peer.
	EventNotFound

	// EventGetData carries an inbound getdata message's entries: the
	// remote is requesting inventory this session previously announced
	// via inv, most often a relayed transaction (§4.6).
	EventGetData

	// EventAddr carries an addr message's advertised addresses.
	EventAddr

	// EventDisconnected fires once, terminally, when the session leaves
	// the connection. Err is nil for a caller-initiated Disconnect.
	EventDisconnected
)

// Event is the single message type a Peer posts to its Listener. Exactly one
// of the payload fields is populated, selected by Kind.
type Event struct {
	Kind EventKind
	Peer *Peer

	Version  *wire.MsgVersion
	Headers  []*wire.BlockHeader
	Block    *MerkleBlockEvent
	Tx       *wire.MsgTx
	Inv      []*wire.InvVect
	NotFound []*wire.InvVect
	GetData  []*wire.InvVect
	Addrs    []*wire.NetAddress

	Err error
}

// MerkleBlockEvent pairs a merkleblock message with the filtered
// transactions the remote peer sent immediately following it, matched by the
// pending-tx tracking described in request.go.
type MerkleBlockEvent struct {
	Header  *wire.MsgMerkleBlock
	Matched []*wire.MsgTx
}

// EventListener receives every Event a Peer produces. Implementations must
// not block: the group thread that calls Post also drives the session's
// message loop, so a slow listener stalls the whole session (§5).
type EventListener interface {
	Post(e Event)
}

// noopListener discards every event; it is installed when a Config leaves
// Listener nil so Peer never has to nil-check before posting.
type noopListener struct{}

func (noopListener) Post(Event) {}

// ChanListener adapts a buffered channel into an EventListener. A full
// channel causes Post to drop the event and log it rather than block the
// session's group thread.
type ChanListener chan Event

// Post implements EventListener.
func (c ChanListener) Post(e Event) {
	select {
	case c <- e:
	default:
		logger.Warnf("event channel full, dropping %v event from %s", e.Kind, peerAddr(e.Peer))
	}
}

func peerAddr(p *Peer) net.Addr {
	if p == nil {
		return nil
	}
	return p.Addr()
}

// String returns the EventKind in human-readable form, used in logging.
func (k EventKind) String() string {
	switch k {
	case EventHandshakeComplete:
		return "HandshakeComplete"
	case EventHeaders:
		return "Headers"
	case EventMerkleBlock:
		return "MerkleBlock"
	case EventTx:
		return "Tx"
	case EventInv:
		return "Inv"
	case EventNotFound:
		return "NotFound"
	case EventGetData:
		return "GetData"
	case EventAddr:
		return "Addr"
	case EventDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}
