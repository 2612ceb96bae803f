// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc gives the "user-facing notification fan-out" spec.md treats
// as an external collaborator a minimal concrete shape: a websocket
// endpoint that relays ChainSubscriber events to whatever local demo or
// CLI process wants to watch this node sync, using the same
// gorilla/websocket dependency the teacher's JSON-RPC server uses for its
// own notification transport. The actual collaborator -- a wallet UI, a
// block explorer -- remains free to implement its own consumer against
// this wire shape; spvd ships only the producer side.
package rpc

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/spvsync"
	"github.com/spvbridge/spvd/wire"
)

// EventType names the kind of notification carried by an Event.
type EventType string

const (
	EventConnected      EventType = "connected"
	EventDisconnected   EventType = "disconnected"
	EventReorganized    EventType = "reorganized"
	EventRelevantTx     EventType = "relevant_transaction"
	EventDownloadFailed EventType = "download_failed"
)

const (
	clientSendBuffer   = 32
	clientWriteTimeout = 5 * time.Second
)

// Event is the JSON shape broadcast to every connected websocket client.
type Event struct {
	Type EventType `json:"type"`

	Hash   string `json:"hash,omitempty"`
	Height int32  `json:"height,omitempty"`

	OldTip         string `json:"old_tip,omitempty"`
	NewTip         string `json:"new_tip,omitempty"`
	CommonAncestor string `json:"common_ancestor,omitempty"`

	Txid      string `json:"txid,omitempty"`
	Container string `json:"container,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Notifier fans ChainSubscriber events out to every connected websocket
// client. It implements spvsync.ChainSubscriber directly, so it can be
// registered with a Coordinator in place of (or chained alongside) any
// other subscriber.
type Notifier struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Event
	quit chan struct{}
}

// NewNotifier creates an empty Notifier with no connected clients.
func NewNotifier() *Notifier {
	return &Notifier{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// to receive every subsequent broadcast until it disconnects.
func (n *Notifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("rpc: websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientSendBuffer), quit: make(chan struct{})}
	n.mu.Lock()
	n.clients[c] = struct{}{}
	n.mu.Unlock()

	go n.writeLoop(c)
	go n.readLoop(c)
}

// readLoop discards inbound frames but is required so the connection's
// close frame is honored; no read deadline is set. This endpoint is
// publish-only.
func (n *Notifier) readLoop(c *client) {
	defer n.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (n *Notifier) writeLoop(c *client) {
	defer c.conn.Close()
	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(clientWriteTimeout))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-c.quit:
			return
		}
	}
}

func (n *Notifier) remove(c *client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.clients[c]; ok {
		delete(n.clients, c)
		close(c.quit)
	}
}

// broadcast hands ev to every connected client's send buffer, dropping it
// for any client whose buffer is already full rather than blocking the
// coordinator's group thread (§5: a slow subscriber must never stall
// chain processing).
func (n *Notifier) broadcast(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for c := range n.clients {
		select {
		case c.send <- ev:
		default:
			logger.Warnf("rpc: client send buffer full, dropping %s event", ev.Type)
		}
	}
}

// Connected implements blockchain.Subscriber (embedded in
// spvsync.ChainSubscriber).
func (n *Notifier) Connected(node *blockchain.BlockNode) {
	n.broadcast(Event{Type: EventConnected, Hash: node.Hash.String(), Height: node.Height})
}

// Disconnected implements blockchain.Subscriber.
func (n *Notifier) Disconnected(node *blockchain.BlockNode) {
	n.broadcast(Event{Type: EventDisconnected, Hash: node.Hash.String(), Height: node.Height})
}

// Reorganized implements blockchain.Subscriber.
func (n *Notifier) Reorganized(oldTip, newTip, commonAncestor *blockchain.BlockNode) {
	n.broadcast(Event{
		Type:           EventReorganized,
		OldTip:         oldTip.Hash.String(),
		NewTip:         newTip.Hash.String(),
		CommonAncestor: commonAncestor.Hash.String(),
	})
}

// RelevantTransaction implements spvsync.ChainSubscriber.
func (n *Notifier) RelevantTransaction(tx *wire.MsgTx, containing *chainhash.Hash) {
	ev := Event{Type: EventRelevantTx, Txid: tx.TxHash().String()}
	if containing != nil {
		ev.Container = containing.String()
	}
	n.broadcast(ev)
}

// DownloadFailed implements spvsync.ChainSubscriber.
func (n *Notifier) DownloadFailed(err spvsync.CoordinatorError) {
	n.broadcast(Event{Type: EventDownloadFailed, Reason: err.Error()})
}

var _ spvsync.ChainSubscriber = (*Notifier)(nil)
