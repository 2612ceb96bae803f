// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/spvsync"
	"github.com/spvbridge/spvd/wire"
)

// logSubscriber is the always-on spvsync.ChainSubscriber that narrates
// chain progress to the log, independent of whether a websocket notifier
// is also listening.
type logSubscriber struct{}

func (logSubscriber) Connected(n *blockchain.BlockNode) {
	syncLog.Infof("connected block %s at height %d", n.Hash, n.Height)
}

func (logSubscriber) Disconnected(n *blockchain.BlockNode) {
	syncLog.Infof("disconnected block %s at height %d", n.Hash, n.Height)
}

func (logSubscriber) Reorganized(oldTip, newTip, commonAncestor *blockchain.BlockNode) {
	syncLog.Warnf("reorganized from %s to %s (common ancestor %s at height %d)",
		oldTip.Hash, newTip.Hash, commonAncestor.Hash, commonAncestor.Height)
}

func (logSubscriber) RelevantTransaction(tx *wire.MsgTx, containing *chainhash.Hash) {
	if containing != nil {
		syncLog.Infof("relevant transaction %s in block %s", tx.TxHash(), containing)
		return
	}
	syncLog.Infof("relevant transaction %s relayed", tx.TxHash())
}

func (logSubscriber) DownloadFailed(err spvsync.CoordinatorError) {
	syncLog.Warnf("download failed: %v", err)
}

var _ spvsync.ChainSubscriber = logSubscriber{}

// fanoutSubscriber dispatches every event to each of its members in order,
// letting main wire the always-on log subscriber alongside an optional
// rpc.Notifier without the coordinator knowing either exists.
type fanoutSubscriber []spvsync.ChainSubscriber

func (f fanoutSubscriber) Connected(n *blockchain.BlockNode) {
	for _, s := range f {
		s.Connected(n)
	}
}

func (f fanoutSubscriber) Disconnected(n *blockchain.BlockNode) {
	for _, s := range f {
		s.Disconnected(n)
	}
}

func (f fanoutSubscriber) Reorganized(oldTip, newTip, commonAncestor *blockchain.BlockNode) {
	for _, s := range f {
		s.Reorganized(oldTip, newTip, commonAncestor)
	}
}

func (f fanoutSubscriber) RelevantTransaction(tx *wire.MsgTx, containing *chainhash.Hash) {
	for _, s := range f {
		s.RelevantTransaction(tx, containing)
	}
}

func (f fanoutSubscriber) DownloadFailed(err spvsync.CoordinatorError) {
	for _, s := range f {
		s.DownloadFailed(err)
	}
}

var _ spvsync.ChainSubscriber = fanoutSubscriber(nil)
