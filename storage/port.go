// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage defines the persistence port (§6) the header-chain
// engine and download coordinator issue calls against: every accepted
// header and every verified partial Merkle tree is handed to a Store so a
// restart can reload the chain without a full header re-download. The core
// never depends on a concrete storage engine directly; storage/leveldb is
// the one implementation this module ships.
package storage

import (
	"math/big"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// StoredBlock is the persisted shape of one accepted header: the header
// itself plus the derived height and cumulative work a Store must record
// alongside it to reload a chain without recomputing the retarget history
// from genesis.
type StoredBlock struct {
	Header         wire.BlockHeader
	Height         int32
	CumulativeWork *big.Int
}

// BlockID returns the block id of the stored header.
func (b *StoredBlock) BlockID() chainhash.Hash {
	return b.Header.BlockHash()
}

// BlockIterator walks every StoredBlock a Store holds, in ascending height
// order, as LoadChain's result. Usage mirrors database/sql's Rows: call
// Next to advance and check for more, then Block to read the current
// element.
//
//	iter, err := store.LoadChain()
//	for iter.Next() {
//		b, err := iter.Block()
//		...
//	}
type BlockIterator interface {
	// Next advances the iterator and reports whether an element is now
	// available. It returns false once the chain is exhausted.
	Next() bool

	// Block returns the element Next just advanced to. Calling it
	// before a successful Next, or after Next returns false, is an
	// error.
	Block() (*StoredBlock, error)
}

// Tx groups a set of writes into one atomic commit. The download
// coordinator does not use it: it writes each connected or disconnected
// block with Store's one-shot methods, so the writes of a reorg are not
// committed together.
type Tx interface {
	PersistBlock(b *StoredBlock) error
	PersistPartialMerkleTree(blockID chainhash.Hash, tree *wire.MsgMerkleBlock) error
	DeleteBlock(blockID chainhash.Hash) error

	// Commit applies every write issued against the Tx atomically.
	// Calling it more than once, or after Rollback, is an error.
	Commit() error

	// Rollback discards every write issued against the Tx. It is a
	// no-op after a successful Commit.
	Rollback() error
}

// Store is the storage port a concrete engine (storage/leveldb) satisfies.
// All operations are safe for concurrent use, but the core only ever calls
// them from its single group thread (§5).
type Store interface {
	// LoadChain returns an iterator over every previously persisted
	// block, in ascending height order, used to repopulate a
	// blockchain.Store on startup without a full header re-download.
	LoadChain() (BlockIterator, error)

	// PersistBlock stores or overwrites b, indexed by both its block id
	// and its height.
	PersistBlock(b *StoredBlock) error

	// PersistPartialMerkleTree stores the verified partial Merkle tree
	// for blockID, the proof a rescan or an upward subscriber can later
	// replay without re-fetching it from a peer.
	PersistPartialMerkleTree(blockID chainhash.Hash, tree *wire.MsgMerkleBlock) error

	// DeleteBlock removes a block and any partial Merkle tree stored
	// for it. The download coordinator calls it when a block leaves the
	// active chain during a reorganization.
	DeleteBlock(blockID chainhash.Hash) error

	// Transaction opens a batched handle for a set of writes that must
	// commit atomically together.
	Transaction() (Tx, error)

	// Close releases the underlying storage engine's resources.
	Close() error
}
