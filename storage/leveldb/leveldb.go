// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb implements storage.Store against a local LevelDB
// database (github.com/syndtr/goleveldb), the on-disk index family the
// teacher's full-node storage engine builds on. Unlike a full node this
// package never stores block bodies: only headers, their derived height
// and cumulative work, and the partial Merkle trees a rescan or a late
// subscriber may want to replay without re-fetching them from a peer.
package leveldb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/syndtr/goleveldb/leveldb"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/storage"
	"github.com/spvbridge/spvd/wire"
)

// Key prefixes partition the single LevelDB keyspace into three logical
// tables: blocks by id, a height index for ascending replay, and partial
// Merkle trees by the block id they prove inclusion against.
const (
	prefixBlock  byte = 'b'
	prefixHeight byte = 'h'
	prefixTree   byte = 'm'
)

func blockKey(id chainhash.Hash) []byte {
	k := make([]byte, 1+chainhash.HashSize)
	k[0] = prefixBlock
	copy(k[1:], id[:])
	return k
}

func heightKey(height int32) []byte {
	k := make([]byte, 5)
	k[0] = prefixHeight
	binary.BigEndian.PutUint32(k[1:], uint32(height))
	return k
}

func treeKey(id chainhash.Hash) []byte {
	k := make([]byte, 1+chainhash.HashSize)
	k[0] = prefixTree
	copy(k[1:], id[:])
	return k
}

// Store opens and operates a LevelDB-backed storage.Store.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	logger.Infof("opened chain database at %s", path)
	return &Store{db: db}, nil
}

// OpenMem opens an in-memory database that never touches disk. Only tests
// use it; cmd/spvd always opens an on-disk database.
func OpenMem() (*Store, error) {
	db, err := leveldb.Open(ldbstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close implements storage.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Transaction implements storage.Store.
func (s *Store) Transaction() (storage.Tx, error) {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return &tx{tr: tr}, nil
}

// PersistBlock implements storage.Store by wrapping the write in its own
// one-shot transaction, so a caller that doesn't need to batch several
// writes together isn't obliged to manage a Tx by hand.
func (s *Store) PersistBlock(b *storage.StoredBlock) error {
	return s.withTx(func(t *tx) error { return t.PersistBlock(b) })
}

// PersistPartialMerkleTree implements storage.Store.
func (s *Store) PersistPartialMerkleTree(blockID chainhash.Hash, tree *wire.MsgMerkleBlock) error {
	return s.withTx(func(t *tx) error { return t.PersistPartialMerkleTree(blockID, tree) })
}

// DeleteBlock implements storage.Store.
func (s *Store) DeleteBlock(blockID chainhash.Hash) error {
	return s.withTx(func(t *tx) error { return t.DeleteBlock(blockID) })
}

func (s *Store) withTx(fn func(t *tx) error) error {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return err
	}
	t := &tx{tr: tr}
	if err := fn(t); err != nil {
		t.Rollback()
		logger.Warnf("rolled back transaction: %v", err)
		return err
	}
	return t.Commit()
}

// LoadChain implements storage.Store, replaying every persisted block in
// ascending height order via the height index.
func (s *Store) LoadChain() (storage.BlockIterator, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{prefixHeight}), nil)
	return &blockIterator{db: s.db, iter: iter}, nil
}

type blockIterator struct {
	db   *leveldb.DB
	iter interface {
		Next() bool
		Value() []byte
		Release()
	}
	released bool
}

// Next implements storage.BlockIterator.
func (it *blockIterator) Next() bool {
	if it.released {
		return false
	}
	if it.iter.Next() {
		return true
	}
	it.iter.Release()
	it.released = true
	return false
}

// Block implements storage.BlockIterator.
func (it *blockIterator) Block() (*storage.StoredBlock, error) {
	var id chainhash.Hash
	copy(id[:], it.iter.Value())

	raw, err := it.db.Get(blockKey(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeStoredBlock(raw)
}

// tx wraps a LevelDB native transaction, which already provides the
// atomic-batch-commit semantics storage.Tx requires (§6).
type tx struct {
	tr *leveldb.Transaction
}

func (t *tx) PersistBlock(b *storage.StoredBlock) error {
	id := b.BlockID()
	if err := t.tr.Put(blockKey(id), encodeStoredBlock(b), nil); err != nil {
		return err
	}
	return t.tr.Put(heightKey(b.Height), id[:], nil)
}

func (t *tx) PersistPartialMerkleTree(blockID chainhash.Hash, tree *wire.MsgMerkleBlock) error {
	var buf bytes.Buffer
	if err := tree.FlcEncode(&buf, wire.ProtocolVersion, wire.BaseEncoding); err != nil {
		return err
	}
	return t.tr.Put(treeKey(blockID), buf.Bytes(), nil)
}

func (t *tx) DeleteBlock(blockID chainhash.Hash) error {
	raw, err := t.tr.Get(blockKey(blockID), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil
		}
		return err
	}
	b, err := decodeStoredBlock(raw)
	if err != nil {
		return err
	}

	if err := t.tr.Delete(blockKey(blockID), nil); err != nil {
		return err
	}
	if err := t.tr.Delete(heightKey(b.Height), nil); err != nil {
		return err
	}
	return t.tr.Delete(treeKey(blockID), nil)
}

func (t *tx) Commit() error {
	return t.tr.Commit()
}

func (t *tx) Rollback() error {
	t.tr.Discard()
	return nil
}

// encodeStoredBlock serializes b as its 80-byte header, a 4-byte height,
// a 2-byte work-length prefix, and the big-endian work magnitude bytes.
func encodeStoredBlock(b *storage.StoredBlock) []byte {
	var buf bytes.Buffer
	buf.Grow(wire.BlockHeaderLen + 6)

	// Serialize never fails against a bytes.Buffer.
	_ = b.Header.Serialize(&buf)

	var heightBytes [4]byte
	binary.BigEndian.PutUint32(heightBytes[:], uint32(b.Height))
	buf.Write(heightBytes[:])

	work := b.CumulativeWork.Bytes()
	var lenBytes [2]byte
	binary.BigEndian.PutUint16(lenBytes[:], uint16(len(work)))
	buf.Write(lenBytes[:])
	buf.Write(work)

	return buf.Bytes()
}

func decodeStoredBlock(raw []byte) (*storage.StoredBlock, error) {
	if len(raw) < wire.BlockHeaderLen+6 {
		return nil, errors.New("leveldb: truncated stored block record")
	}
	r := bytes.NewReader(raw)

	var header wire.BlockHeader
	if err := header.Deserialize(r); err != nil {
		return nil, err
	}

	var heightBytes [4]byte
	if _, err := r.Read(heightBytes[:]); err != nil {
		return nil, err
	}
	height := int32(binary.BigEndian.Uint32(heightBytes[:]))

	var lenBytes [2]byte
	if _, err := r.Read(lenBytes[:]); err != nil {
		return nil, err
	}
	workLen := binary.BigEndian.Uint16(lenBytes[:])
	workBytes := make([]byte, workLen)
	if workLen > 0 {
		if _, err := r.Read(workBytes); err != nil {
			return nil, err
		}
	}

	return &storage.StoredBlock{
		Header:         header,
		Height:         height,
		CumulativeWork: new(big.Int).SetBytes(workBytes),
	}, nil
}
