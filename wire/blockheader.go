// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/spvbridge/spvd/chainhash"
)

// MaxBlockHeaderPayload is the number of bytes a block header occupies on
// the wire: 4 byte version + 4 byte timestamp + 4 byte bits + 4 byte nonce +
// two 32-byte hashes.
const (
	MaxBlockHeaderPayload = 16 + (chainhash.HashSize * 2)

	// BlockHeaderLen is the fixed 80-byte encoded length of a block header.
	BlockHeaderLen = 80
)

// BlockHeader defines the fixed 80-byte tuple that anchors a block in the
// header chain: version, previous block id, merkle root, timestamp, the
// compact proof-of-work target, and a nonce.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// PrevBlock is the hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// MerkleRoot is the root of the Merkle tree of all transactions for
	// this block.
	MerkleRoot chainhash.Hash

	// Timestamp the block was created.  Encoded on the wire as a uint32
	// number of seconds, limiting representable dates to the year 2106.
	Timestamp time.Time

	// Bits is the compact-encoded difficulty target for the block.
	Bits uint32

	// Nonce used to satisfy the proof-of-work target.
	Nonce uint32
}

// BlockHash computes the block identifier: the double-SHA256 of the 80-byte
// encoded header, interpreted as a little-endian Hash256.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		return writeBlockHeader(w, 0, h)
	})
}

// FlcDecode decodes r using the wire encoding into the receiver.  This is
// part of the Message interface implementation.
func (h *BlockHeader) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	return readBlockHeader(r, pver, h)
}

// FlcEncode encodes the receiver to w using the wire encoding.  This is part
// of the Message interface implementation.
func (h *BlockHeader) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	return writeBlockHeader(w, pver, h)
}

// Deserialize decodes a block header from r into the receiver using the
// same format as the wire encoding; there is no difference between the wire
// and storage encodings for this header format.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, 0, h)
}

// Serialize encodes the receiver to w using the same format as the wire
// encoding.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, 0, h)
}

// Bytes returns the 80-byte wire encoding of the header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(BlockHeaderLen)
	if err := h.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes decodes an 80-byte header encoding into the receiver.
func (h *BlockHeader) FromBytes(b []byte) error {
	return h.Deserialize(bytes.NewReader(b))
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce, with
// the timestamp set to the current time truncated to one-second precision
// (the protocol does not support finer resolution).
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash, bits uint32, nonce uint32) *BlockHeader {
	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, pver uint32, bh *BlockHeader) error {
	buf := binarySerializer.Borrow()
	err := readBlockHeaderBuf(r, pver, bh, buf)
	binarySerializer.Return(buf)
	return err
}

// readBlockHeaderBuf reads a block header from r using buf as scratch space
// for serializing small values.  buf MUST be nil or at least an 8-byte
// slice.
func readBlockHeaderBuf(r io.Reader, pver uint32, bh *BlockHeader, buf []byte) error {
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	bh.Version = int32(littleEndian.Uint32(buf[:4]))

	if _, err := io.ReadFull(r, bh.PrevBlock[:]); err != nil {
		return err
	}

	if _, err := io.ReadFull(r, bh.MerkleRoot[:]); err != nil {
		return err
	}

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	bh.Timestamp = time.Unix(int64(littleEndian.Uint32(buf[:4])), 0)

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	bh.Bits = littleEndian.Uint32(buf[:4])

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	bh.Nonce = littleEndian.Uint32(buf[:4])

	return nil
}

// writeBlockHeader writes a block header to w.
func writeBlockHeader(w io.Writer, pver uint32, bh *BlockHeader) error {
	buf := binarySerializer.Borrow()
	err := writeBlockHeaderBuf(w, pver, bh, buf)
	binarySerializer.Return(buf)
	return err
}

// writeBlockHeaderBuf writes a block header to w using buf as scratch
// space.  buf MUST be nil or at least an 8-byte slice.
func writeBlockHeaderBuf(w io.Writer, pver uint32, bh *BlockHeader, buf []byte) error {
	littleEndian.PutUint32(buf[:4], uint32(bh.Version))
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	if _, err := w.Write(bh.PrevBlock[:]); err != nil {
		return err
	}

	if _, err := w.Write(bh.MerkleRoot[:]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], uint32(bh.Timestamp.Unix()))
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], bh.Bits)
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	littleEndian.PutUint32(buf[:4], bh.Nonce)
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}

	return nil
}
