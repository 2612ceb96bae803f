// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/spvbridge/spvd/chainhash"
)

// MaxInvPerMsg is the maximum number of inventory vectors that can be in a
// single inv, getdata, or notfound message.
const MaxInvPerMsg = 50000

// defaultInvListAlloc is the default size used for the backing array for an
// inventory list.  The array will dynamically grow as needed, but this
// figure is intended to provide enough space for the common case without
// needing to grow the backing array multiple times.
const defaultInvListAlloc = 1000

// InvType represents the allowed types of inventory vectors.  See InvVect.
type InvType uint32

// These constants define the various supported inventory vector types.
const (
	InvTypeError          InvType = 0
	InvTypeTx             InvType = 1
	InvTypeBlock          InvType = 2
	InvTypeFilteredBlock  InvType = 3
)

// Map of InvType values back to their constant names for pretty printing.
var ivStrings = map[InvType]string{
	InvTypeError:         "ERROR",
	InvTypeTx:            "MSG_TX",
	InvTypeBlock:         "MSG_BLOCK",
	InvTypeFilteredBlock: "MSG_FILTERED_BLOCK",
}

// String returns the InvType in human-readable form.
func (invtype InvType) String() string {
	if s, ok := ivStrings[invtype]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(invtype))
}

// maxInvVectPayload is the maximum payload size for an inventory vector.
const maxInvVectPayload = 4 + chainhash.HashSize

// InvVect defines a bitcoin-style inventory vector which is used to describe
// data, as specified by the Type field, that a peer wants, has, or does not
// have to another peer.
type InvVect struct {
	Type InvType        // Type of data
	Hash chainhash.Hash // Hash of the data
}

// NewInvVect returns a new InvVect using the provided type and hash.
func NewInvVect(typ InvType, hash *chainhash.Hash) *InvVect {
	return &InvVect{
		Type: typ,
		Hash: *hash,
	}
}

// readInvVectBuf reads an encoded InvVect from r depending on the protocol
// version using buf as a scratch buffer.
func readInvVectBuf(r io.Reader, pver uint32, iv *InvVect, buf []byte) error {
	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	iv.Type = InvType(littleEndian.Uint32(buf[:4]))
	_, err := io.ReadFull(r, iv.Hash[:])
	return err
}

// writeInvVectBuf serializes an InvVect to w depending on the protocol
// version using buf as a scratch buffer.
func writeInvVectBuf(w io.Writer, pver uint32, iv *InvVect, buf []byte) error {
	littleEndian.PutUint32(buf[:4], uint32(iv.Type))
	if _, err := w.Write(buf[:4]); err != nil {
		return err
	}
	_, err := w.Write(iv.Hash[:])
	return err
}
