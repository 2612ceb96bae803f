// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/spvbridge/spvd/chainhash"
)

// maxFlagsPerMerkleBlock is the maximum number of flag bytes that could
// possibly fit into a merkle block. Since each transaction is represented by
// a bit, and each byte holds 8 bits, the max is the max number of
// transactions in a block divided by 8.
var maxFlagsPerMerkleBlock = maxTxPerBlock / 8

// MsgMerkleBlock implements the Message interface and represents a flokicoin
// merkleblock message which delivers a compact proof that a set of
// transactions matching a previously uploaded bloom filter are included in
// a block, without transmitting every transaction in that block. This is the
// wire-level counterpart to the reconstructed partial merkle tree consumed
// during Phase B of the download coordinator.
//
// This message was not added until protocol version BIP0037Version.
type MsgMerkleBlock struct {
	Header       BlockHeader
	Transactions uint32
	Hashes       []*chainhash.Hash
	Flags        []byte
}

// AddTxHash adds a new transaction hash to the message.
func (msg *MsgMerkleBlock) AddTxHash(hash *chainhash.Hash) error {
	if len(msg.Hashes)+1 > maxTxPerBlock {
		str := fmt.Sprintf("too many tx hashes for message [max %v]",
			maxTxPerBlock)
		return messageError("MsgMerkleBlock.AddTxHash", str)
	}

	msg.Hashes = append(msg.Hashes, hash)
	return nil
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgMerkleBlock) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("merkleblock message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgMerkleBlock.FlcDecode", str)
	}

	if err := readBlockHeader(r, pver, &msg.Header); err != nil {
		return err
	}

	if err := readElement(r, &msg.Transactions); err != nil {
		return err
	}

	hashCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if hashCount > uint64(maxTxPerBlock) {
		str := fmt.Sprintf("too many tx hashes for message "+
			"[count %v, max %v]", hashCount, maxTxPerBlock)
		return messageError("MsgMerkleBlock.FlcDecode", str)
	}

	hashes := make([]chainhash.Hash, hashCount)
	msg.Hashes = make([]*chainhash.Hash, 0, hashCount)
	for i := uint64(0); i < hashCount; i++ {
		hash := &hashes[i]
		if err := readElement(r, hash); err != nil {
			return err
		}
		msg.AddTxHash(hash)
	}

	msg.Flags, err = ReadVarBytes(r, pver, uint64(maxFlagsPerMerkleBlock), "merkle block flags size")
	return err
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgMerkleBlock) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("merkleblock message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgMerkleBlock.FlcEncode", str)
	}

	numHashes := len(msg.Hashes)
	if numHashes > maxTxPerBlock {
		str := fmt.Sprintf("too many tx hashes for message "+
			"[count %v, max %v]", numHashes, maxTxPerBlock)
		return messageError("MsgMerkleBlock.FlcEncode", str)
	}

	numFlagBytes := len(msg.Flags)
	if numFlagBytes > maxFlagsPerMerkleBlock {
		str := fmt.Sprintf("too many flag bytes for message [count %v, "+
			"max %v]", numFlagBytes, maxFlagsPerMerkleBlock)
		return messageError("MsgMerkleBlock.FlcEncode", str)
	}

	if err := writeBlockHeader(w, pver, &msg.Header); err != nil {
		return err
	}

	if err := writeElement(w, msg.Transactions); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(numHashes)); err != nil {
		return err
	}
	for _, hash := range msg.Hashes {
		if err := writeElement(w, hash); err != nil {
			return err
		}
	}

	return WriteVarBytes(w, pver, msg.Flags)
}

// Command returns the protocol command string for the message.
func (msg *MsgMerkleBlock) Command() string {
	return CmdMerkleBlock
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgMerkleBlock) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgMerkleBlock returns a new merkleblock message that conforms to the
// Message interface, built around the given block header.
func NewMsgMerkleBlock(bh *BlockHeader) *MsgMerkleBlock {
	return &MsgMerkleBlock{
		Header: *bh,
		Hashes: make([]*chainhash.Hash, 0, defaultInvListAlloc),
		Flags:  make([]byte, 0, defaultInvListAlloc),
	}
}
