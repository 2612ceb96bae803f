// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/spvbridge/spvd/chainhash"
)

// defaultTransactionAlloc is the default size used for the backing array for
// transactions.  The transaction array will dynamically grow as needed, but
// this figure is intended to provide enough space for the number of
// transactions in a typical block without needing to grow the backing array
// multiple times.
const defaultTransactionAlloc = 2048

// MsgBlock implements the Message interface and represents a flokicoin block
// message. It is used to deliver a full block including every transaction in
// response to a getdata request for inventory type InvTypeBlock. An SPV
// client prefers InvTypeFilteredBlock (see MsgMerkleBlock), which carries
// only matched transactions plus a proof; this type exists because a peer
// session must still be able to decode an unfiltered block if one arrives
// unsolicited or during compatibility testing against a full node.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) error {
	msg.Transactions = append(msg.Transactions, tx)
	return nil
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*MsgTx, 0, defaultTransactionAlloc)
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Deserialize decodes a block from r the same way FlcDecode does, except
// Deserialize does not allow the protocol encoding to vary as it is only
// intended for use in local, on-disk contexts rather than over the wire.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	return msg.FlcDecode(r, 0, BaseEncoding)
}

// Serialize encodes the block to w using a format suitable for long term
// storage such as a database, the same way FlcEncode does.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	return msg.FlcEncode(w, 0, BaseEncoding)
}

// TxHashes returns a slice of hashes of all of transactions in this block.
func (msg *MsgBlock) TxHashes() ([]chainhash.Hash, error) {
	hashList := make([]chainhash.Hash, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		hashList = append(hashList, tx.TxHash())
	}
	return hashList, nil
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgBlock) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if err := readBlockHeader(r, pver, &msg.Header); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	if txCount > uint64(maxTxPerBlock) {
		str := fmt.Sprintf("too many transactions to fit into a "+
			"block [count %d]", txCount)
		return messageError("MsgBlock.FlcDecode", str)
	}

	msg.Transactions = make([]*MsgTx, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := MsgTx{}
		if err := tx.FlcDecode(r, pver, enc); err != nil {
			return err
		}
		msg.AddTransaction(&tx)
	}

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgBlock) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if err := writeBlockHeader(w, pver, &msg.Header); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.Transactions))); err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		if err := tx.FlcEncode(w, pver, enc); err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgBlock) Command() string {
	return CmdBlock
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgBlock) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgBlock returns a new block message that conforms to the Message
// interface, initialized with the given header.
func NewMsgBlock(blockHeader *BlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader,
		Transactions: make([]*MsgTx, 0, defaultTransactionAlloc),
	}
}
