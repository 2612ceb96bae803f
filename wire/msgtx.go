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

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 1

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// defaultTxInOutAlloc is the default size used for the backing array
	// for transaction inputs and outputs.  The array will dynamically
	// grow as needed, but this figure is intended to provide enough space
	// for the number of inputs and outputs in a typical transaction
	// without needing to grow the backing array multiple times.
	defaultTxInOutAlloc = 15

	// minTxInPayload is the minimum payload size for a transaction input.
	// PreviousOutPoint.Hash + PreviousOutPoint.Index 4 bytes + Varint for
	// SignatureScript length 1 byte + Sequence 4 bytes.
	minTxInPayload = 9 + chainhash.HashSize

	// minTxOutPayload is the minimum payload size for a transaction output.
	// Value 8 bytes + Varint for PkScript length 1 byte.
	minTxOutPayload = 9

	// maxTxPerBlock is the largest count of transactions (or of inputs,
	// or of merkleblock hashes) the decoders accept: the number of
	// minimum-size outputs that fit into 1,000,000 bytes.
	maxTxPerBlock = 1000000 / minTxOutPayload
)

// OutPoint defines a flokicoin data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new flokicoin transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// TxIn defines a flokicoin transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Witness          TxWitness
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction input.
func (t *TxIn) SerializeSize() int {
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// NewTxIn returns a new flokicoin transaction input with the provided
// previous outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte, witness [][]byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Witness:          witness,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxWitness defines the witness for a TxIn. An SPV client never verifies
// scripts, but still needs to skip witness bytes when decoding tx bodies
// delivered inside a merkleblock's header-adjacent payload on connections
// that negotiate witness serialization.
type TxWitness [][]byte

// TxOut defines a flokicoin transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new flokicoin transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// MsgTx implements the Message interface and represents a flokicoin tx
// message. It is used to deliver transaction information in response to a
// getdata message (MsgGetData) or an inv announcement (MsgInv). An SPV
// client stores the decoded transaction only long enough to check its hash
// against a partial merkle tree (bloom.MerkleBlock) before handing the match
// to its relay and filter collaborator.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the Hash for the transaction, the double sha256 of the
// legacy (non-witness) serialization.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		return msg.serializeNoWitness(w)
	})
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgTx) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	version, err := binarySerializer.Uint32(r, littleEndian)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	count, err := ReadVarIntBuf(r, pver, buf)
	if err != nil {
		return err
	}

	var flag [1]byte
	if count == 0 {
		if _, err = io.ReadFull(r, flag[:]); err != nil {
			return err
		}
		if flag[0] != 0 {
			count, err = ReadVarIntBuf(r, pver, buf)
			if err != nil {
				return err
			}
		}
	}
	if count > uint64(maxTxPerBlock) {
		str := fmt.Sprintf("too many input transactions to fit into "+
			"max message size [count %d]", count)
		return messageError("MsgTx.FlcDecode", str)
	}

	msg.TxIn = make([]*TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		ti := new(TxIn)
		if err := readTxIn(r, pver, ti); err != nil {
			return err
		}
		msg.AddTxIn(ti)
	}

	txOutCount, err := ReadVarIntBuf(r, pver, buf)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, 0, txOutCount)
	for i := uint64(0); i < txOutCount; i++ {
		to := new(TxOut)
		if err := readTxOut(r, pver, to); err != nil {
			return err
		}
		msg.AddTxOut(to)
	}

	if flag[0] != 0 {
		for _, txin := range msg.TxIn {
			witCount, err := ReadVarIntBuf(r, pver, buf)
			if err != nil {
				return err
			}
			txin.Witness = make([][]byte, witCount)
			for j := uint64(0); j < witCount; j++ {
				item, err := ReadVarBytes(r, pver, MaxMessagePayload, "witness item")
				if err != nil {
					return err
				}
				txin.Witness[j] = item
			}
		}
	}

	lockTime, err := binarySerializer.Uint32(r, littleEndian)
	if err != nil {
		return err
	}
	msg.LockTime = lockTime

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgTx) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if err := binarySerializer.PutUint32(w, littleEndian, uint32(msg.Version)); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, pver, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, pver, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, pver, to); err != nil {
			return err
		}
	}

	return binarySerializer.PutUint32(w, littleEndian, msg.LockTime)
}

// serializeNoWitness serializes a transaction using the legacy
// transaction serialization format, ignoring any witness data.
func (msg *MsgTx) serializeNoWitness(w io.Writer) error {
	if err := binarySerializer.PutUint32(w, littleEndian, uint32(msg.Version)); err != nil {
		return err
	}
	if err := WriteVarInt(w, 0, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, 0, ti); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, 0, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, 0, to); err != nil {
			return err
		}
	}
	return binarySerializer.PutUint32(w, littleEndian, msg.LockTime)
}

// Command returns the protocol command string for the message.
func (msg *MsgTx) Command() string {
	return CmdTx
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgTx) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgTx returns a new tx message that conforms to the Message interface.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

func readTxIn(r io.Reader, pver uint32, ti *TxIn) error {
	if err := readOutPoint(r, pver, &ti.PreviousOutPoint); err != nil {
		return err
	}

	var err error
	ti.SignatureScript, err = ReadVarBytes(r, pver, MaxMessagePayload, "transaction input signature script")
	if err != nil {
		return err
	}

	return readElement(r, &ti.Sequence)
}

func writeTxIn(w io.Writer, pver uint32, ti *TxIn) error {
	if err := writeOutPoint(w, pver, &ti.PreviousOutPoint); err != nil {
		return err
	}

	if err := WriteVarBytes(w, pver, ti.SignatureScript); err != nil {
		return err
	}

	return writeElement(w, ti.Sequence)
}

func readOutPoint(r io.Reader, pver uint32, op *OutPoint) error {
	if err := readElement(r, &op.Hash); err != nil {
		return err
	}
	return readElement(r, &op.Index)
}

func writeOutPoint(w io.Writer, pver uint32, op *OutPoint) error {
	if err := writeElement(w, &op.Hash); err != nil {
		return err
	}
	return writeElement(w, op.Index)
}

func readTxOut(r io.Reader, pver uint32, to *TxOut) error {
	if err := readElement(r, &to.Value); err != nil {
		return err
	}

	var err error
	to.PkScript, err = ReadVarBytes(r, pver, MaxMessagePayload, "transaction output public key script")
	return err
}

func writeTxOut(w io.Writer, pver uint32, to *TxOut) error {
	if err := writeElement(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, pver, to.PkScript)
}
