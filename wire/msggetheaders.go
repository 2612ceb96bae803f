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

// MaxBlockLocatorsPerMsg is the maximum number of block locator hashes
// allowed per message.
const MaxBlockLocatorsPerMsg = 500

// MsgGetHeaders implements the Message interface and represents a
// getheaders message, used to request a list of block headers starting
// after the best locator hash match up to HashStop, or 2000 headers (see
// wire.MaxBlockHeadersPerMsg), whichever comes first. This drives Phase A of
// the download coordinator (§4.5).
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []*chainhash.Hash
	HashStop           chainhash.Hash
}

// AddBlockLocatorHash adds a new block locator hash to the message.
func (msg *MsgGetHeaders) AddBlockLocatorHash(hash *chainhash.Hash) error {
	if len(msg.BlockLocatorHashes)+1 > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes for message [max %v]",
			MaxBlockLocatorsPerMsg)
		return messageError("MsgGetHeaders.AddBlockLocatorHash", str)
	}

	msg.BlockLocatorHashes = append(msg.BlockLocatorHashes, hash)
	return nil
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgGetHeaders) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if err := readElement(r, &msg.ProtocolVersion); err != nil {
		return err
	}

	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	if count > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes for message [count %v, max %v]",
			count, MaxBlockLocatorsPerMsg)
		return messageError("MsgGetHeaders.FlcDecode", str)
	}

	locatorHashes := make([]chainhash.Hash, count)
	msg.BlockLocatorHashes = make([]*chainhash.Hash, 0, count)
	for i := uint64(0); i < count; i++ {
		hash := &locatorHashes[i]
		if err := readElement(r, hash); err != nil {
			return err
		}
		msg.AddBlockLocatorHash(hash)
	}

	return readElement(r, &msg.HashStop)
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgGetHeaders) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	count := len(msg.BlockLocatorHashes)
	if count > MaxBlockLocatorsPerMsg {
		str := fmt.Sprintf("too many block locator hashes for message [count %v, max %v]",
			count, MaxBlockLocatorsPerMsg)
		return messageError("MsgGetHeaders.FlcEncode", str)
	}

	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}

	if err := WriteVarInt(w, pver, uint64(count)); err != nil {
		return err
	}

	for _, hash := range msg.BlockLocatorHashes {
		if err := writeElement(w, hash); err != nil {
			return err
		}
	}

	return writeElement(w, &msg.HashStop)
}

// Command returns the protocol command string for the message.
func (msg *MsgGetHeaders) Command() string {
	return CmdGetHeaders
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgGetHeaders) MaxPayloadLength(pver uint32) uint32 {
	return 4 + MaxVarIntPayload + (MaxBlockLocatorsPerMsg * chainhash.HashSize) + chainhash.HashSize
}

// NewMsgGetHeaders returns a new getheaders message that conforms to the
// Message interface.
func NewMsgGetHeaders() *MsgGetHeaders {
	return &MsgGetHeaders{
		ProtocolVersion:    ProtocolVersion,
		BlockLocatorHashes: make([]*chainhash.Hash, 0, MaxBlockLocatorsPerMsg),
	}
}
