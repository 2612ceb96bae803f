// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgPong implements the Message interface and represents a pong message
// sent in response to a ping message (MsgPing), echoing the nonce so the
// originating peer can correlate the reply and measure round-trip latency.
// This is the keep-alive mechanism described in §4.4.
type MsgPong struct {
	// Nonce echoed back from the originating ping message.
	Nonce uint64
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgPong) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if pver > BIP0031Version {
		nonce, err := binarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		msg.Nonce = nonce
	}

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgPong) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if pver > BIP0031Version {
		return binarySerializer.PutUint64(w, littleEndian, msg.Nonce)
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgPong) Command() string {
	return CmdPong
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgPong) MaxPayloadLength(pver uint32) uint32 {
	plen := uint32(0)
	if pver > BIP0031Version {
		plen += 8
	}
	return plen
}

// NewMsgPong returns a new pong message that echoes the given nonce.
func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{
		Nonce: nonce,
	}
}
