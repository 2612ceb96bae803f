// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// MsgVerAck implements the Message interface and represents the verack
// message a peer session sends to acknowledge a received version message
// (MsgVersion) once it has finished negotiating parameters from it. Both
// sides of the handshake must send and receive one before the session
// reaches the Connected state.
//
// This message has no payload.
type MsgVerAck struct{}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgVerAck) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgVerAck) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgVerAck) Command() string {
	return CmdVerAck
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgVerAck) MaxPayloadLength(pver uint32) uint32 {
	return 0
}

// NewMsgVerAck returns a new verack message that conforms to the Message
// interface.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}
