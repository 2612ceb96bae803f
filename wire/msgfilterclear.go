// Copyright (c) 2014-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MsgFilterClear implements the Message interface and represents a flokicoin
// filterclear message. It is used to reset a bloom filter previously set
// with filterload, requesting unfiltered delivery again.
//
// This message has no payload and was not added until protocol version
// BIP0037Version.
type MsgFilterClear struct{}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgFilterClear) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterclear message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterClear.FlcDecode", str)
	}

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgFilterClear) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterclear message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterClear.FlcEncode", str)
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterClear) Command() string {
	return CmdFilterClear
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgFilterClear) MaxPayloadLength(pver uint32) uint32 {
	return 0
}

// NewMsgFilterClear returns a new filterclear message that conforms to the
// Message interface.
func NewMsgFilterClear() *MsgFilterClear {
	return &MsgFilterClear{}
}
