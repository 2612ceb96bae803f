// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MsgInv implements the Message interface and represents an inv message,
// used to advertise the sender's knowledge of transactions, blocks, or
// filtered blocks. It is usually answered with a getdata message requesting
// the advertised inventory.
type MsgInv struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgInv) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		str := fmt.Sprintf("too many invvect in message [max %v]", MaxInvPerMsg)
		return messageError("MsgInv.AddInvVect", str)
	}

	msg.InvList = append(msg.InvList, iv)
	return nil
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgInv) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	count, err := ReadVarIntBuf(r, pver, buf)
	if err != nil {
		return err
	}

	if count > MaxInvPerMsg {
		str := fmt.Sprintf("too many invvect in message [%v]", count)
		return messageError("MsgInv.FlcDecode", str)
	}

	invList := make([]InvVect, count)
	msg.InvList = make([]*InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		iv := &invList[i]
		if err := readInvVectBuf(r, pver, iv, buf); err != nil {
			return err
		}
		msg.AddInvVect(iv)
	}
	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgInv) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	count := len(msg.InvList)
	if count > MaxInvPerMsg {
		str := fmt.Sprintf("too many invvect in message [%v]", count)
		return messageError("MsgInv.FlcEncode", str)
	}

	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if err := WriteVarIntBuf(w, pver, uint64(count), buf); err != nil {
		return err
	}

	for _, iv := range msg.InvList {
		if err := writeInvVectBuf(w, pver, iv, buf); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgInv) Command() string {
	return CmdInv
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgInv) MaxPayloadLength(pver uint32) uint32 {
	return MaxVarIntPayload + (MaxInvPerMsg * maxInvVectPayload)
}

// NewMsgInv returns a new inv message that conforms to the Message
// interface.
func NewMsgInv() *MsgInv {
	return &MsgInv{
		InvList: make([]*InvVect, 0, defaultInvListAlloc),
	}
}

// NewMsgInvSizeHint returns a new inv message with a pre-allocated backing
// array sized to sizeHint (capped at MaxInvPerMsg).
func NewMsgInvSizeHint(sizeHint uint) *MsgInv {
	if sizeHint > MaxInvPerMsg {
		sizeHint = MaxInvPerMsg
	}
	return &MsgInv{
		InvList: make([]*InvVect, 0, sizeHint),
	}
}
