// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

// MaxAddrPerMsg is the maximum number of addresses that can be in a single
// addr message.
const MaxAddrPerMsg = 1000

// MsgAddr implements the Message interface and represents an addr message,
// used to relay known active peer addresses. Unlike the version message's
// embedded NetAddress, each entry here carries a timestamp of last contact.
type MsgAddr struct {
	AddrList []*NetAddress
}

// AddAddress adds a known active peer address to the message.
func (msg *MsgAddr) AddAddress(na *NetAddress) error {
	if len(msg.AddrList)+1 > MaxAddrPerMsg {
		str := fmt.Sprintf("too many addresses in message [max %v]", MaxAddrPerMsg)
		return messageError("MsgAddr.AddAddress", str)
	}

	msg.AddrList = append(msg.AddrList, na)
	return nil
}

// AddAddresses adds multiple known active peer addresses to the message.
func (msg *MsgAddr) AddAddresses(netAddrs ...*NetAddress) error {
	for _, na := range netAddrs {
		if err := msg.AddAddress(na); err != nil {
			return err
		}
	}
	return nil
}

// ClearAddresses removes all addresses from the message.
func (msg *MsgAddr) ClearAddresses() {
	msg.AddrList = []*NetAddress{}
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgAddr) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	if count > MaxAddrPerMsg {
		str := fmt.Sprintf("too many addresses for message [count %v, max %v]",
			count, MaxAddrPerMsg)
		return messageError("MsgAddr.FlcDecode", str)
	}

	addrList := make([]NetAddress, count)
	msg.AddrList = make([]*NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		na := &addrList[i]
		if err := readNetAddress(r, pver, na, true); err != nil {
			return err
		}
		msg.AddAddress(na)
	}
	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgAddr) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	count := len(msg.AddrList)
	if count > MaxAddrPerMsg {
		str := fmt.Sprintf("too many addresses for message [count %v, max %v]",
			count, MaxAddrPerMsg)
		return messageError("MsgAddr.FlcEncode", str)
	}

	if err := WriteVarInt(w, pver, uint64(count)); err != nil {
		return err
	}

	for _, na := range msg.AddrList {
		if err := writeNetAddress(w, pver, na, true); err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgAddr) Command() string {
	return CmdAddr
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgAddr) MaxPayloadLength(pver uint32) uint32 {
	return MaxVarIntPayload + (MaxAddrPerMsg * maxNetAddressPayload(pver))
}

// NewMsgAddr returns a new addr message that conforms to the Message
// interface.
func NewMsgAddr() *MsgAddr {
	return &MsgAddr{
		AddrList: make([]*NetAddress, 0, defaultInvListAlloc),
	}
}
