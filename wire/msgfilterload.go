// Copyright (c) 2014-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
)

const (
	// MaxFilterLoadFilterSize is the maximum size in bytes a filter may be.
	MaxFilterLoadFilterSize = 36000

	// MaxFilterLoadHashFuncs is the maximum number of hash functions a
	// filter may use.
	MaxFilterLoadHashFuncs = 50
)

// BloomUpdateType specifies how the filter is updated when a match is found,
// mirrored on the wire so a peer knows what its counterpart intends without
// being told out of band.
type BloomUpdateType uint8

const (
	// BloomUpdateNone indicates the filter is not adjusted when a match is
	// found.
	BloomUpdateNone BloomUpdateType = 0

	// BloomUpdateAll indicates the filter is updated with all matched
	// public key scripts.
	BloomUpdateAll BloomUpdateType = 1

	// BloomUpdateP2PubkeyOnly indicates the filter is updated only when a
	// data element in a matched public key script is a pubkey or
	// multi-signature pubkey for a pay-to-pubkey-hash or multisig script.
	BloomUpdateP2PubkeyOnly BloomUpdateType = 2
)

// MsgFilterLoad implements the Message interface and represents a flokicoin
// filterload message, used to upload a bloom filter to a peer so only
// matching transactions are relayed (inv/merkleblock) to the requesting
// peer session.
//
// This message was not added until protocol version BIP0037Version.
type MsgFilterLoad struct {
	Filter    []byte
	HashFuncs uint32
	Tweak     uint32
	Flags     BloomUpdateType
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgFilterLoad) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterload message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterLoad.FlcDecode", str)
	}

	var err error
	msg.Filter, err = ReadVarBytes(r, pver, MaxFilterLoadFilterSize, "filterload filter size")
	if err != nil {
		return err
	}

	if err := readElement(r, &msg.HashFuncs); err != nil {
		return err
	}
	if msg.HashFuncs > MaxFilterLoadHashFuncs {
		str := fmt.Sprintf("too many filter hash functions for message "+
			"[count %v, max %v]", msg.HashFuncs, MaxFilterLoadHashFuncs)
		return messageError("MsgFilterLoad.FlcDecode", str)
	}

	if err := readElement(r, &msg.Tweak); err != nil {
		return err
	}

	var flags uint8
	if err := readElement(r, &flags); err != nil {
		return err
	}
	msg.Flags = BloomUpdateType(flags)

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgFilterLoad) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if pver < BIP0037Version {
		str := fmt.Sprintf("filterload message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgFilterLoad.FlcEncode", str)
	}

	size := len(msg.Filter)
	if size > MaxFilterLoadFilterSize {
		str := fmt.Sprintf("filterload filter size too large for message "+
			"[size %v, max %v]", size, MaxFilterLoadFilterSize)
		return messageError("MsgFilterLoad.FlcEncode", str)
	}

	if err := WriteVarBytes(w, pver, msg.Filter); err != nil {
		return err
	}

	if err := writeElement(w, msg.HashFuncs); err != nil {
		return err
	}

	if err := writeElement(w, msg.Tweak); err != nil {
		return err
	}

	return writeElement(w, uint8(msg.Flags))
}

// Command returns the protocol command string for the message.
func (msg *MsgFilterLoad) Command() string {
	return CmdFilterLoad
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgFilterLoad) MaxPayloadLength(pver uint32) uint32 {
	return uint32(VarIntSerializeSize(MaxFilterLoadFilterSize)) +
		MaxFilterLoadFilterSize + 9
}

// NewMsgFilterLoad returns a new filterload message that conforms to the
// Message interface.
func NewMsgFilterLoad(filter []byte, hashFuncs uint32, tweak uint32, flags BloomUpdateType) *MsgFilterLoad {
	return &MsgFilterLoad{
		Filter:    filter,
		HashFuncs: hashFuncs,
		Tweak:     tweak,
		Flags:     flags,
	}
}
