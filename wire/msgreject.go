// Copyright (c) 2014-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/spvbridge/spvd/chainhash"
)

// RejectCode represents a numeric value by which a remote peer indicates why
// a message was rejected.
type RejectCode uint8

const (
	RejectMalformed       RejectCode = 0x01
	RejectInvalid         RejectCode = 0x10
	RejectObsolete        RejectCode = 0x11
	RejectDuplicate       RejectCode = 0x12
	RejectNonstandard     RejectCode = 0x40
	RejectDust            RejectCode = 0x41
	RejectInsufficientFee RejectCode = 0x42
	RejectCheckpoint      RejectCode = 0x43
)

// String returns the RejectCode in human-readable form.
func (code RejectCode) String() string {
	switch code {
	case RejectMalformed:
		return "REJECT_MALFORMED"
	case RejectInvalid:
		return "REJECT_INVALID"
	case RejectObsolete:
		return "REJECT_OBSOLETE"
	case RejectDuplicate:
		return "REJECT_DUPLICATE"
	case RejectNonstandard:
		return "REJECT_NONSTANDARD"
	case RejectDust:
		return "REJECT_DUST"
	case RejectInsufficientFee:
		return "REJECT_INSUFFICIENTFEE"
	case RejectCheckpoint:
		return "REJECT_CHECKPOINT"
	}
	return fmt.Sprintf("Unknown RejectCode (%d)", uint8(code))
}

// MsgReject implements the Message interface and represents a flokicoin
// reject message, sent by a peer in response to a message it could not
// process. A peer session logs a received reject at debug level and does
// not forward it to the download coordinator.
//
// This message was not added until protocol version RejectVersion.
type MsgReject struct {
	// Cmd is the command for the message which was rejected such as
	// as CmdBlock or CmdTx.
	Cmd string

	// RejectCode is a code indicating why the command was rejected.
	Code RejectCode

	// Reason is a human readable string with specific details (over and
	// above the reject code) about why the command was rejected.
	Reason string

	// Hash identifies a specific block or transaction that was rejected
	// and therefore only applies the CmdBlock and CmdTx messages.
	Hash chainhash.Hash
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgReject) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	if pver < RejectVersion {
		str := fmt.Sprintf("reject message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgReject.FlcDecode", str)
	}

	cmd, err := ReadVarString(r, pver)
	if err != nil {
		return err
	}
	msg.Cmd = cmd

	var code uint8
	if err := readElement(r, &code); err != nil {
		return err
	}
	msg.Code = RejectCode(code)

	reason, err := ReadVarString(r, pver)
	if err != nil {
		return err
	}
	msg.Reason = reason

	switch msg.Cmd {
	case CmdBlock, CmdTx:
		if err := readElement(r, &msg.Hash); err != nil {
			return err
		}
	}

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgReject) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if pver < RejectVersion {
		str := fmt.Sprintf("reject message invalid for protocol "+
			"version %d", pver)
		return messageError("MsgReject.FlcEncode", str)
	}

	if err := WriteVarString(w, pver, msg.Cmd); err != nil {
		return err
	}

	if err := writeElement(w, uint8(msg.Code)); err != nil {
		return err
	}

	if err := WriteVarString(w, pver, msg.Reason); err != nil {
		return err
	}

	switch msg.Cmd {
	case CmdBlock, CmdTx:
		if err := writeElement(w, &msg.Hash); err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgReject) Command() string {
	return CmdReject
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgReject) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgReject returns a new reject message that conforms to the Message
// interface.
func NewMsgReject(command string, code RejectCode, reason string) *MsgReject {
	return &MsgReject{Cmd: command, Code: code, Reason: reason}
}
