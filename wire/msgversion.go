// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"time"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in
// a version message (MsgVersion).
const MaxUserAgentLen = 256

// DefaultUserAgent is the user agent used when no other is specified.
const DefaultUserAgent = "/spvd:0.1.0/"

// MsgVersion implements the Message interface and represents the first
// message exchanged on a new connection. It carries both peers' protocol
// version, advertised services, and current chain tip height so the
// handshake (§4.4) can decide whether to proceed.
type MsgVersion struct {
	// ProtocolVersion is the highest protocol version understood by the
	// transmitting peer.
	ProtocolVersion int32

	// Services advertised by the local peer.
	Services ServiceFlag

	// Timestamp is the time the message was generated.
	Timestamp time.Time

	// AddrYou is the remote address as perceived by the transmitting peer.
	AddrYou NetAddress

	// AddrMe is the address of the transmitting peer.
	AddrMe NetAddress

	// Nonce is a random identifier used to detect a connection to self.
	Nonce uint64

	// UserAgent describing the software and version of the transmitting
	// peer.
	UserAgent string

	// LastBlock is the height of the transmitting peer's known best block.
	LastBlock int32

	// DisableRelayTx signals that the remote peer should not relay
	// transactions to the local peer unless explicitly requested via
	// getdata. Used by peers that only want filtered blocks.
	DisableRelayTx bool
}

// HasService returns whether the peer supports the given service.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services.HasFlag(service)
}

// AddService adds service as a supported service by the peer generating the
// message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// FlcDecode decodes r using the wire encoding into the receiver.
func (msg *MsgVersion) FlcDecode(r io.Reader, pver uint32, enc MessageEncoding) error {
	buf := binarySerializer.Borrow()
	defer binarySerializer.Return(buf)

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return err
	}
	msg.ProtocolVersion = int32(littleEndian.Uint32(buf[:4]))

	svc, err := binarySerializer.Uint64(r, littleEndian)
	if err != nil {
		return err
	}
	msg.Services = ServiceFlag(svc)

	ts, err := binarySerializer.Uint64(r, littleEndian)
	if err != nil {
		return err
	}
	msg.Timestamp = time.Unix(int64(ts), 0)

	if err := readNetAddress(r, pver, &msg.AddrYou, false); err != nil {
		return err
	}

	if pver >= MultipleAddressVersion {
		if err := readNetAddress(r, pver, &msg.AddrMe, false); err != nil {
			return err
		}

		nonce, err := binarySerializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		msg.Nonce = nonce

		userAgent, err := ReadVarString(r, pver)
		if err != nil {
			return err
		}
		if len(userAgent) > MaxUserAgentLen {
			str := fmt.Sprintf("user agent too long [len %v, max %v]",
				len(userAgent), MaxUserAgentLen)
			return messageError("MsgVersion.FlcDecode", str)
		}
		msg.UserAgent = userAgent

		lastBlock, err := binarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		msg.LastBlock = int32(lastBlock)
	}

	if pver >= BIP0037Version {
		relay, err := binarySerializer.Uint8(r)
		switch {
		case err == io.EOF:
			// Older peers omit the relay flag entirely.
		case err != nil:
			return err
		default:
			msg.DisableRelayTx = relay == 0
		}
	}

	return nil
}

// FlcEncode encodes the receiver to w using the wire encoding.
func (msg *MsgVersion) FlcEncode(w io.Writer, pver uint32, enc MessageEncoding) error {
	if len(msg.UserAgent) > MaxUserAgentLen {
		str := fmt.Sprintf("user agent too long [len %v, max %v]",
			len(msg.UserAgent), MaxUserAgentLen)
		return messageError("MsgVersion.FlcEncode", str)
	}

	if err := writeElement(w, msg.ProtocolVersion); err != nil {
		return err
	}
	if err := writeElement(w, msg.Services); err != nil {
		return err
	}
	if err := writeElement(w, msg.Timestamp.Unix()); err != nil {
		return err
	}
	if err := writeNetAddress(w, pver, &msg.AddrYou, false); err != nil {
		return err
	}
	if err := writeNetAddress(w, pver, &msg.AddrMe, false); err != nil {
		return err
	}
	if err := writeElement(w, msg.Nonce); err != nil {
		return err
	}
	if err := WriteVarString(w, pver, msg.UserAgent); err != nil {
		return err
	}
	if err := writeElement(w, msg.LastBlock); err != nil {
		return err
	}
	if pver >= BIP0037Version {
		return writeElement(w, !msg.DisableRelayTx)
	}
	return nil
}

// Command returns the protocol command string for the message.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver.
func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint32 {
	return 33 + (maxNetAddressPayload(pver) * 2) + MaxVarIntPayload + MaxUserAgentLen + 1
}

// NewMsgVersion returns a new version message using the provided parameters
// and defaults for the remaining fields.
func NewMsgVersion(me, you *NetAddress, nonce uint64, lastBlock int32) *MsgVersion {
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		LastBlock:       lastBlock,
		DisableRelayTx:  false,
	}
}
