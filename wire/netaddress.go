// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
	"net"
	"time"
)

// bigEndian is used for the port field of a NetAddress, which the reference
// protocol encodes in network byte order unlike every other integer field.
var bigEndian = binary.BigEndian

// maxNetAddressPayload returns the max payload size for a bitcoin NetAddress
// based on the protocol version.
func maxNetAddressPayload(pver uint32) uint32 {
	// Services 8 bytes + ip 16 bytes + port 2 bytes.
	plen := uint32(26)

	// NetAddressTimeVersion added a timestamp field.
	if pver >= NetAddressTimeVersion {
		// Timestamp 4 bytes.
		plen += 4
	}

	return plen
}

// NetAddress defines information about a peer on the network, including the
// time it was last seen, the services it supports, its IP address, and port.
type NetAddress struct {
	// Timestamp the address was last seen.  Omitted on the version message
	// per the wire format (§4.1); present everywhere else, e.g. addr.
	Timestamp time.Time

	// Services the peer supports.
	Services ServiceFlag

	// IP address of the peer.  Always 16 bytes; IPv4 addresses are encoded
	// as an IPv4-mapped IPv6 address.
	IP net.IP

	// Port the peer is listening on, in host byte order.
	Port uint16
}

// NewNetAddressIPPort returns a new NetAddress using the provided IP,
// port, and supported services with defaults for the remaining fields.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	return NewNetAddressTimestamp(time.Now(), services, ip, port)
}

// NewNetAddressTimestamp returns a new NetAddress using the provided
// timestamp, IP, port, and supported services.
func NewNetAddressTimestamp(timestamp time.Time, services ServiceFlag, ip net.IP, port uint16) *NetAddress {
	return &NetAddress{
		Timestamp: time.Unix(timestamp.Unix(), 0),
		Services:  services,
		IP:        ip,
		Port:      port,
	}
}

// readNetAddress reads an encoded NetAddress from r, with a leading
// timestamp when ts is set (omitted in version, present in addr). The
// protocol version is not consulted.
func readNetAddress(r io.Reader, pver uint32, na *NetAddress, ts bool) error {
	var timestamp time.Time
	if ts {
		t, err := binarySerializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		timestamp = time.Unix(int64(t), 0)
	}

	services, err := binarySerializer.Uint64(r, littleEndian)
	if err != nil {
		return err
	}

	var ip [16]byte
	if _, err := io.ReadFull(r, ip[:]); err != nil {
		return err
	}

	// Sigh. Bitcoin protocol mixes little and big endian.
	port, err := binarySerializer.Uint16(r, bigEndian)
	if err != nil {
		return err
	}

	*na = NetAddress{
		Timestamp: timestamp,
		Services:  ServiceFlag(services),
		IP:        net.IP(append([]byte(nil), ip[:]...)),
		Port:      port,
	}
	return nil
}

// writeNetAddress serializes a NetAddress to w, with a leading timestamp
// when ts is set. The protocol version is not consulted.
func writeNetAddress(w io.Writer, pver uint32, na *NetAddress, ts bool) error {
	if ts {
		if err := binarySerializer.PutUint32(w, littleEndian, uint32(na.Timestamp.Unix())); err != nil {
			return err
		}
	}

	if err := binarySerializer.PutUint64(w, littleEndian, uint64(na.Services)); err != nil {
		return err
	}

	var ip [16]byte
	if na.IP != nil {
		copy(ip[:], na.IP.To16())
	}
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}

	return binarySerializer.PutUint16(w, bigEndian, na.Port)
}
