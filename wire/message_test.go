// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/spvbridge/spvd/chainhash"
)

// TestReadWriteMessage round-trips a representative sample of message types
// through WriteMessage/ReadMessage and checks the decoded value matches the
// original.
func TestReadWriteMessage(t *testing.T) {
	tests := []struct {
		name string
		in   Message
	}{
		{"ping", NewMsgPing(123123)},
		{"pong", NewMsgPong(456456)},
		{"verack", NewMsgVerAck()},
		{"getaddr", NewMsgGetAddr()},
		{"mempool", NewMsgMemPool()},
		{
			"inv",
			func() Message {
				m := NewMsgInv()
				m.AddInvVect(NewInvVect(InvTypeBlock, &chainhashZero))
				return m
			}(),
		},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		if err := WriteMessage(&buf, test.in, ProtocolVersion, MainNet); err != nil {
			t.Errorf("%s: WriteMessage failed: %v", test.name, err)
			continue
		}

		gotMsg, _, err := ReadMessage(&buf, ProtocolVersion, MainNet)
		if err != nil {
			t.Errorf("%s: ReadMessage failed: %v", test.name, err)
			continue
		}

		if !reflect.DeepEqual(gotMsg, test.in) {
			t.Errorf("%s: round trip mismatch\n got: %#v\nwant: %#v",
				test.name, gotMsg, test.in)
		}
	}
}

// chainhashZero is the designated zero Hash256 value, used where the test
// above only needs a stand-in hash rather than a specific one.
var chainhashZero = chainhash.Hash{}

// TestReadMessageResync feeds the decoder a stream of leading garbage
// followed by a valid frame and checks exactly one message is recovered,
// matching Scenario 5 of the wire codec's testable properties: desync
// recovers silently rather than surfacing an error to the caller.
func TestReadMessageResync(t *testing.T) {
	garbage := []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a,
	}

	var valid bytes.Buffer
	msg := NewMsgPing(98765)
	if err := WriteMessage(&valid, msg, ProtocolVersion, MainNet); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}

	stream := append(append([]byte{}, garbage...), valid.Bytes()...)

	got, _, err := ReadMessage(bytes.NewReader(stream), ProtocolVersion, MainNet)
	if err != nil {
		t.Fatalf("ReadMessage after garbage prefix failed: %v", err)
	}

	gotPing, ok := got.(*MsgPing)
	if !ok {
		t.Fatalf("expected *MsgPing, got %T", got)
	}
	if gotPing.Nonce != msg.Nonce {
		t.Errorf("wrong nonce recovered after resync: got %d, want %d",
			gotPing.Nonce, msg.Nonce)
	}
}

// TestReadMessageChecksumMismatch corrupts a frame's payload after the
// header has already committed to a checksum and checks the decoder reports
// ErrChecksumMismatch rather than silently accepting the corrupted message.
func TestReadMessageChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	msg := NewMsgPing(42)
	if err := WriteMessage(&buf, msg, ProtocolVersion, MainNet); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}

	corrupted := buf.Bytes()
	// Flip every bit of the first byte of the 8-byte nonce payload, which follows the fixed
	// 24-byte header.
	corrupted[MessageHeaderSize] ^= 0xff

	_, _, err := ReadMessage(bytes.NewReader(corrupted), ProtocolVersion, MainNet)
	if err == nil {
		t.Fatal("expected checksum mismatch, got nil error")
	}

	codecErr, ok := err.(*CodecError)
	if !ok {
		t.Fatalf("expected *CodecError, got %T: %v", err, err)
	}
	if codecErr.Code != ErrChecksumMismatch {
		t.Errorf("wrong error code: got %v, want %v", codecErr.Code, ErrChecksumMismatch)
	}
}

// TestReadMessageOversizePayload checks that a header declaring a payload
// larger than MaxMessagePayload is rejected without attempting to read it.
func TestReadMessageOversizePayload(t *testing.T) {
	var hdr bytes.Buffer
	if err := writeElement(&hdr, uint32(MainNet)); err != nil {
		t.Fatalf("writeElement magic failed: %v", err)
	}
	var command [CommandSize]byte
	copy(command[:], CmdPing)
	if _, err := hdr.Write(command[:]); err != nil {
		t.Fatalf("write command failed: %v", err)
	}
	if err := writeElement(&hdr, uint32(MaxMessagePayload+1)); err != nil {
		t.Fatalf("writeElement length failed: %v", err)
	}
	var checksum [4]byte
	if _, err := hdr.Write(checksum[:]); err != nil {
		t.Fatalf("write checksum failed: %v", err)
	}

	_, _, err := ReadMessage(&hdr, ProtocolVersion, MainNet)
	if err == nil {
		t.Fatal("expected oversize payload error, got nil")
	}

	codecErr, ok := err.(*CodecError)
	if !ok {
		t.Fatalf("expected *CodecError, got %T: %v", err, err)
	}
	if codecErr.Code != ErrOversizePayload {
		t.Errorf("wrong error code: got %v, want %v", codecErr.Code, ErrOversizePayload)
	}
}
