// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spvbridge/spvd/chainhash"
)

// MessageHeaderSize is the number of bytes in a message header: 4 byte magic,
// 12 byte command, 4 byte payload length, and 4 byte checksum.
const MessageHeaderSize = 24

// CommandSize is the fixed size of all commands in the common message header.
// Shorter commands must be zero padded.
const CommandSize = 12

// MaxMessagePayload is the maximum bytes a message payload can be. A filtered
// block carrying a full partial merkle tree for a busy block is the largest
// payload a header-only client expects; 32 MiB leaves comfortable headroom
// without allowing a malicious peer to force large allocations.
const MaxMessagePayload = (1024 * 1024 * 32)

// Commands used in the flokicoin message headers that an SPV peer session
// sends or understands. InvType strings double as inventory entries but are
// not commands; these are the 12-byte, NUL-padded command strings that go in
// the message header.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdGetAddr     = "getaddr"
	CmdAddr        = "addr"
	CmdGetBlocks   = "getblocks"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdBlock       = "block"
	CmdTx          = "tx"
	CmdGetHeaders  = "getheaders"
	CmdHeaders     = "headers"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdMemPool     = "mempool"
	CmdFilterAdd   = "filteradd"
	CmdFilterClear = "filterclear"
	CmdFilterLoad  = "filterload"
	CmdMerkleBlock = "merkleblock"
	CmdReject      = "reject"
)

// MessageEncoding represents the wire message encoding format to be used.
type MessageEncoding uint32

const (
	// BaseEncoding encodes all messages in the default format specified
	// for the flokicoin wire protocol.
	BaseEncoding MessageEncoding = 1 << iota
)

// Message is the interface that must be implemented by every flokicoin
// message sent or received over the wire.
type Message interface {
	FlcDecode(io.Reader, uint32, MessageEncoding) error
	FlcEncode(io.Writer, uint32, MessageEncoding) error
	Command() string
	MaxPayloadLength(uint32) uint32
}

// makeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func makeEmptyMessage(command string) (Message, error) {
	var msg Message
	switch command {
	case CmdVersion:
		msg = &MsgVersion{}
	case CmdVerAck:
		msg = &MsgVerAck{}
	case CmdGetAddr:
		msg = &MsgGetAddr{}
	case CmdAddr:
		msg = &MsgAddr{}
	case CmdGetBlocks:
		msg = &MsgGetBlocks{}
	case CmdInv:
		msg = &MsgInv{}
	case CmdGetData:
		msg = &MsgGetData{}
	case CmdNotFound:
		msg = &MsgNotFound{}
	case CmdBlock:
		msg = &MsgBlock{}
	case CmdTx:
		msg = &MsgTx{}
	case CmdGetHeaders:
		msg = &MsgGetHeaders{}
	case CmdHeaders:
		msg = &MsgHeaders{}
	case CmdPing:
		msg = &MsgPing{}
	case CmdPong:
		msg = &MsgPong{}
	case CmdMemPool:
		msg = &MsgMemPool{}
	case CmdFilterAdd:
		msg = &MsgFilterAdd{}
	case CmdFilterClear:
		msg = &MsgFilterClear{}
	case CmdFilterLoad:
		msg = &MsgFilterLoad{}
	case CmdMerkleBlock:
		msg = &MsgMerkleBlock{}
	case CmdReject:
		msg = &MsgReject{}
	default:
		return nil, fmt.Errorf("unhandled command [%s]", command)
	}
	return msg, nil
}

// messageHeader defines the header structure for all flokicoin protocol
// messages.
type messageHeader struct {
	magic    FlcNet
	command  string
	length   uint32
	checksum [4]byte
}

// readMessageHeader locates btcNet's magic sequence in r one byte at a time
// (recovering from leading garbage or a prior checksum-mismatch resync
// point), then reads the fixed 20-byte remainder of the header: command,
// payload length, and checksum.
func readMessageHeader(r io.Reader, btcNet FlcNet) (int, *messageHeader, error) {
	var want [4]byte
	putUint32LE(want[:], uint32(btcNet))

	var window [4]byte
	total := 0
	discarded := 0
	for window != want {
		b := make([]byte, 1)
		n, err := io.ReadFull(r, b)
		total += n
		if err != nil {
			return total, nil, err
		}
		copy(window[:3], window[1:])
		window[3] = b[0]
		discarded++
	}
	if discarded > 4 {
		logger.Tracef("resynced after discarding %d bytes searching for magic", discarded-4)
	}

	var rest [MessageHeaderSize - 4]byte
	n, err := io.ReadFull(r, rest[:])
	total += n
	if err != nil {
		return total, nil, err
	}
	hr := bytes.NewReader(rest[:])

	var command [CommandSize]byte
	if _, err := io.ReadFull(hr, command[:]); err != nil {
		return total, nil, err
	}

	cmd := string(bytes.TrimRight(command[:], string(rune(0))))
	if !utf8.ValidString(cmd) {
		return total, nil, codecError(ErrMalformedPayload, "invalid command string")
	}

	var length uint32
	if err := readElement(hr, &length); err != nil {
		return total, nil, err
	}

	var checksum [4]byte
	if _, err := io.ReadFull(hr, checksum[:]); err != nil {
		return total, nil, err
	}

	return total, &messageHeader{
		magic:    btcNet,
		command:  cmd,
		length:   length,
		checksum: checksum,
	}, nil
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// WriteMessageN writes a flokicoin message to w including the necessary
// header information and returns the number of bytes written.
func WriteMessageN(w io.Writer, msg Message, pver uint32, btcNet FlcNet) (int, error) {
	return WriteMessageWithEncodingN(w, msg, pver, btcNet, BaseEncoding)
}

// WriteMessage writes a flokicoin message to w including the necessary
// header information.
func WriteMessage(w io.Writer, msg Message, pver uint32, btcNet FlcNet) error {
	_, err := WriteMessageN(w, msg, pver, btcNet)
	return err
}

// WriteMessageWithEncodingN writes a flokicoin message to w including the
// necessary header information using the specified encoding and returns the
// number of bytes written.
func WriteMessageWithEncodingN(w io.Writer, msg Message, pver uint32, btcNet FlcNet, enc MessageEncoding) (int, error) {
	totalBytes := 0

	cmd := msg.Command()
	if len(cmd) > CommandSize {
		str := fmt.Sprintf("command [%s] is too long [max %v]", cmd, CommandSize)
		return totalBytes, messageError("WriteMessage", str)
	}

	var bw bytes.Buffer
	if err := msg.FlcEncode(&bw, pver, enc); err != nil {
		return totalBytes, err
	}
	payload := bw.Bytes()
	lenp := len(payload)

	mpl := msg.MaxPayloadLength(pver)
	if uint32(lenp) > mpl {
		str := fmt.Sprintf("message payload is too large - encoded "+
			"%d bytes, but maximum message payload is %d bytes",
			lenp, mpl)
		return totalBytes, messageError("WriteMessage", str)
	}

	var hdr messageHeader
	hdr.magic = btcNet
	hdr.command = cmd
	hdr.length = uint32(lenp)
	copy(hdr.checksum[:], chainhash.DoubleHashB(payload)[0:4])

	var hw bytes.Buffer
	if err := writeElement(&hw, uint32(hdr.magic)); err != nil {
		return totalBytes, err
	}
	var command [CommandSize]byte
	copy(command[:], hdr.command)
	if _, err := hw.Write(command[:]); err != nil {
		return totalBytes, err
	}
	if err := writeElement(&hw, hdr.length); err != nil {
		return totalBytes, err
	}
	if _, err := hw.Write(hdr.checksum[:]); err != nil {
		return totalBytes, err
	}

	n, err := w.Write(hw.Bytes())
	totalBytes += n
	if err != nil {
		return totalBytes, err
	}

	n, err = w.Write(payload)
	totalBytes += n
	return totalBytes, err
}

// ReadMessageN reads, validates, and parses the next flokicoin message from r
// for the provided protocol version and flokicoin network. It returns the
// number of bytes read in addition to the parsed Message and raw bytes which
// comprise the message.
//
// A checksum mismatch does not terminate the stream: the caller is expected
// to loop, resuming at the magic-scanning phase, exactly as a resumable frame
// decoder facing a corrupted frame on a long-lived connection should.
func ReadMessageN(r io.Reader, pver uint32, btcNet FlcNet) (int, Message, []byte, error) {
	return ReadMessageWithEncodingN(r, pver, btcNet, BaseEncoding)
}

// ReadMessage reads, validates, and parses the next flokicoin message from r
// for the provided protocol version and flokicoin network.
func ReadMessage(r io.Reader, pver uint32, btcNet FlcNet) (Message, []byte, error) {
	_, msg, buf, err := ReadMessageN(r, pver, btcNet)
	return msg, buf, err
}

// ReadMessageWithEncodingN is the same as ReadMessageN except it allows the
// caller to specify the message encoding to use when decoding wire messages.
func ReadMessageWithEncodingN(r io.Reader, pver uint32, btcNet FlcNet, enc MessageEncoding) (int, Message, []byte, error) {
	totalBytes := 0

	n, hdr, err := readMessageHeader(r, btcNet)
	totalBytes += n
	if err != nil {
		return totalBytes, nil, nil, err
	}

	if hdr.length > MaxMessagePayload {
		str := fmt.Sprintf("message payload is too large - header "+
			"indicates %d bytes, but max message payload is %d "+
			"bytes", hdr.length, MaxMessagePayload)
		return totalBytes, nil, nil, codecError(ErrOversizePayload, str)
	}

	msg, err := makeEmptyMessage(hdr.command)
	if err != nil {
		discardInput(r, hdr.length)
		return totalBytes, nil, nil, codecError(ErrUnknownCommand, err.Error())
	}

	mpl := msg.MaxPayloadLength(pver)
	if hdr.length > mpl {
		discardInput(r, hdr.length)
		str := fmt.Sprintf("payload exceeds max length for message "+
			"type [cmd %s, %d bytes]", hdr.command, mpl)
		return totalBytes, nil, nil, codecError(ErrOversizePayload, str)
	}

	payload := make([]byte, hdr.length)
	n, err = io.ReadFull(r, payload)
	totalBytes += n
	if err != nil {
		return totalBytes, nil, nil, err
	}

	checksum := chainhash.DoubleHashB(payload)[0:4]
	if !bytes.Equal(checksum, hdr.checksum[:]) {
		str := fmt.Sprintf("payload checksum failed - header "+
			"indicates %x, but actual checksum is %x",
			hdr.checksum, checksum)
		return totalBytes, nil, nil, codecError(ErrChecksumMismatch, str)
	}

	pr := bytes.NewReader(payload)
	if err := msg.FlcDecode(pr, pver, enc); err != nil {
		return totalBytes, nil, nil, err
	}

	return totalBytes, msg, payload, nil
}

// discardInput reads n bytes from r in fixed-size chunks, discarding the
// result, so an oversize or unrecognized payload can be skipped without
// terminating the connection.
func discardInput(r io.Reader, n uint32) {
	maxSize := uint32(10 * 1024)
	numReads := n / maxSize
	bytesRemaining := n % maxSize
	if n > 0 {
		buf := make([]byte, maxSize)
		for i := uint32(0); i < numReads; i++ {
			io.ReadFull(r, buf)
		}
	}
	if bytesRemaining > 0 {
		buf := make([]byte, bytesRemaining)
		io.ReadFull(r, buf)
	}
}
