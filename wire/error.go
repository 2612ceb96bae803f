// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// MessageError describes an issue with a message.  An example of some
// potential issues are messages from the wrong network, invalid commands,
// mismatched checksums, and exceeding max payloads.
//
// This provides a mechanism for the caller to type assert the error to
// differentiate between general io errors such as io.EOF and issues that
// resulted from malformed messages.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%s: %s", e.Func, e.Description)
	}
	return e.Description
}

// messageError creates an error for the given function and description.
func messageError(f string, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

// ErrorCode identifies the kind of codec-level failure that occurred while
// framing a message on the wire. Unlike MessageError, which is payload
// specific, these are used by the resumable frame decoder in message.go.
type ErrorCode int

const (
	// ErrChecksumMismatch indicates the payload checksum did not match the
	// one carried in the frame header.
	ErrChecksumMismatch ErrorCode = iota

	// ErrOversizePayload indicates the frame header declared a payload
	// length above the configured maximum.
	ErrOversizePayload

	// ErrUnknownCommand indicates the frame's command string does not
	// correspond to any known message type.
	ErrUnknownCommand

	// ErrMalformedPayload indicates the frame's command field is not a
	// valid UTF-8 string. A payload that fails to decode is reported with
	// the message type's own decode error instead.
	ErrMalformedPayload
)

var errCodeStrings = map[ErrorCode]string{
	ErrChecksumMismatch: "ChecksumMismatch",
	ErrOversizePayload:  "OversizePayload",
	ErrUnknownCommand:   "UnknownCommand",
	ErrMalformedPayload: "MalformedPayload",
}

// String returns the ErrorCode in human-readable form.
func (e ErrorCode) String() string {
	if s, ok := errCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// CodecError wraps an ErrorCode with contextual detail. It is the error
// type surfaced by the resumable frame decoder for framing-level failures
// (as opposed to MessageError, which covers payload decode failures once a
// frame has already been delimited).
type CodecError struct {
	Code        ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func codecError(code ErrorCode, desc string) *CodecError {
	return &CodecError{Code: code, Description: desc}
}
