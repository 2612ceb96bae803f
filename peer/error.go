// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "fmt"

// ErrorCode identifies a kind of failure in the peer session state machine.
type ErrorCode int

const (
	// ErrHandshakeTimeout indicates the remote did not complete the
	// version/verack exchange within the configured handshake deadline.
	ErrHandshakeTimeout ErrorCode = iota

	// ErrKeepAliveTimeout indicates a ping went unanswered within the
	// keep-alive deadline (§4.4).
	ErrKeepAliveTimeout

	// ErrProtocolViolation indicates the remote sent a message that
	// violates the session's expectations: an out-of-order handshake
	// message, a version below the configured minimum, a merkleblock
	// whose partial tree does not verify, or a merkleblock whose matched
	// transactions do not all arrive in time. The session does not check
	// whether an inbound message was requested.
	ErrProtocolViolation
)

var errorCodeStrings = map[ErrorCode]string{
	ErrHandshakeTimeout:  "HandshakeTimeout",
	ErrKeepAliveTimeout:  "KeepAliveTimeout",
	ErrProtocolViolation: "ProtocolViolation",
}

// String returns the ErrorCode in human-readable form.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// SessionError identifies an error that terminates a peer session. The
// download coordinator does not inspect Code: it records every
// disconnect in the pool's backoff the same way, whatever the cause.
type SessionError struct {
	Code        ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e SessionError) Error() string {
	return e.Description
}

func sessionError(c ErrorCode, desc string) SessionError {
	return SessionError{Code: c, Description: desc}
}
