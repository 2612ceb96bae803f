// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import "fmt"

// ErrorCode identifies a kind of failure in the download coordinator.
type ErrorCode int

const (
	// ErrNoEligiblePeer indicates the pool has no peer that can be
	// elected download peer (§4.5), either because it is empty or every
	// candidate has been excluded by backoff.
	ErrNoEligiblePeer ErrorCode = iota

	// ErrDownloadStalled is the reason disconnectSlowPeer gives when it
	// disconnects a peer for missing consecutive range deadlines.
	ErrDownloadStalled
)

var errorCodeStrings = map[ErrorCode]string{
	ErrNoEligiblePeer:  "NoEligiblePeer",
	ErrDownloadStalled: "DownloadStalled",
}

// String returns the ErrorCode in human-readable form.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// CoordinatorError identifies a download-coordinator-level failure,
// surfaced to a ChainSubscriber as a download-failed event rather than
// terminating the coordinator itself.
type CoordinatorError struct {
	Code        ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e CoordinatorError) Error() string {
	return e.Description
}

func coordinatorError(c ErrorCode, desc string) CoordinatorError {
	return CoordinatorError{Code: c, Description: desc}
}
