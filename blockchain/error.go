// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a kind of error returned by the header-chain engine.
type ErrorCode int

const (
	// ErrBadProofOfWork indicates a header's hash does not satisfy the
	// difficulty target carried in its own Bits field.
	ErrBadProofOfWork ErrorCode = iota

	// ErrBadTimestamp indicates a header's timestamp is not greater than
	// the median of the preceding eleven headers, or too far in the
	// future.
	ErrBadTimestamp

	// ErrBadDifficulty indicates a header's Bits field does not match
	// the value required by the retarget rule.
	ErrBadDifficulty

	// ErrCheckpointMismatch indicates a header lands on a checkpointed
	// height with a block id other than the one recorded for it.
	ErrCheckpointMismatch

	// ErrOrphan indicates a header's parent is not present in the store.
	ErrOrphan

	// ErrAlreadyKnown indicates a header with this id is already stored.
	ErrAlreadyKnown

	// ErrForkTooDeep indicates accepting a header would require a
	// reorganization deeper than the retention window.
	ErrForkTooDeep
)

var errorCodeStrings = map[ErrorCode]string{
	ErrBadProofOfWork:     "BadProofOfWork",
	ErrBadTimestamp:       "BadTimestamp",
	ErrBadDifficulty:      "BadDifficulty",
	ErrCheckpointMismatch: "CheckpointMismatch",
	ErrOrphan:             "Orphan",
	ErrAlreadyKnown:       "AlreadyKnown",
	ErrForkTooDeep:        "ForkTooDeep",
}

// String returns the ErrorCode in human-readable form.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies an error deriving from a header or chain rule
// violation. It carries sufficient information for the caller to identify
// the rule violation, which is necessary for proper error handling from
// across subsystem boundaries. The download coordinator stops processing
// a headers batch at the first RuleError: ErrOrphan triggers a locator
// backfill, and any other code is logged while the sending peer stays
// connected.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// IsOrphan reports whether err is a RuleError with code ErrOrphan.
func IsOrphan(err error) bool {
	rerr, ok := err.(RuleError)
	return ok && rerr.ErrorCode == ErrOrphan
}
