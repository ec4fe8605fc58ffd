// Copyright 2025 Certen Protocol
//
// Package ledger provides sentinel errors for structural append
// failures. These indicate a programming error or a race in the
// caller, never a verification concern: signature/commitment/hash
// mismatches are never errors, see pkg/verifier.

package ledger

import "errors"

var (
	// ErrIndexMismatch is returned when an appended event's Index does
	// not equal NextIndex().
	ErrIndexMismatch = errors.New("ledger: index mismatch")

	// ErrPrevHashMismatch is returned when an appended event's PrevHash
	// does not equal LastHash(event.ModelID).
	ErrPrevHashMismatch = errors.New("ledger: prev_hash mismatch")
)
