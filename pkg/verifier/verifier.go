// Copyright 2025 Certen Protocol
//
// Package verifier re-derives an event's signature, content commitment
// and event hash independently of however it was produced. Verify is
// pure: it never mutates the event, never touches I/O, and never
// raises on a cryptographic failure -- a bad signature is ordinary,
// expected data.

package verifier

import (
	"github.com/certen/lineage-ledger/pkg/crypto"
	"github.com/certen/lineage-ledger/pkg/event"
)

// Verdict is the three independent sub-checks plus the overall result
// of verifying a single event.
type Verdict struct {
	SigOK    bool
	CommitOK bool
	HashOK   bool
	OK       bool
}

// Verify recomputes the commitment and event hash for ev and checks
// its signature under vk, returning a Verdict. It never returns an
// error: a cryptographic mismatch is a normal verdict, not a fault.
func Verify(ev event.Event, vk []byte) Verdict {
	sigOK := crypto.Verify(vk, ev.CanonicalSigningBytes(), ev.Signature)
	commitOK := crypto.Commit([]byte(ev.Payload)) == ev.PayloadCommit

	recomputedHash := crypto.EventHash(ev.ModelID, ev.Index, ev.PrevHash, []byte(ev.Payload), ev.Ts)
	hashOK := recomputedHash == ev.EventHash && ev.PayloadHash == ev.EventHash

	return Verdict{
		SigOK:    sigOK,
		CommitOK: commitOK,
		HashOK:   hashOK,
		OK:       sigOK && commitOK && hashOK,
	}
}
