// Copyright 2025 Certen Protocol
//
// Adversarial agent variants are modeled as a single tagged Behavior
// interpreted by Agent.Emit, rather than an inheritance hierarchy: the
// variants differ only in an optional pre-signing byte-flip and an
// optional post-signing mutation, both gated by a probability.

package agent

import (
	"math/rand"

	"github.com/certen/lineage-ledger/pkg/event"
)

// Kind selects which adversarial behavior an agent exhibits.
type Kind int

const (
	// Honest emits events exactly per the protocol.
	Honest Kind = iota
	// SigCheat signs the byte-reversed canonical bytes with
	// probability Rate, producing a structurally valid event with an
	// invalid signature.
	SigCheat
	// CommitDrift overwrites payload_commit and/or event_hash with
	// fixed sentinel strings, with probability Rate, after honest
	// creation.
	CommitDrift
	// SlowDrip appends a suffix to payload after its hashes were
	// computed, with probability Rate, leaving them stale.
	SlowDrip
)

// Behavior tags an agent's emission strategy. Rate is ignored for
// Honest.
type Behavior struct {
	Kind Kind
	Rate float64
}

// HonestBehavior is the default, always-correct behavior.
func HonestBehavior() Behavior {
	return Behavior{Kind: Honest}
}

// commitDriftSentinelCommit and commitDriftSentinelHash are the fixed
// 64-hex-char sentinels CommitDrift writes in place of a real
// commitment or event hash. They are deliberately non-random so a
// verifier log is reproducible across runs.
const (
	commitDriftSentinelCommit = "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead" + "dead"
	commitDriftSentinelHash   = "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef" + "beef"
)

// driftTarget selects which field(s) CommitDrift corrupts.
type driftTarget int

const (
	driftCommitOnly driftTarget = iota
	driftHashOnly
	driftBoth
)

// signingBytes returns the bytes Emit should actually sign for the
// given behavior: the canonical bytes, unless SigCheat's coin flip
// fires, in which case the byte-reversed canonical bytes.
func (b Behavior) signingBytes(rng *rand.Rand, canonical []byte, reversed []byte) []byte {
	if b.Kind == SigCheat && rng.Float64() < b.Rate {
		return reversed
	}
	return canonical
}

// mutate applies this behavior's post-signing corruption to an
// honestly-built, honestly-signed event, returning a new Event. Honest
// and SigCheat never mutate post-signing; CommitDrift and SlowDrip do.
func (b Behavior) mutate(rng *rand.Rand, ev event.Event) event.Event {
	switch b.Kind {
	case CommitDrift:
		if rng.Float64() >= b.Rate {
			return ev
		}
		switch driftTarget(rng.Intn(3)) {
		case driftCommitOnly:
			ev.PayloadCommit = commitDriftSentinelCommit
		case driftHashOnly:
			ev.EventHash = commitDriftSentinelHash
			ev.PayloadHash = commitDriftSentinelHash
		case driftBoth:
			ev.PayloadCommit = commitDriftSentinelCommit
			ev.EventHash = commitDriftSentinelHash
			ev.PayloadHash = commitDriftSentinelHash
		}
		return ev
	case SlowDrip:
		if rng.Float64() >= b.Rate {
			return ev
		}
		ev.Payload = ev.Payload + "_shadow"
		return ev
	default:
		return ev
	}
}
