// Copyright 2025 Certen Protocol
//
// Event is the immutable lineage record emitted by an agent and
// persisted by the store. It carries its own content commitment,
// chain-contextual hash, and signature; it never reads mutable state
// once constructed.

package event

import (
	"bytes"
	"strconv"
)

// Genesis is the sentinel prev_hash for an agent's first event.
const Genesis = "0000000000000000000000000000000000000000000000000000000000000000"

const fieldDelimiter = '|'

// Event is a single entry in the lineage log.
//
// Fields are exported because Event is a plain value type: nothing in
// this package mutates an Event in place. Adversarial variants build a
// *new* Event from an honest one (see pkg/agent) rather than editing
// fields of an already-signed value, so the canonical byte functions
// below never desynchronize from what was actually signed/hashed.
type Event struct {
	ModelID       string `json:"model_id"`
	Index         uint64 `json:"index"`
	Ts            uint64 `json:"ts"`
	Payload       string `json:"payload"`
	PayloadCommit string `json:"payload_commit"`
	EventHash     string `json:"event_hash"`
	// PayloadHash is retained as a distinct stored field for schema
	// stability. It always equals EventHash; any divergence in honestly
	// constructed code is a bug, not a design latitude.
	PayloadHash string `json:"payload_hash"`
	PrevHash    string `json:"prev_hash"`
	Signature   []byte `json:"signature"`
}

// CanonicalSigningBytes returns the exact byte sequence that is signed
// and verified. It is distinct from the event-hash preimage: different
// field set, different order.
func (e Event) CanonicalSigningBytes() []byte {
	return bytes.Join([][]byte{
		[]byte(e.ModelID),
		[]byte(strconv.FormatUint(e.Index, 10)),
		[]byte(e.PrevHash),
		[]byte(e.EventHash),
		[]byte(e.PayloadCommit),
		[]byte(strconv.FormatUint(e.Ts, 10)),
	}, []byte{fieldDelimiter})
}
