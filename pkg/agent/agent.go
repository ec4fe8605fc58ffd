// Copyright 2025 Certen Protocol
//
// Package agent implements the event-emission side of the lineage
// protocol: each Agent owns a signing key and a private monotonic
// timestamp counter, and builds Events by reading continuity state
// from a ledger.Store.

package agent

import (
	"fmt"
	"math/rand"
	"time"

	certcrypto "github.com/certen/lineage-ledger/pkg/crypto"
	"github.com/certen/lineage-ledger/pkg/event"
	"github.com/certen/lineage-ledger/pkg/ledger"
)

// Agent is an independently-keyed entity that emits signed events
// under a stable model ID.
type Agent struct {
	modelID  string
	keys     *KeyManager
	behavior Behavior
	rng      *rand.Rand

	lastTs uint64
}

// New constructs an agent with the given model ID and behavior,
// loading or generating its signing key at keyPath (empty keyPath
// means the key is never persisted to disk).
func New(modelID, keyPath string, behavior Behavior) (*Agent, error) {
	km := NewKeyManager(keyPath)
	if err := km.LoadOrGenerateKey(); err != nil {
		return nil, fmt.Errorf("agent %s: %w", modelID, err)
	}
	return &Agent{
		modelID:  modelID,
		keys:     km,
		behavior: behavior,
		rng:      rand.New(rand.NewSource(seedFor(modelID))),
	}, nil
}

// seedFor derives a deterministic seed from modelID so two agents
// constructed with the same id and behavior in a test reproduce the
// same mutation sequence.
func seedFor(modelID string) int64 {
	var seed int64
	for i, c := range modelID {
		seed = seed*31 + int64(c) + int64(i)
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

// ModelID returns the agent's stable identifier.
func (a *Agent) ModelID() string { return a.modelID }

// PublicKey returns the agent's Ed25519 public key, for verification.
func (a *Agent) PublicKey() []byte { return a.keys.PublicKey() }

// Emit builds the next event for this agent from the given payload,
// reading next_index/last_hash/last_ts from store, applying the
// per-agent monotonic timestamp rule, signing, and applying this
// agent's adversarial behavior. It does not append the event to
// store; the caller does that.
func (a *Agent) Emit(store *ledger.Store, payload string) (event.Event, error) {
	idx, err := store.NextIndex()
	if err != nil {
		return event.Event{}, fmt.Errorf("agent %s: emit: %w", a.modelID, err)
	}
	prev, err := store.LastHash(a.modelID)
	if err != nil {
		return event.Event{}, fmt.Errorf("agent %s: emit: %w", a.modelID, err)
	}

	ts := a.nextTs(store)

	commit := certcrypto.Commit([]byte(payload))
	eh := certcrypto.EventHash(a.modelID, idx, prev, []byte(payload), ts)

	ev := event.Event{
		ModelID:       a.modelID,
		Index:         idx,
		Ts:            ts,
		Payload:       payload,
		PayloadCommit: commit,
		EventHash:     eh,
		PayloadHash:   eh,
		PrevHash:      prev,
	}

	canonical := ev.CanonicalSigningBytes()
	reversed := certcrypto.Reverse(canonical)
	signed := a.behavior.signingBytes(a.rng, canonical, reversed)
	ev.Signature = certcrypto.Sign(a.keys.PrivateKey(), signed)

	return a.behavior.mutate(a.rng, ev), nil
}

// nextTs computes this call's timestamp per the monotonicity rule:
// max(wall clock, last_ts+1, store's recorded last_ts+1 if present).
// It updates the agent's private counter and survives restart via the
// store's persisted last_ts.
func (a *Agent) nextTs(store *ledger.Store) uint64 {
	wall := uint64(time.Now().Unix())

	ts := wall
	if a.lastTs+1 > ts {
		ts = a.lastTs + 1
	}
	if storedTs, ok, err := store.LastTs(a.modelID); err == nil && ok {
		if storedTs+1 > ts {
			ts = storedTs + 1
		}
	}
	a.lastTs = ts
	return ts
}
