package agent

import (
	"testing"
	"time"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/lineage-ledger/pkg/crypto"
	"github.com/certen/lineage-ledger/pkg/event"
	"github.com/certen/lineage-ledger/pkg/kvdb"
	"github.com/certen/lineage-ledger/pkg/ledger"
)

func newTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	return ledger.OpenWithKV(kvdb.NewKVAdapter(dbm.NewMemDB()), 10)
}

func TestHonestEmitGenesis(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a, err := New("agent-a", "", HonestBehavior())
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	ev, err := a.Emit(store, "hello")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if ev.Index != 0 {
		t.Fatalf("index = %d, want 0", ev.Index)
	}
	if ev.PrevHash != event.Genesis {
		t.Fatalf("prev_hash = %q, want genesis", ev.PrevHash)
	}
	if ev.PayloadCommit != crypto.Commit([]byte("hello")) {
		t.Fatalf("payload_commit mismatch")
	}
	wantHash := crypto.EventHash("agent-a", 0, event.Genesis, []byte("hello"), ev.Ts)
	if ev.EventHash != wantHash {
		t.Fatalf("event_hash mismatch")
	}
	if ev.PayloadHash != ev.EventHash {
		t.Fatalf("payload_hash != event_hash")
	}
	if !crypto.Verify(a.PublicKey(), ev.CanonicalSigningBytes(), ev.Signature) {
		t.Fatalf("signature does not verify")
	}

	if err := store.Append(ev); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestTimestampMonotonicAcrossRestart(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a1, _ := New("agent-a", "", HonestBehavior())
	a1.lastTs = 2000
	ev, err := a1.Emit(store, "first")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := store.Append(ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	if ev.Ts < 2000 {
		t.Fatalf("ts = %d, want >= 2000", ev.Ts)
	}

	a2, _ := New("agent-a", "", HonestBehavior())
	ev2, err := a2.Emit(store, "second")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if ev2.Ts <= ev.Ts {
		t.Fatalf("ts2 = %d, want > ts1 = %d", ev2.Ts, ev.Ts)
	}
}

func TestSigCheatProducesInvalidSignature(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a, _ := New("agent-a", "", Behavior{Kind: SigCheat, Rate: 1.0})
	ev, err := a.Emit(store, "payload")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if crypto.Verify(a.PublicKey(), ev.CanonicalSigningBytes(), ev.Signature) {
		t.Fatalf("expected signature to fail verification")
	}
	// Structural fields remain valid: append must still succeed.
	if err := store.Append(ev); err != nil {
		t.Fatalf("append should succeed for structurally valid event: %v", err)
	}
}

func TestCommitDriftLeavesStructureIntact(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a, _ := New("agent-a", "", Behavior{Kind: CommitDrift, Rate: 1.0})
	ev, err := a.Emit(store, "payload")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if ev.PayloadHash != ev.EventHash {
		t.Fatalf("payload_hash != event_hash after drift")
	}
	if err := store.Append(ev); err != nil {
		t.Fatalf("append should succeed: %v", err)
	}
}

func TestSlowDripStalesHashes(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a, _ := New("agent-a", "", Behavior{Kind: SlowDrip, Rate: 1.0})
	ev, err := a.Emit(store, "payload")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if crypto.Commit([]byte(ev.Payload)) == ev.PayloadCommit {
		t.Fatalf("expected payload_commit to go stale after slow drip")
	}
}

func TestEmitWallClockFloor(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	a, _ := New("agent-a", "", HonestBehavior())
	before := uint64(time.Now().Unix())
	ev, err := a.Emit(store, "x")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if ev.Ts < before {
		t.Fatalf("ts = %d, want >= %d", ev.Ts, before)
	}
}
