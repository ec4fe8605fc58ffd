// Copyright 2025 Certen Protocol
//
// Anomaly counters observe the verdict stream for operators: total
// signature failures, commitment mismatches, event-hash mismatches,
// any-bad-event tallies, and a per-model_id breakdown. They never
// influence the verdict itself.

package verifier

import (
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sigInvalidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_verifier_sig_invalid_total",
		Help: "Number of events that failed Ed25519 signature verification.",
	})
	commitMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_verifier_commit_mismatch_total",
		Help: "Number of events whose payload_commit did not match the recomputed commitment.",
	})
	eventHashMismatchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_verifier_eventhash_mismatch_total",
		Help: "Number of events whose event_hash did not match the recomputed hash.",
	})
	badEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineage_verifier_bad_events_total",
		Help: "Number of events that failed any sub-check.",
	})
	badEventsByModel = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lineage_verifier_bad_events_by_model_total",
		Help: "Number of events that failed any sub-check, by model_id.",
	}, []string{"model_id"})
)

// Counters accumulates anomaly tallies in-process, alongside the
// process-wide Prometheus series registered above. Snapshot captures
// the in-process tallies for comparison, e.g. across a store reload.
type Counters struct {
	mu sync.Mutex

	sigInvalid        uint64
	commitMismatch    uint64
	eventHashMismatch uint64
	badEvents         uint64
	badByModel        map[string]uint64
}

// NewCounters returns a zeroed Counters.
func NewCounters() *Counters {
	return &Counters{badByModel: make(map[string]uint64)}
}

// Record updates the counters for one verdict on modelID's event. It
// also increments the corresponding Prometheus series.
func (c *Counters) Record(modelID string, v Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !v.SigOK {
		c.sigInvalid++
		sigInvalidTotal.Inc()
	}
	if !v.CommitOK {
		c.commitMismatch++
		commitMismatchTotal.Inc()
	}
	if !v.HashOK {
		c.eventHashMismatch++
		eventHashMismatchTotal.Inc()
	}
	if !v.OK {
		c.badEvents++
		c.badByModel[modelID]++
		badEventsTotal.Inc()
		badEventsByModel.WithLabelValues(modelID).Inc()
	}
}

// Snapshot is a point-in-time, comparable view of a Counters'
// in-process tallies, tagged with a run identifier so two snapshots
// taken from different processes (e.g. before and after a store
// reload) can be told apart even when their tallies are identical.
type Snapshot struct {
	RunID             string
	SigInvalid        uint64
	CommitMismatch    uint64
	EventHashMismatch uint64
	BadEvents         uint64
	BadByModel        map[string]uint64
}

// Snapshot captures the current tallies. Equal captures taken from two
// independent verification runs over the same event log indicate
// reload fidelity (§8 property 8): the tallies, not the RunID, are
// what must match.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	byModel := make(map[string]uint64, len(c.badByModel))
	for k, v := range c.badByModel {
		byModel[k] = v
	}
	return Snapshot{
		RunID:             uuid.NewString(),
		SigInvalid:        c.sigInvalid,
		CommitMismatch:    c.commitMismatch,
		EventHashMismatch: c.eventHashMismatch,
		BadEvents:         c.badEvents,
		BadByModel:        byModel,
	}
}

// TalliesEqual reports whether two snapshots carry identical tallies,
// ignoring their RunID.
func TalliesEqual(a, b Snapshot) bool {
	if a.SigInvalid != b.SigInvalid || a.CommitMismatch != b.CommitMismatch ||
		a.EventHashMismatch != b.EventHashMismatch || a.BadEvents != b.BadEvents {
		return false
	}
	if len(a.BadByModel) != len(b.BadByModel) {
		return false
	}
	for k, v := range a.BadByModel {
		if b.BadByModel[k] != v {
			return false
		}
	}
	return true
}
