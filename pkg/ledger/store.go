// Copyright 2025 Certen Protocol
//
// Store is the durable, append-only lineage log. It enforces the two
// structural continuity invariants at append time (dense global index,
// per-agent prev_hash chaining) and defers everything else --
// signature, commitment, and event-hash recomputation -- to the
// verifier. It never mutates or deletes a stored event.
//
// CONCURRENCY: Store assumes a single writer. Append is not
// reentrant; wrap it with your own synchronization if you need to call
// it from multiple goroutines. Multiple readers opening the same
// backing file concurrently with the writer see a snapshot at least as
// recent as the last flush.
package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/lineage-ledger/pkg/event"
	"github.com/certen/lineage-ledger/pkg/kvdb"
)

// DefaultFlushBatchSize is the number of uncommitted appends the store
// accumulates before forcing a durability flush.
const DefaultFlushBatchSize = 1000

// Store is the lineage log.
type Store struct {
	mu sync.Mutex

	kv             KV
	path           string
	flushBatchSize int
	logger         *log.Logger

	batch   Batch
	pending map[string][]byte
	count   int

	closed bool
}

// Open opens (or creates) a GoLevelDB-backed store named dbName under
// dataDir, e.g. Open(".", "poc_integrity") opens ./poc_integrity.db.
func Open(dataDir, dbName string, flushBatchSize int) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ledger: create data dir: %w", err)
	}
	db, err := dbm.NewGoLevelDB(dbName, dataDir)
	if err != nil {
		return nil, fmt.Errorf("ledger: open backing db: %w", err)
	}
	s := newStore(kvdb.NewKVAdapter(db), flushBatchSize)
	s.path = filepath.Join(dataDir, dbName+".db")
	return s, nil
}

// OpenWithKV builds a store directly over an already-constructed KV,
// e.g. a cometbft-db MemDB in tests. The reported Path() is empty.
func OpenWithKV(kv KV, flushBatchSize int) *Store {
	return newStore(kv, flushBatchSize)
}

func newStore(kv KV, flushBatchSize int) *Store {
	if flushBatchSize <= 0 {
		flushBatchSize = DefaultFlushBatchSize
	}
	return &Store{
		kv:             kv,
		flushBatchSize: flushBatchSize,
		logger:         log.New(os.Stderr, "[ledger] ", log.LstdFlags),
		batch:          kv.NewBatch(),
		pending:        make(map[string][]byte),
	}
}

// Path reports the store's backing file path, for display by driver
// programs.
func (s *Store) Path() string {
	return s.path
}

// get consults pending (unflushed) writes first, then the durable
// backing store, so a store instance always sees its own writes from
// the current session even before they're flushed.
func (s *Store) get(key []byte) ([]byte, error) {
	if v, ok := s.pending[string(key)]; ok {
		return v, nil
	}
	return s.kv.Get(key)
}

func (s *Store) set(key, value []byte) error {
	if err := s.batch.Set(key, value); err != nil {
		return err
	}
	s.pending[string(key)] = value
	s.count++
	if s.count >= s.flushBatchSize {
		return s.flushLocked()
	}
	return nil
}

// flushLocked forces a durability flush of all writes accumulated
// since the last flush. Caller must hold s.mu.
func (s *Store) flushLocked() error {
	if s.count == 0 {
		return nil
	}
	if err := s.batch.WriteSync(); err != nil {
		return fmt.Errorf("ledger: flush: %w", err)
	}
	if err := s.batch.Close(); err != nil {
		return fmt.Errorf("ledger: close batch: %w", err)
	}
	s.batch = s.kv.NewBatch()
	s.pending = make(map[string][]byte)
	s.count = 0
	return nil
}

// Flush forces a durability flush of any appends accumulated since the
// last flush. Append() calls this automatically every flushBatchSize
// writes; Close() calls it once more on the way out.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Close flushes any pending writes and releases the backing handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err := s.flushLocked(); err != nil {
		return err
	}
	s.closed = true
	return s.kv.Close()
}

// NextIndex returns the next global index to be assigned: 0 if the log
// is empty, else max(index)+1.
func (s *Store) NextIndex() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextIndexLocked()
}

func (s *Store) nextIndexLocked() (uint64, error) {
	v, err := s.get(metaNextIndex)
	if err != nil {
		return 0, fmt.Errorf("ledger: read next_index: %w", err)
	}
	if v == nil {
		return 0, nil
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("ledger: corrupt next_index value (%d bytes)", len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

// LastHash returns the event_hash of modelID's most recent event, or
// Genesis if it has none yet.
func (s *Store) LastHash(modelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHashLocked(modelID)
}

func (s *Store) lastHashLocked(modelID string) (string, error) {
	v, err := s.get(chainLastHashKey(modelID))
	if err != nil {
		return "", fmt.Errorf("ledger: read last_hash(%s): %w", modelID, err)
	}
	if v == nil {
		return event.Genesis, nil
	}
	return string(v), nil
}

// LastTs returns modelID's most recent ts and true, or (0, false) if it
// has no events yet.
func (s *Store) LastTs(modelID string) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.get(chainLastTsKey(modelID))
	if err != nil {
		return 0, false, fmt.Errorf("ledger: read last_ts(%s): %w", modelID, err)
	}
	if v == nil {
		return 0, false, nil
	}
	if len(v) != 8 {
		return 0, false, fmt.Errorf("ledger: corrupt last_ts value (%d bytes)", len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

// Append persists ev. It fails with ErrIndexMismatch if ev.Index does
// not equal NextIndex(), and with ErrPrevHashMismatch if ev.PrevHash
// does not equal LastHash(ev.ModelID). It does not verify signature,
// commitment, or event hash: those are the verifier's job. On failure
// the store's state is unchanged.
func (s *Store) Append(ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wantIndex, err := s.nextIndexLocked()
	if err != nil {
		return err
	}
	if ev.Index != wantIndex {
		return fmt.Errorf("ledger: append model=%s index=%d want=%d: %w", ev.ModelID, ev.Index, wantIndex, ErrIndexMismatch)
	}

	wantPrev, err := s.lastHashLocked(ev.ModelID)
	if err != nil {
		return err
	}
	if ev.PrevHash != wantPrev {
		return fmt.Errorf("ledger: append model=%s index=%d prev_hash=%s want=%s: %w", ev.ModelID, ev.Index, ev.PrevHash, wantPrev, ErrPrevHashMismatch)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ledger: marshal event: %w", err)
	}

	if err := s.set(eventKey(ev.Index), data); err != nil {
		return err
	}
	if err := s.set(chainIndexKey(ev.ModelID, ev.Index), be64(ev.Index)); err != nil {
		return err
	}
	if err := s.set(chainLastHashKey(ev.ModelID), []byte(ev.EventHash)); err != nil {
		return err
	}
	if err := s.set(chainLastTsKey(ev.ModelID), be64(ev.Ts)); err != nil {
		return err
	}
	return s.set(metaNextIndex, be64(ev.Index+1))
}

// Chain returns every event for modelID, ascending by index.
func (s *Store) Chain(modelID string) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indices, err := s.scanIndices(chainIndexModelPrefix(modelID))
	if err != nil {
		return nil, fmt.Errorf("ledger: scan chain(%s): %w", modelID, err)
	}

	events := make([]event.Event, 0, len(indices))
	for _, idx := range indices {
		ev, err := s.loadEventLocked(idx)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// AllEvents returns every event in the log, ascending by global index.
func (s *Store) AllEvents() ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.scanKeys(eventPrefix)
	if err != nil {
		return nil, fmt.Errorf("ledger: scan all_events: %w", err)
	}

	events := make([]event.Event, 0, len(keys))
	for _, k := range keys {
		v, err := s.get(k)
		if err != nil {
			return nil, fmt.Errorf("ledger: read event: %w", err)
		}
		var ev event.Event
		if err := json.Unmarshal(v, &ev); err != nil {
			return nil, fmt.Errorf("ledger: unmarshal event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) loadEventLocked(index uint64) (event.Event, error) {
	v, err := s.get(eventKey(index))
	if err != nil {
		return event.Event{}, fmt.Errorf("ledger: read event %d: %w", index, err)
	}
	if v == nil {
		return event.Event{}, fmt.Errorf("ledger: event %d referenced by chain index but missing", index)
	}
	var ev event.Event
	if err := json.Unmarshal(v, &ev); err != nil {
		return event.Event{}, fmt.Errorf("ledger: unmarshal event %d: %w", index, err)
	}
	return ev, nil
}

// scanIndices returns the big-endian indices encoded in the suffixes of
// every key sharing prefix, ascending.
func (s *Store) scanIndices(prefix []byte) ([]uint64, error) {
	keys, err := s.scanKeys(prefix)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, 0, len(keys))
	for _, k := range keys {
		suffix := k[len(prefix):]
		if len(suffix) != 8 {
			return nil, fmt.Errorf("ledger: corrupt chain index key (suffix %d bytes)", len(suffix))
		}
		out = append(out, binary.BigEndian.Uint64(suffix))
	}
	return out, nil
}

// scanKeys returns every key with the given prefix, ascending, merging
// durable storage with this session's unflushed pending writes.
func (s *Store) scanKeys(prefix []byte) ([][]byte, error) {
	seen := make(map[string]bool)
	var keys [][]byte

	end := prefixRangeEnd(prefix)
	it, err := s.kv.Iterator(prefix, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		k := append([]byte{}, it.Key()...)
		if !seen[string(k)] {
			seen[string(k)] = true
			keys = append(keys, k)
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}

	for k := range s.pending {
		if len(k) >= len(prefix) && k[:len(prefix)] == string(prefix) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, []byte(k))
			}
		}
	}

	sortKeys(keys)
	return keys, nil
}

// sortKeys performs an insertion sort in lexicographic byte order. Key
// sets here are bounded by what's been appended between flushes plus
// whatever's durable -- never large enough to need more than this, and
// it keeps the comparison inline instead of going through sort.Slice's
// reflection.
func sortKeys(keys [][]byte) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && lessBytes(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func lessBytes(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
