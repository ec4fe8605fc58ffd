// Copyright 2025 Certen Protocol
//
// Package ledger is decoupled from any particular embedded database:
// it only requires a KV implementation, which pkg/kvdb supplies over
// CometBFT's dbm.DB.

package ledger

// Iterator walks a KV key range in ascending key order.
type Iterator interface {
	Valid() bool
	Next()
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Batch accumulates writes for a single durability flush.
type Batch interface {
	Set(key, value []byte) error
	WriteSync() error
	Close() error
}

// KV defines the key-value store interface the lineage store is built
// on. Implementations are expected to back onto a durable, embedded
// transactional engine (e.g. CometBFT's dbm.DB over GoLevelDB).
type KV interface {
	Get(key []byte) ([]byte, error)
	Iterator(start, end []byte) (Iterator, error)
	NewBatch() Batch
	Close() error
}
