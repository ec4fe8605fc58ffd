// Copyright 2025 Certen Protocol
//
// KV Adapter for CometBFT Database Integration
// Wraps CometBFT's dbm.DB interface to implement ledger.KV

package kvdb

import (
	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/lineage-ledger/pkg/ledger"
)

// KVAdapter wraps a CometBFT dbm.DB and exposes the ledger.KV interface.
// This allows the lineage store to use CometBFT's embedded persistent
// storage directly, whether that's GoLevelDB on disk or MemDB in tests.
type KVAdapter struct {
	db dbm.DB
}

// NewKVAdapter creates a new KVAdapter for the given underlying DB.
func NewKVAdapter(db dbm.DB) *KVAdapter {
	return &KVAdapter{db: db}
}

// Get implements ledger.KV.Get
func (a *KVAdapter) Get(key []byte) ([]byte, error) {
	// CometBFT DB returns (val, error)
	v, err := a.db.Get(key)
	if err != nil {
		return nil, err
	}
	// v may be nil if key not found -- that's fine, the store treats
	// nil as "not present".
	return v, nil
}

// Iterator implements ledger.KV.Iterator
func (a *KVAdapter) Iterator(start, end []byte) (ledger.Iterator, error) {
	return a.db.Iterator(start, end)
}

// NewBatch implements ledger.KV.NewBatch
func (a *KVAdapter) NewBatch() ledger.Batch {
	return &batchAdapter{b: a.db.NewBatch()}
}

// Close implements ledger.KV.Close
func (a *KVAdapter) Close() error {
	return a.db.Close()
}

// batchAdapter narrows dbm.Batch to ledger.Batch: the store only ever
// writes and flushes a batch, never deletes from one.
type batchAdapter struct {
	b dbm.Batch
}

func (ba *batchAdapter) Set(key, value []byte) error {
	return ba.b.Set(key, value)
}

func (ba *batchAdapter) WriteSync() error {
	return ba.b.WriteSync()
}

func (ba *batchAdapter) Close() error {
	return ba.b.Close()
}