// Copyright 2025 Certen Protocol
//
// KV key layout for the lineage log.

package ledger

import "encoding/binary"

var (
	// metaNextIndex -> big-endian uint64, the next global index to assign.
	metaNextIndex = []byte("meta:next_index")

	// eventPrefix + big-endian index -> JSON-encoded Event
	eventPrefix = []byte("event:")

	// chainLastHashPrefix + model_id + NUL -> event_hash of that model's
	// most recent event
	chainLastHashPrefix = []byte("chain:last_hash:")

	// chainLastTsPrefix + model_id + NUL -> big-endian uint64 ts of that
	// model's most recent event
	chainLastTsPrefix = []byte("chain:last_ts:")

	// chainIndexPrefix + model_id + NUL + big-endian index -> big-endian
	// index (redundant value, kept for readability when inspecting the
	// store); used to iterate one model's chain in ascending order.
	chainIndexPrefix = []byte("chain:idx:")
)

func be64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func eventKey(index uint64) []byte {
	return append(append([]byte{}, eventPrefix...), be64(index)...)
}

func chainLastHashKey(modelID string) []byte {
	return append(append(append([]byte{}, chainLastHashPrefix...), modelID...), 0)
}

func chainLastTsKey(modelID string) []byte {
	return append(append(append([]byte{}, chainLastTsPrefix...), modelID...), 0)
}

func chainIndexKey(modelID string, index uint64) []byte {
	k := append(append(append([]byte{}, chainIndexPrefix...), modelID...), 0)
	return append(k, be64(index)...)
}

func chainIndexModelPrefix(modelID string) []byte {
	return append(append(append([]byte{}, chainIndexPrefix...), modelID...), 0)
}

// prefixRangeEnd returns the smallest key greater than every key sharing
// prefix, i.e. an exclusive upper bound suitable for KV.Iterator(prefix,
// end). Returns nil (no upper bound) if prefix is all 0xFF bytes.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
