// Copyright 2025 Certen Protocol
//
// Crypto primitives for the lineage ledger: payload commitments, event
// hashes, and Ed25519 signing. All hash output is lowercase hex.

package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

const fieldDelimiter = '|'

// Commit returns the BLAKE2b-256 commitment of the raw payload bytes, as
// lowercase hex.
func Commit(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// EventHash returns the BLAKE2b-256 digest over the canonical event-hash
// preimage: model_id | index | prev_hash | payload | ts. Field order is
// frozen; a payload containing the delimiter byte is unambiguous because
// the preimage is built from field order, not by parsing.
func EventHash(modelID string, index uint64, prevHash string, payload []byte, ts uint64) string {
	msg := joinFields(
		[]byte(modelID),
		[]byte(strconv.FormatUint(index, 10)),
		[]byte(prevHash),
		payload,
		[]byte(strconv.FormatUint(ts, 10)),
	)
	sum := blake2b.Sum256(msg)
	return hex.EncodeToString(sum[:])
}

func joinFields(parts ...[]byte) []byte {
	return bytes.Join(parts, []byte{fieldDelimiter})
}

// GenerateKeyPair returns a fresh Ed25519 keypair drawn from a
// cryptographic RNG.
func GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// Sign returns a detached Ed25519 signature over message.
func Sign(sk ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(sk, message)
}

// Verify reports whether sig is a valid Ed25519 signature over message
// under pk. A malformed or mismatched signature is expected, everyday
// data, not a fault: Verify never panics or returns an error, only false.
func Verify(pk ed25519.PublicKey, message, sig []byte) bool {
	if len(pk) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pk, message, sig)
}

// Reverse returns a new slice containing b's bytes in reverse order.
// Used only by adversarial test agents to produce a structurally valid
// but incorrectly-signed event.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
