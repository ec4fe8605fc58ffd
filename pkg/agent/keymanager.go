// Copyright 2025 Certen Protocol
//
// KeyManager handles Ed25519 key generation, loading, and storage for
// a lineage agent's signing identity.

package agent

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	certcrypto "github.com/certen/lineage-ledger/pkg/crypto"
)

// KeyManager owns an agent's Ed25519 keypair and its optional on-disk
// persistence.
type KeyManager struct {
	keyPath    string
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewKeyManager creates a key manager rooted at keyPath. An empty
// keyPath means keys are never persisted.
func NewKeyManager(keyPath string) *KeyManager {
	return &KeyManager{keyPath: keyPath}
}

// LoadOrGenerateKey loads an existing key from keyPath, or generates
// and (if keyPath is set) persists a fresh one.
func (km *KeyManager) LoadOrGenerateKey() error {
	if km.keyPath != "" {
		if _, err := os.Stat(km.keyPath); err == nil {
			return km.LoadKey()
		}
	}
	return km.GenerateNewKey()
}

// LoadKey loads a hex-encoded Ed25519 private key from keyPath.
func (km *KeyManager) LoadKey() error {
	if km.keyPath == "" {
		return fmt.Errorf("agent: no key path specified")
	}
	data, err := os.ReadFile(km.keyPath)
	if err != nil {
		return fmt.Errorf("agent: read key file: %w", err)
	}
	keyBytes, err := hex.DecodeString(string(data))
	if err != nil {
		return fmt.Errorf("agent: decode key hex: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return fmt.Errorf("agent: key file has %d bytes, want %d", len(keyBytes), ed25519.PrivateKeySize)
	}
	km.privateKey = ed25519.PrivateKey(keyBytes)
	km.publicKey = km.privateKey.Public().(ed25519.PublicKey)
	return nil
}

// GenerateNewKey generates a fresh keypair and, if keyPath is set,
// persists it.
func (km *KeyManager) GenerateNewKey() error {
	pub, priv, err := certcrypto.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("agent: generate key pair: %w", err)
	}
	km.publicKey = pub
	km.privateKey = priv
	if km.keyPath != "" {
		return km.SaveKey()
	}
	return nil
}

// SaveKey writes the hex-encoded private key to keyPath with
// restricted permissions.
func (km *KeyManager) SaveKey() error {
	if km.keyPath == "" {
		return fmt.Errorf("agent: no key path specified")
	}
	if km.privateKey == nil {
		return fmt.Errorf("agent: no private key to save")
	}
	if dir := filepath.Dir(km.keyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("agent: create key directory: %w", err)
		}
	}
	keyHex := hex.EncodeToString(km.privateKey)
	if err := os.WriteFile(km.keyPath, []byte(keyHex), 0o600); err != nil {
		return fmt.Errorf("agent: write key file: %w", err)
	}
	return nil
}

func (km *KeyManager) PrivateKey() ed25519.PrivateKey { return km.privateKey }
func (km *KeyManager) PublicKey() ed25519.PublicKey   { return km.publicKey }
