/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package kms owns the single P-256 key pair of an actor. A KeyManager is built once at startup and
// passed to the components that sign or open envelopes.
package kms

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
)

// Type selects where the key lives.
type Type string

const (
	// Local keeps the key in a PEM file.
	Local Type = "local"
	// Ephemeral generates a key in memory. For tests and development.
	Ephemeral Type = "ephemeral"
)

const keyFileMode = 0o600

// Config configures a KeyManager.
type Config struct {
	KMSType Type
	// DID is the identifier that owns the key.
	DID string
	// KeyPath is the PEM file used by Local.
	KeyPath string
	// CreateIfMissing generates and writes a key when KeyPath does not exist.
	CreateIfMissing bool
}

// KeyManager holds one identity and its key pair. It is immutable after construction.
type KeyManager struct {
	did string
	key *ecdsa.PrivateKey
}

// New returns a KeyManager for cfg.
func New(cfg *Config) (*KeyManager, error) {
	if !did.IsWellFormed(cfg.DID) {
		return nil, fmt.Errorf("kms: invalid did %q", cfg.DID)
	}

	switch cfg.KMSType {
	case Ephemeral:
		key, err := GenerateKey()
		if err != nil {
			return nil, err
		}

		return NewFromKey(cfg.DID, key), nil
	case Local, "":
		key, err := loadOrCreate(cfg.KeyPath, cfg.CreateIfMissing)
		if err != nil {
			return nil, err
		}

		return NewFromKey(cfg.DID, key), nil
	default:
		return nil, fmt.Errorf("kms: unsupported kms type %q", cfg.KMSType)
	}
}

// NewFromKey wraps an existing key.
func NewFromKey(id string, key *ecdsa.PrivateKey) *KeyManager {
	return &KeyManager{did: id, key: key}
}

// DID returns the owning identifier.
func (k *KeyManager) DID() string {
	return k.did
}

// VerificationMethodID returns the key reference used in proofs.
func (k *KeyManager) VerificationMethodID() string {
	return proof.VerificationMethodID(k.did)
}

// PrivateKey returns the signing key.
func (k *KeyManager) PrivateKey() *ecdsa.PrivateKey {
	return k.key
}

// PublicKey returns the public half of the key pair.
func (k *KeyManager) PublicKey() *ecdsa.PublicKey {
	return &k.key.PublicKey
}

// GenerateKey returns a fresh P-256 key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("kms: generate key: %w", err)
	}

	return key, nil
}

// LoadKey reads a PKCS#8 or SEC 1 PEM encoded P-256 private key.
func LoadKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("kms: read key: %w", err)
	}

	return ParseKey(raw)
}

// ParseKey parses a PEM encoded P-256 private key.
func ParseKey(raw []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("kms: no PEM block found")
	}

	var key *ecdsa.PrivateKey

	switch block.Type {
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("kms: parse pkcs8 key: %w", err)
		}

		ecKey, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("kms: unsupported key type %T", parsed)
		}

		key = ecKey
	case "EC PRIVATE KEY":
		ecKey, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("kms: parse ec key: %w", err)
		}

		key = ecKey
	default:
		return nil, fmt.Errorf("kms: unsupported PEM block %q", block.Type)
	}

	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("kms: unsupported curve %s", key.Curve.Params().Name)
	}

	return key, nil
}

// WriteKey stores key as a PKCS#8 PEM file readable only by the owner.
func WriteKey(path string, key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("kms: marshal key: %w", err)
	}

	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	if err = os.WriteFile(path, data, keyFileMode); err != nil {
		return fmt.Errorf("kms: write key: %w", err)
	}

	return nil
}

// EncodePublicKeyPEM returns the PKIX PEM form of pub.
func EncodePublicKeyPEM(pub *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("kms: marshal public key: %w", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

func loadOrCreate(path string, create bool) (*ecdsa.PrivateKey, error) {
	if path == "" {
		return nil, errors.New("kms: key path is required")
	}

	key, err := LoadKey(path)
	if err == nil || !create || !errors.Is(err, os.ErrNotExist) {
		return key, err
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, err
	}

	if err = WriteKey(path, key); err != nil {
		return nil, err
	}

	return key, nil
}
