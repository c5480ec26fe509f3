/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package multikey encodes public keys as multibase strings for the publicKeyMultibase field of a
// verification method.
package multikey

import (
	"bytes"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
)

var (
	p256Prefix       = []byte{0x12, 0x00}
	p256VarintPrefix = []byte{0x80, 0x24}
	ed25519Prefix    = []byte{0xed}
)

const p256PointLen = 65

// ErrUnsupportedKey is returned for key types other than P-256 and Ed25519.
var ErrUnsupportedKey = errors.New("unsupported public key type")

// Encode returns the base58btc multibase form ('z' prefix) of a P-256 or Ed25519 public key.
func Encode(pub interface{}) (string, error) {
	var raw []byte

	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		ek, err := k.ECDH()
		if err != nil {
			return "", fmt.Errorf("convert ecdsa key: %w", err)
		}

		if ek.Curve() != ecdh.P256() {
			return "", fmt.Errorf("%w: curve %s", ErrUnsupportedKey, k.Curve.Params().Name)
		}

		raw = append(append([]byte{}, p256Prefix...), ek.Bytes()...)
	case ed25519.PublicKey:
		raw = append(append([]byte{}, ed25519Prefix...), k...)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}

	return multibase.Encode(multibase.Base58BTC, raw)
}

// Decode parses a multibase public key. It returns *ecdsa.PublicKey for P-256 keys and
// ed25519.PublicKey for Ed25519 keys.
func Decode(s string) (interface{}, error) {
	enc, raw, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode multibase: %w", err)
	}

	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("unexpected multibase encoding %q", string(rune(enc)))
	}

	switch {
	case bytes.HasPrefix(raw, p256Prefix):
		return decodeP256(raw[len(p256Prefix):])
	case bytes.HasPrefix(raw, p256VarintPrefix):
		return decodeP256(raw[len(p256VarintPrefix):])
	case bytes.HasPrefix(raw, ed25519Prefix) && len(raw) == len(ed25519Prefix)+ed25519.PublicKeySize:
		return ed25519.PublicKey(raw[len(ed25519Prefix):]), nil
	default:
		return nil, fmt.Errorf("%w: unknown multicodec prefix", ErrUnsupportedKey)
	}
}

// DecodeP256 is Decode restricted to P-256 keys.
func DecodeP256(s string) (*ecdsa.PublicKey, error) {
	key, err := Decode(s)
	if err != nil {
		return nil, err
	}

	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected P-256 key, got %T", ErrUnsupportedKey, key)
	}

	return pub, nil
}

func decodeP256(point []byte) (*ecdsa.PublicKey, error) {
	if len(point) != p256PointLen {
		return nil, fmt.Errorf("invalid P-256 point length %d", len(point))
	}

	ek, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, fmt.Errorf("invalid P-256 point: %w", err)
	}

	der, err := x509.MarshalPKIXPublicKey(ek)
	if err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}

	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
	}

	return pub, nil
}
