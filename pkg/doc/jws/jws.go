/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jws produces and checks compact JWS tokens (header.payload.signature) used as proof values.
package jws

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v3"
)

// ErrVerification is returned when a token does not verify against the given key.
var ErrVerification = errors.New("jws verification failed")

// Signer signs payloads with a fixed key.
type Signer struct {
	keyID     string
	algorithm jose.SignatureAlgorithm
	signer    jose.Signer
}

// NewSigner returns an ES256 signer for a P-256 private key. keyID is informational and is not put
// into the protected header, so the header stays {"alg":"ES256"}.
func NewSigner(keyID string, key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil || key.Curve != elliptic.P256() {
		return nil, errors.New("ES256 requires a P-256 private key")
	}

	s, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.ES256, Key: key}, nil)
	if err != nil {
		return nil, fmt.Errorf("create jose signer: %w", err)
	}

	return &Signer{keyID: keyID, algorithm: jose.ES256, signer: s}, nil
}

// KeyID returns the key identifier the signer was created with.
func (s *Signer) KeyID() string {
	return s.keyID
}

// Algorithm returns the JWS algorithm name.
func (s *Signer) Algorithm() string {
	return string(s.algorithm)
}

// Sign returns the compact serialization of a JWS over payload.
func (s *Signer) Sign(payload []byte) (string, error) {
	obj, err := s.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}

	return obj.CompactSerialize()
}

// Verify checks a compact JWS against pub and returns the embedded payload. The algorithm in the
// protected header must match the key type: ES256 for P-256 and EdDSA for Ed25519.
func Verify(token string, pub interface{}) ([]byte, error) {
	obj, err := jose.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrVerification, err)
	}

	if len(obj.Signatures) != 1 {
		return nil, fmt.Errorf("%w: expected one signature, got %d", ErrVerification, len(obj.Signatures))
	}

	alg := jose.SignatureAlgorithm(obj.Signatures[0].Header.Algorithm)

	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		if alg != jose.ES256 || k.Curve != elliptic.P256() {
			return nil, fmt.Errorf("%w: algorithm %q not allowed for key", ErrVerification, alg)
		}
	case ed25519.PublicKey:
		if alg != jose.EdDSA {
			return nil, fmt.Errorf("%w: algorithm %q not allowed for key", ErrVerification, alg)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", ErrVerification, pub)
	}

	payload, err := obj.Verify(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	return payload, nil
}
