/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination aead_mocks_test.go -package envelope_test -source=aead.go -mock_names AEAD=MockAEAD

package envelope

import (
	"crypto/aes"
	"crypto/cipher"
)

// AEAD is the symmetric primitive used inside an envelope.
type AEAD interface {
	Seal(key, nonce, plaintext, additionalData []byte) ([]byte, error)
	Open(key, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

// AESGCM is AES-256-GCM with a 12 byte nonce.
type AESGCM struct{}

// Seal encrypts plaintext. The returned ciphertext carries the 16 byte tag.
func (AESGCM) Seal(key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return gcm.Seal(nil, nonce, plaintext, additionalData), nil
}

// Open authenticates and decrypts ciphertext.
func (AESGCM) Open(key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return gcm.Open(nil, nonce, ciphertext, additionalData)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
