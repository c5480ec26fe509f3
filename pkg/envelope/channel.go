/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package envelope implements the hybrid encryption channel: ephemeral P-256 ECDH, HKDF-SHA256 and
// AES-256-GCM, with the envelope signed by the sender's identity key.
package envelope

import (
	"context"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/observability/metrics"
	"github.com/trustbloc/batterypass/pkg/observability/metrics/noop"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("envelope")

// Identity is an actor able to sign envelopes and open envelopes addressed to it.
type Identity interface {
	DID() string
	PrivateKey() *ecdsa.PrivateKey
}

// SenderKeyResolver resolves the signing key of a claimed sender. Implementations return
// InvalidSender for unknown or revoked identifiers and Unavailable for transient failures.
type SenderKeyResolver interface {
	ResolveSenderKey(ctx context.Context, did string) (*ecdsa.PublicKey, error)
}

// Channel seals and opens envelopes.
type Channel struct {
	aead    AEAD
	rand    io.Reader
	metrics metrics.Metrics
}

// Opt configures a Channel.
type Opt func(c *Channel)

// WithAEAD replaces the symmetric primitive.
func WithAEAD(aead AEAD) Opt {
	return func(c *Channel) { c.aead = aead }
}

// WithRandom replaces the randomness source.
func WithRandom(r io.Reader) Opt {
	return func(c *Channel) { c.rand = r }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.Metrics) Opt {
	return func(c *Channel) { c.metrics = m }
}

// NewChannel returns a channel using AES-256-GCM and crypto/rand.
func NewChannel(opts ...Opt) *Channel {
	c := &Channel{
		aead:    AESGCM{},
		rand:    rand.Reader,
		metrics: noop.GetMetrics(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Seal encrypts plaintext for recipient and signs the result as sender.
func (c *Channel) Seal(sender Identity, recipient *ecdsa.PublicKey, plaintext []byte) (*Envelope, error) {
	const op = "seal"

	start := time.Now()
	defer func() { c.metrics.SealTime(time.Since(start)) }()

	recipientECDH, err := recipient.ECDH()
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, err)
	}

	eph, err := ecdh.P256().GenerateKey(c.rand)
	if err != nil {
		return nil, fmt.Errorf("%s: generate ephemeral key: %w", op, err)
	}

	shared, err := eph.ECDH(recipientECDH)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, err)
	}

	nonce := make([]byte, nonceSize)
	salt := make([]byte, saltSize)

	for _, b := range [][]byte{nonce, salt} {
		if _, err = io.ReadFull(c.rand, b); err != nil {
			return nil, fmt.Errorf("%s: read random: %w", op, err)
		}
	}

	ephDER, err := x509.MarshalPKIXPublicKey(eph.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("%s: encode ephemeral key: %w", op, err)
	}

	key, err := deriveKey(shared, salt, ephDER, recipient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ciphertext, err := c.aead.Seal(key, nonce, plaintext, nonce)
	if err != nil {
		return nil, fmt.Errorf("%s: encrypt: %w", op, err)
	}

	env := &Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		AAD:        base64.StdEncoding.EncodeToString(nonce),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		EphPub:     base64.StdEncoding.EncodeToString(ephDER),
		DID:        sender.DID(),
	}

	digest, err := signingDigest(env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sig, err := ecdsa.SignASN1(c.rand, sender.PrivateKey(), digest)
	if err != nil {
		return nil, fmt.Errorf("%s: sign envelope: %w", op, err)
	}

	env.Signature = base64.StdEncoding.EncodeToString(sig)

	return env, nil
}

// Open authenticates env and returns its plaintext. The sender is resolved and the envelope signature
// verified before any decryption is attempted.
func (c *Channel) Open(
	ctx context.Context,
	recipient Identity,
	env *Envelope,
	resolver SenderKeyResolver,
) ([]byte, error) {
	const op = "open"

	start := time.Now()
	defer func() { c.metrics.OpenTime(time.Since(start)) }()

	d, err := decode(env)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, err)
	}

	senderKey, err := resolver.ResolveSenderKey(ctx, env.DID)
	if err != nil {
		logger.Debug("sender resolution failed", log.WithSender(env.DID), log.WithError(err))

		if trusterr.KindOf(err) == trusterr.Unavailable {
			return nil, err
		}

		return nil, trusterr.New(trusterr.InvalidSender, op, err)
	}

	digest, err := signingDigest(env)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, err)
	}

	if !ecdsa.VerifyASN1(senderKey, digest, d.signature) {
		return nil, trusterr.New(trusterr.InvalidSignature, op, errors.New("envelope signature does not verify"))
	}

	eph, err := parseP256(d.ephDER)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, op, fmt.Errorf("eph_pub: %w", err))
	}

	priv, err := recipient.PrivateKey().ECDH()
	if err != nil {
		return nil, trusterr.New(trusterr.DecryptionFailure, op, err)
	}

	shared, err := priv.ECDH(eph)
	if err != nil {
		return nil, trusterr.New(trusterr.DecryptionFailure, op, err)
	}

	key, err := deriveKey(shared, d.salt, d.ephDER, &recipient.PrivateKey().PublicKey)
	if err != nil {
		return nil, trusterr.New(trusterr.DecryptionFailure, op, err)
	}

	plaintext, err := c.aead.Open(key, d.nonce, d.ciphertext, d.nonce)
	if err != nil {
		return nil, trusterr.New(trusterr.DecryptionFailure, op, err)
	}

	return plaintext, nil
}

// deriveKey runs HKDF-SHA256 over the shared secret with info = eph_pub DER || recipient DER.
func deriveKey(shared, salt, ephDER []byte, recipient *ecdsa.PublicKey) ([]byte, error) {
	recipientDER, err := x509.MarshalPKIXPublicKey(recipient)
	if err != nil {
		return nil, fmt.Errorf("encode recipient key: %w", err)
	}

	info := make([]byte, 0, len(ephDER)+len(recipientDER))
	info = append(append(info, ephDER...), recipientDER...)

	key := make([]byte, keySize)

	if _, err = io.ReadFull(hkdf.New(sha256.New, shared, salt, info), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	return key, nil
}

func signingDigest(env *Envelope) ([]byte, error) {
	raw, err := env.SigningInput()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(raw)

	return sum[:], nil
}
