/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

type note struct {
	ID    string       `json:"id"`
	Body  string       `json:"body"`
	Tags  []string     `json:"tags,omitempty"`
	Prf   *proof.Proof `json:"proof,omitempty"`
	Extra int          `json:"extra"`
}

func (n *note) Kind() proof.Kind { return proof.KindCredential }

func (n *note) GetProof() *proof.Proof { return n.Prf }

func (n *note) SetProof(p *proof.Proof) { n.Prf = p }

func (n *note) SigningInput() ([]byte, error) {
	c := *n
	c.Prf = n.Prf.Unsigned()

	return proof.Canonicalize(&c)
}

func TestCanonicalize(t *testing.T) {
	out, err := proof.Canonicalize(map[string]interface{}{
		"b": 1,
		"a": map[string]interface{}{"z": true, "c": "x"},
	})
	require.NoError(t, err)
	require.Equal(t, `{"a":{"c":"x","z":true},"b":1}`, string(out))

	out, err = proof.Canonicalize(&note{ID: "1", Body: "hi"})
	require.NoError(t, err)
	require.Equal(t, `{"body":"hi","extra":0,"id":"1"}`, string(out))

	_, err = proof.Canonicalize(make(chan int))
	require.Error(t, err)
}

func TestSignVerify(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	vm := proof.VerificationMethodID("did:batterypass:oem.acme")

	t.Run("success", func(t *testing.T) {
		n := &note{ID: "n1", Body: "hello", Tags: []string{"a"}}

		created := time.Date(2024, 5, 1, 10, 11, 12, 999, time.UTC)
		require.NoError(t, proof.Sign(n, key, vm, proof.WithCreated(created), proof.WithChallenge("abc")))

		require.Equal(t, proof.TypeEcdsaSecp256r1Signature2019, n.Prf.Type)
		require.Equal(t, "2024-05-01T10:11:12Z", n.Prf.Created)
		require.Equal(t, vm, n.Prf.VerificationMethod)
		require.Equal(t, proof.PurposeAuthentication, n.Prf.ProofPurpose)
		require.Equal(t, "abc", n.Prf.Challenge)
		require.NotEmpty(t, n.Prf.JWS)

		require.NoError(t, proof.Verify(n, &key.PublicKey))
	})

	t.Run("tampered field", func(t *testing.T) {
		n := &note{ID: "n1", Body: "hello"}
		require.NoError(t, proof.Sign(n, key, vm))

		n.Body = "goodbye"

		require.ErrorIs(t, proof.Verify(n, &key.PublicKey), trusterr.ErrInvalidSignature)
	})

	t.Run("proof metadata is signed", func(t *testing.T) {
		n := &note{ID: "n1", Body: "hello"}
		require.NoError(t, proof.Sign(n, key, vm, proof.WithPurpose(proof.PurposeAssertionMethod)))

		n.Prf.VerificationMethod = proof.VerificationMethodID("did:batterypass:oem.other")
		require.ErrorIs(t, proof.Verify(n, &key.PublicKey), trusterr.ErrInvalidSignature)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		n := &note{ID: "n1"}
		require.NoError(t, proof.Sign(n, key, vm))

		require.ErrorIs(t, proof.Verify(n, &other.PublicKey), trusterr.ErrInvalidSignature)
	})

	t.Run("missing or foreign proof", func(t *testing.T) {
		require.ErrorIs(t, proof.Verify(&note{ID: "n1"}, &key.PublicKey), trusterr.ErrInvalidSignature)

		n := &note{ID: "n1"}
		require.NoError(t, proof.Sign(n, key, vm))
		n.Prf.Type = "Ed25519Signature2020"
		require.ErrorIs(t, proof.Verify(n, &key.PublicKey), trusterr.ErrInvalidSignature)
	})

	t.Run("invalid verification method", func(t *testing.T) {
		err := proof.Sign(&note{}, key, "did:batterypass:oem.acme")
		require.ErrorIs(t, err, trusterr.ErrMalformedInput)
	})
}

func TestHelpers(t *testing.T) {
	did, err := proof.ControllerOf("did:batterypass:bms.x1#key-1")
	require.NoError(t, err)
	require.Equal(t, "did:batterypass:bms.x1", did)

	_, err = proof.ControllerOf("did:batterypass:bms.x1")
	require.Error(t, err)

	ts, err := proof.ParseTime("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	require.Equal(t, "2024-01-02T03:04:05Z", proof.FormatTime(ts))

	require.Nil(t, (*proof.Proof)(nil).Unsigned())
	require.Equal(t, "VerifiablePresentation", proof.KindPresentation.String())
	require.Equal(t, "Kind(9)", proof.Kind(9).String())
}
