/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package envelope

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
)

const (
	nonceSize = 12
	saltSize  = 32
	tagSize   = 16
	keySize   = 32
)

// Envelope is a sealed, signed payload. Every binary field is standard base64.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	AAD        string `json:"aad"`
	Salt       string `json:"salt"`
	EphPub     string `json:"eph_pub"`
	DID        string `json:"did"`
	Signature  string `json:"signature,omitempty"`
}

// SigningInput returns the canonical encoding of the envelope without its signature.
func (e *Envelope) SigningInput() ([]byte, error) {
	c := *e
	c.Signature = ""

	return proof.Canonicalize(&c)
}

type decoded struct {
	ciphertext []byte
	nonce      []byte
	salt       []byte
	ephDER     []byte
	signature  []byte
}

// decode checks the shape of every field before any key is resolved or any crypto runs. The
// ephemeral key is parsed only after the signature verifies.
func decode(e *Envelope) (*decoded, error) {
	if e == nil {
		return nil, errors.New("missing envelope")
	}

	for _, f := range []struct{ name, value string }{
		{"ciphertext", e.Ciphertext},
		{"aad", e.AAD},
		{"salt", e.Salt},
		{"eph_pub", e.EphPub},
		{"did", e.DID},
		{"signature", e.Signature},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("missing field %s", f.name)
		}
	}

	if !did.IsWellFormed(e.DID) {
		return nil, fmt.Errorf("invalid sender %q", e.DID)
	}

	d := &decoded{}

	var err error

	for _, f := range []struct {
		name string
		in   string
		out  *[]byte
	}{
		{"ciphertext", e.Ciphertext, &d.ciphertext},
		{"aad", e.AAD, &d.nonce},
		{"salt", e.Salt, &d.salt},
		{"eph_pub", e.EphPub, &d.ephDER},
		{"signature", e.Signature, &d.signature},
	} {
		if *f.out, err = decodeCanonical(f.in); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	if len(d.nonce) != nonceSize {
		return nil, fmt.Errorf("aad must be %d bytes", nonceSize)
	}

	if len(d.salt) != saltSize {
		return nil, fmt.Errorf("salt must be %d bytes", saltSize)
	}

	if len(d.ciphertext) < tagSize {
		return nil, errors.New("ciphertext shorter than authentication tag")
	}

	return d, nil
}

// decodeCanonical accepts only the exact encoding Seal produces. The decoder skips CR and LF and
// tolerates non-zero padding bits, so the re-encoding must match the input byte for byte.
func decodeCanonical(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not base64: %w", err)
	}

	if base64.StdEncoding.EncodeToString(raw) != s {
		return nil, errors.New("non-canonical base64")
	}

	return raw, nil
}

func parseP256(der []byte) (*ecdh.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}

	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unexpected key type %T", key)
	}

	ek, err := pub.ECDH()
	if err != nil {
		return nil, err
	}

	if ek.Curve() != ecdh.P256() {
		return nil, errors.New("ephemeral key is not P-256")
	}

	return ek, nil
}
