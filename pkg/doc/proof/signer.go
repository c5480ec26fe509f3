/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"time"

	"github.com/trustbloc/batterypass/pkg/doc/jws"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

type signOpts struct {
	created   time.Time
	purpose   string
	challenge string
}

// SignOpt configures Sign.
type SignOpt func(o *signOpts)

// WithCreated sets the proof creation time. Defaults to now.
func WithCreated(t time.Time) SignOpt {
	return func(o *signOpts) { o.created = t }
}

// WithPurpose sets proofPurpose. Defaults to authentication.
func WithPurpose(purpose string) SignOpt {
	return func(o *signOpts) { o.purpose = purpose }
}

// WithChallenge binds the proof to a verifier supplied challenge.
func WithChallenge(challenge string) SignOpt {
	return func(o *signOpts) { o.challenge = challenge }
}

// Sign attaches a fresh proof to doc. The verification method, creation time and purpose are part
// of the signed payload; only jws is excluded.
func Sign(doc Provable, key *ecdsa.PrivateKey, verificationMethod string, opts ...SignOpt) error {
	const op = "sign"

	o := &signOpts{created: time.Now(), purpose: PurposeAuthentication}
	for _, opt := range opts {
		opt(o)
	}

	if _, err := ControllerOf(verificationMethod); err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	signer, err := jws.NewSigner(verificationMethod, key)
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	doc.SetProof(&Proof{
		Type:               TypeEcdsaSecp256r1Signature2019,
		Created:            FormatTime(o.created),
		VerificationMethod: verificationMethod,
		ProofPurpose:       o.purpose,
		Challenge:          o.challenge,
	})

	payload, err := doc.SigningInput()
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	token, err := signer.Sign(payload)
	if err != nil {
		return err
	}

	p := doc.GetProof()
	p.JWS = token

	return nil
}

// Verify checks the proof of doc against pub. Any structural problem fails closed as InvalidSignature.
func Verify(doc Provable, pub interface{}) error {
	const op = "verify proof"

	p := doc.GetProof()
	if p == nil || p.JWS == "" {
		return trusterr.New(trusterr.InvalidSignature, op, errors.New("missing proof"))
	}

	if p.Type != TypeEcdsaSecp256r1Signature2019 {
		return trusterr.Newf(trusterr.InvalidSignature, op, "unsupported proof type %q", p.Type)
	}

	expected, err := doc.SigningInput()
	if err != nil {
		return trusterr.New(trusterr.InvalidSignature, op, err)
	}

	payload, err := jws.Verify(p.JWS, pub)
	if err != nil {
		return trusterr.New(trusterr.InvalidSignature, op, err)
	}

	if !bytes.Equal(payload, expected) {
		return trusterr.New(trusterr.InvalidSignature, op, errors.New("signed payload does not match document"))
	}

	return nil
}
