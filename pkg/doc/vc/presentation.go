/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// TypeVerifiablePresentation is the presentation type.
const TypeVerifiablePresentation = "VerifiablePresentation"

// Presentation wraps credentials for presentation by their holder.
type Presentation struct {
	Context              []string      `json:"@context"`
	Type                 []string      `json:"type"`
	Holder               string        `json:"holder"`
	VerifiableCredential []*Credential `json:"verifiableCredential"`
	Proof                *proof.Proof  `json:"proof,omitempty"`
}

// NewPresentation builds an unsigned presentation.
func NewPresentation(holder string, creds ...*Credential) (*Presentation, error) {
	p := &Presentation{
		Context:              []string{ContextCredentials},
		Type:                 []string{TypeVerifiablePresentation},
		Holder:               holder,
		VerifiableCredential: creds,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Kind implements proof.Provable.
func (p *Presentation) Kind() proof.Kind {
	return proof.KindPresentation
}

// GetProof implements proof.Provable.
func (p *Presentation) GetProof() *proof.Proof {
	return p.Proof
}

// SetProof implements proof.Provable.
func (p *Presentation) SetProof(pr *proof.Proof) {
	p.Proof = pr
}

// SigningInput implements proof.Provable.
func (p *Presentation) SigningInput() ([]byte, error) {
	cp := *p
	cp.Proof = p.Proof.Unsigned()

	return proof.Canonicalize(&cp)
}

// Sign attaches an authentication proof made with the holder's key.
func (p *Presentation) Sign(holderKey *ecdsa.PrivateKey, opts ...proof.SignOpt) error {
	return proof.Sign(p, holderKey, proof.VerificationMethodID(p.Holder), opts...)
}

// Validate checks that the holder, every embedded credential holder and the proof signer agree.
func (p *Presentation) Validate() error {
	if err := p.validate(); err != nil {
		return trusterr.New(trusterr.MalformedInput, "validate presentation", err)
	}

	return nil
}

func (p *Presentation) validate() error {
	if len(p.Type) == 0 || p.Type[0] != TypeVerifiablePresentation {
		return fmt.Errorf("invalid type %v", p.Type)
	}

	if !did.IsActor(p.Holder) {
		return fmt.Errorf("invalid holder %q", p.Holder)
	}

	if len(p.VerifiableCredential) == 0 {
		return errors.New("presentation carries no credential")
	}

	for _, c := range p.VerifiableCredential {
		if c == nil {
			return errors.New("nil credential")
		}

		if err := c.Validate(); err != nil {
			return err
		}

		if c.Holder != p.Holder {
			return fmt.Errorf("credential %s is held by %s, not %s", c.ID, c.Holder, p.Holder)
		}
	}

	if p.Proof != nil && p.Proof.VerificationMethod != proof.VerificationMethodID(p.Holder) {
		return errors.New("proof must be made by the holder")
	}

	return nil
}
