/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did models identity documents: one key per actor, attested by the controlling identity.
package did

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"

	"github.com/trustbloc/batterypass/pkg/doc/multikey"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// Document constants.
const (
	ContextCredentials     = "https://www.w3.org/2018/credentials/v1"
	ContextDID             = "http://localhost:8443/docs/did.schema.html"
	VerificationMethodType = "JsonWebKey2020"
	ServiceTypeBatteryPass = "BatteryPassAPI"
	ServiceTypeAPIEndpoint = "ApiEndpoint"
)

// VerificationMethod is the single public key of an identity.
type VerificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

// Service is an endpoint advertised by an identity.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is an identity document.
type Document struct {
	Context            []string           `json:"@context,omitempty"`
	ID                 string             `json:"id"`
	Controller         string             `json:"controller"`
	VerificationMethod VerificationMethod `json:"verificationMethod"`
	Service            []Service          `json:"service,omitempty"`
	Revoked            bool               `json:"revoked"`
	Timestamp          string             `json:"timestamp"`
	Proof              *proof.Proof       `json:"proof,omitempty"`
}

type buildOpts struct {
	timestamp time.Time
	services  []Service
}

// BuildOpt configures Build.
type BuildOpt func(o *buildOpts)

// WithTimestamp overrides the document timestamp.
func WithTimestamp(t time.Time) BuildOpt {
	return func(o *buildOpts) { o.timestamp = t }
}

// WithService adds a service endpoint. The id fragment is appended to the document id.
func WithService(fragment, serviceType, endpoint string) BuildOpt {
	return func(o *buildOpts) {
		o.services = append(o.services, Service{ID: fragment, Type: serviceType, ServiceEndpoint: endpoint})
	}
}

// Build returns an unsigned document for id, controlled by controller, carrying pub.
func Build(id, controller string, pub *ecdsa.PublicKey, opts ...BuildOpt) (*Document, error) {
	o := &buildOpts{timestamp: time.Now()}
	for _, opt := range opts {
		opt(o)
	}

	mb, err := multikey.Encode(pub)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, "build document", err)
	}

	doc := &Document{
		Context:    []string{ContextCredentials, ContextDID},
		ID:         id,
		Controller: controller,
		VerificationMethod: VerificationMethod{
			ID:                 proof.VerificationMethodID(id),
			Type:               VerificationMethodType,
			Controller:         controller,
			PublicKeyMultibase: mb,
		},
		Timestamp: proof.FormatTime(o.timestamp),
	}

	for _, s := range o.services {
		s.ID = id + "#" + strings.TrimPrefix(s.ID, "#")
		doc.Service = append(doc.Service, s)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Kind implements proof.Provable.
func (d *Document) Kind() proof.Kind {
	return proof.KindIdentityDocument
}

// GetProof implements proof.Provable.
func (d *Document) GetProof() *proof.Proof {
	return d.Proof
}

// SetProof implements proof.Provable.
func (d *Document) SetProof(p *proof.Proof) {
	d.Proof = p
}

// SigningInput implements proof.Provable.
func (d *Document) SigningInput() ([]byte, error) {
	c := *d
	c.Proof = d.Proof.Unsigned()

	return proof.Canonicalize(&c)
}

// IsSelfControlled reports whether the document is its own controller, as a root authority is.
func (d *Document) IsSelfControlled() bool {
	return d.ID == d.Controller
}

// PublicKey decodes the verification method key.
func (d *Document) PublicKey() (interface{}, error) {
	return multikey.Decode(d.VerificationMethod.PublicKeyMultibase)
}

// SigningKey returns the P-256 key of the identity, which envelopes and ES256 proofs require.
func (d *Document) SigningKey() (*ecdsa.PublicKey, error) {
	return multikey.DecodeP256(d.VerificationMethod.PublicKeyMultibase)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	cp := &Document{}

	// Document holds strings, slices and a proof pointer only, so the deep copy cannot fail.
	_ = copier.CopyWithOption(cp, d, copier.Option{DeepCopy: true})

	return cp
}

// Sign attaches a proof made with the controller's key.
func (d *Document) Sign(controllerKey *ecdsa.PrivateKey) error {
	return proof.Sign(d, controllerKey, proof.VerificationMethodID(d.Controller))
}

// Validate checks the structural invariants of the document. It does not verify the proof.
func (d *Document) Validate() error {
	if err := d.validate(); err != nil {
		return trusterr.New(trusterr.MalformedInput, "validate document", err)
	}

	return nil
}

func (d *Document) validate() error {
	switch {
	case IsActor(d.ID):
	case d.IsSelfControlled() && IsWellFormed(d.ID):
	default:
		return fmt.Errorf("invalid document id %q", d.ID)
	}

	if !IsWellFormed(d.Controller) {
		return fmt.Errorf("invalid controller %q", d.Controller)
	}

	vm := d.VerificationMethod

	if vm.ID != proof.VerificationMethodID(d.ID) {
		return fmt.Errorf("verification method id %q does not belong to %q", vm.ID, d.ID)
	}

	if vm.Controller != d.Controller {
		return errors.New("verification method controller does not match document controller")
	}

	if vm.Type == "" {
		return errors.New("verification method type is required")
	}

	if _, err := multikey.Decode(vm.PublicKeyMultibase); err != nil {
		return fmt.Errorf("verification method key: %w", err)
	}

	if _, err := proof.ParseTime(d.Timestamp); err != nil {
		return fmt.Errorf("invalid timestamp %q", d.Timestamp)
	}

	for _, s := range d.Service {
		if !strings.HasPrefix(s.ID, d.ID+"#") || s.Type == "" || s.ServiceEndpoint == "" {
			return fmt.Errorf("invalid service %q", s.ID)
		}
	}

	if d.Proof != nil && d.Proof.VerificationMethod != proof.VerificationMethodID(d.Controller) {
		return errors.New("proof must be made by the controller")
	}

	return nil
}
