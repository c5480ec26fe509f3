/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -self_package mocks -package custodian_test -source=api.go -mock_names registry=MockRegistry,envelopeChannel=MockEnvelopeChannel,roleResolver=MockRoleResolver

package custodian

import (
	"context"
	"crypto/ecdsa"

	"github.com/trustbloc/batterypass/pkg/disclosure"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/record"
	"github.com/trustbloc/batterypass/pkg/role"
)

type registry interface {
	Lookup(ctx context.Context, id string) (*did.Document, error)
	VerifyPresentation(ctx context.Context, vp *vc.Presentation) error
}

type envelopeChannel interface {
	Seal(sender envelope.Identity, recipient *ecdsa.PublicKey, plaintext []byte) (*envelope.Envelope, error)
	Open(ctx context.Context, recipient envelope.Identity, env *envelope.Envelope,
		resolver envelope.SenderKeyResolver) ([]byte, error)
}

type roleResolver interface {
	Determine(ctx context.Context, accessedDID, sender string) (role.Role, error)
}

// WriteResult describes an accepted write.
type WriteResult struct {
	Role    role.Role
	Created bool
}

// ReadResult is a record released at Scope. A public read carries Record in the clear; an
// authenticated read carries it in Envelope, sealed by the custodian to the requester.
type ReadResult struct {
	Scope    disclosure.Scope
	Record   record.Record
	Envelope *envelope.Envelope
}

// Identity is the public identity of the custodian, published so that senders can seal to it.
type Identity struct {
	DID                string `json:"did"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
	PublicKeyPEM       string `json:"publicKeyPem"`
}
