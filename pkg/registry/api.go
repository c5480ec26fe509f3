/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package registry is the client side of the ledger-backed identity registry. Identity documents are
// resolved and superseded through it, and credentials are anchored there by hash for revocation checks.
package registry

import (
	"context"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
)

// Registry is the identity registry.
type Registry interface {
	// Lookup returns the current document for id, revoked or not. NotFound when never registered.
	Lookup(ctx context.Context, id string) (*did.Document, error)
	// UpsertDocument registers a document or supersedes the current one. The proof must be made by
	// the controller.
	UpsertDocument(ctx context.Context, doc *did.Document) error
	// UploadCredential anchors a signed credential.
	UploadCredential(ctx context.Context, cred *vc.Credential) error
	// VerifyCredential checks that cred is anchored, untampered, unexpired and unrevoked.
	VerifyCredential(ctx context.Context, cred *vc.Credential) error
	// VerifyPresentation checks the holder proof and every embedded credential.
	VerifyPresentation(ctx context.Context, vp *vc.Presentation) error
}

// CredentialState is the ledger view of an anchored credential.
type CredentialState string

// Credential states.
const (
	CredentialValid    CredentialState = "valid"
	CredentialPending  CredentialState = "pending"
	CredentialExpired  CredentialState = "expired"
	CredentialTampered CredentialState = "tampered"
	CredentialRevoked  CredentialState = "revoked"
	CredentialNotFound CredentialState = "not found"
)
