/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package memory is an in-process identity registry. It holds the same rules as the ledger: documents are
// accepted only with a valid proof by their controller, only the current controller may supersede a
// document, and credentials are anchored by hash.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("memory-registry")

type anchor struct {
	hash       string
	issuer     string
	validFrom  time.Time
	validUntil time.Time
	revoked    bool
}

// Registry is a thread-safe in-memory registry.
type Registry struct {
	mu          sync.RWMutex
	docs        map[string]*did.Document
	credentials map[string]*anchor
	now         func() time.Time
}

// Opt configures Registry.
type Opt func(r *Registry)

// WithClock overrides the time source used for credential validity.
func WithClock(now func() time.Time) Opt {
	return func(r *Registry) { r.now = now }
}

// New returns an empty registry.
func New(opts ...Opt) *Registry {
	r := &Registry{
		docs:        map[string]*did.Document{},
		credentials: map[string]*anchor{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Seed installs a self-controlled root document. Its proof must verify with its own key.
func (r *Registry) Seed(root *did.Document) error {
	const op = "seed registry"

	if !root.IsSelfControlled() {
		return trusterr.Newf(trusterr.MalformedInput, op, "%s is not self-controlled", root.ID)
	}

	if err := root.Validate(); err != nil {
		return err
	}

	key, err := root.PublicKey()
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	if err = proof.Verify(root, key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[root.ID] = root.Clone()

	return nil
}

// Lookup returns a copy of the current document.
func (r *Registry) Lookup(_ context.Context, id string) (*did.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, trusterr.Newf(trusterr.NotFound, "lookup", "%s is not registered", id)
	}

	return doc.Clone(), nil
}

// UpsertDocument registers doc or supersedes the current document with the same id. Re-submitting an
// identical document is a no-op.
func (r *Registry) UpsertDocument(_ context.Context, doc *did.Document) error {
	const op = "upsert document"

	if err := doc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.docs[doc.ID]

	if exists && current.Controller != doc.Controller {
		return trusterr.Newf(trusterr.InvalidSignature, op, "%s is controlled by %s", doc.ID, current.Controller)
	}

	if !exists && doc.IsSelfControlled() {
		return trusterr.Newf(trusterr.InvalidSender, op, "self-controlled %s cannot be registered", doc.ID)
	}

	controller, ok := r.docs[doc.Controller]
	if doc.IsSelfControlled() {
		controller, ok = current, exists
	}

	if !ok || controller.Revoked {
		return trusterr.Newf(trusterr.InvalidSender, op, "controller %s is not active", doc.Controller)
	}

	key, err := controller.PublicKey()
	if err != nil {
		return trusterr.New(trusterr.InvalidSender, op, err)
	}

	if err = proof.Verify(doc, key); err != nil {
		return err
	}

	if exists && current.Revoked && !doc.Revoked {
		return trusterr.Newf(trusterr.Conflict, op, "%s is revoked", doc.ID)
	}

	r.docs[doc.ID] = doc.Clone()

	logger.Debug("document registered", log.WithDID(doc.ID), log.WithSender(doc.Controller))

	return nil
}

// UploadCredential anchors cred. Uploading the same credential twice is a no-op; a different
// credential under an existing id is a Conflict.
func (r *Registry) UploadCredential(_ context.Context, cred *vc.Credential) error {
	const op = "upload credential"

	if err := cred.Validate(); err != nil {
		return err
	}

	hash, err := cred.Hash()
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	from, err := proof.ParseTime(cred.IssuanceDate)
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	until, err := proof.ParseTime(cred.ExpirationDate)
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err = r.verifyIssuer(cred); err != nil {
		return err
	}

	if existing, ok := r.credentials[cred.ID]; ok {
		if existing.hash == hash {
			return nil
		}

		return trusterr.Newf(trusterr.Conflict, op, "credential %s is already anchored", cred.ID)
	}

	r.credentials[cred.ID] = &anchor{hash: hash, issuer: cred.Issuer, validFrom: from, validUntil: until}

	logger.Debug("credential anchored", log.WithCredentialID(cred.ID), log.WithDID(cred.Issuer))

	return nil
}

// RevokeCredential marks an anchored credential revoked.
func (r *Registry) RevokeCredential(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.credentials[id]
	if !ok {
		return trusterr.Newf(trusterr.NotFound, "revoke credential", "credential %s is not anchored", id)
	}

	a.revoked = true

	return nil
}

// CredentialState reports the ledger view of cred.
func (r *Registry) CredentialState(cred *vc.Credential) registry.CredentialState {
	hash, err := cred.Hash()
	if err != nil {
		return registry.CredentialTampered
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.credentials[cred.ID]

	switch now := r.now(); {
	case !ok:
		return registry.CredentialNotFound
	case a.hash != hash:
		return registry.CredentialTampered
	case a.revoked:
		return registry.CredentialRevoked
	case now.Before(a.validFrom):
		return registry.CredentialPending
	case !now.Before(a.validUntil):
		return registry.CredentialExpired
	default:
		return registry.CredentialValid
	}
}

// VerifyCredential fails unless cred is anchored, valid now and its issuer is still active.
func (r *Registry) VerifyCredential(_ context.Context, cred *vc.Credential) error {
	const op = "verify credential"

	if err := cred.Validate(); err != nil {
		return err
	}

	if state := r.CredentialState(cred); state != registry.CredentialValid {
		return trusterr.Newf(trusterr.InvalidSignature, op, "credential %s is %s", cred.ID, state)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.verifyIssuer(cred)
}

// VerifyPresentation checks the holder proof against the registered holder key and every credential.
func (r *Registry) VerifyPresentation(ctx context.Context, vp *vc.Presentation) error {
	const op = "verify presentation"

	if err := vp.Validate(); err != nil {
		return err
	}

	holder, err := registry.ResolveActive(ctx, r, vp.Holder)
	if err != nil {
		return err
	}

	key, err := holder.PublicKey()
	if err != nil {
		return trusterr.New(trusterr.InvalidSender, op, err)
	}

	if err = proof.Verify(vp, key); err != nil {
		return err
	}

	for _, cred := range vp.VerifiableCredential {
		if err = r.VerifyCredential(ctx, cred); err != nil {
			return err
		}
	}

	return nil
}

// verifyIssuer must be called with the lock held.
func (r *Registry) verifyIssuer(cred *vc.Credential) error {
	issuer, ok := r.docs[cred.Issuer]
	if !ok || issuer.Revoked {
		return trusterr.Newf(trusterr.InvalidSender, "verify issuer", "issuer %s is not active", cred.Issuer)
	}

	key, err := issuer.PublicKey()
	if err != nil {
		return trusterr.New(trusterr.InvalidSender, "verify issuer", err)
	}

	return proof.Verify(cred, key)
}
