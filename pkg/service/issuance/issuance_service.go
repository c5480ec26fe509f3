/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination service_mocks_test.go -self_package mocks -package issuance_test -source=issuance_service.go -mock_names registry=MockRegistry,sealer=MockSealer

// Package issuance implements the actor side of the protocol: registering and revoking identities,
// issuing credentials and presentations, and sealing requests to a custodian.
package issuance

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// ChallengeSize is the length of the random payload sealed by a BMS to authenticate a read.
const ChallengeSize = 128

var logger = log.New("issuance-service")

type registry interface {
	Lookup(ctx context.Context, id string) (*did.Document, error)
	UpsertDocument(ctx context.Context, doc *did.Document) error
	UploadCredential(ctx context.Context, cred *vc.Credential) error
}

type sealer interface {
	Seal(sender envelope.Identity, recipient *ecdsa.PublicKey, plaintext []byte) (*envelope.Envelope, error)
}

// Config configures Service.
type Config struct {
	Registry registry
	Channel  sealer
	Random   io.Reader
}

// Service issues identities, credentials and presentations.
type Service struct {
	registry registry
	channel  sealer
	rand     io.Reader
}

// IdentityRequest asks for an identity to be registered under a controller.
type IdentityRequest struct {
	ID         string
	Controller envelope.Identity
	Options    []did.BuildOpt
}

// Identity is the outcome of IssueIdentity. Key is nil when the identity already existed.
type Identity struct {
	Document *did.Document
	Key      *kms.KeyManager
	Created  bool
}

// New creates Service.
func New(config *Config) *Service {
	r := config.Random
	if r == nil {
		r = rand.Reader
	}

	channel := config.Channel
	if channel == nil {
		channel = envelope.NewChannel()
	}

	return &Service{
		registry: config.Registry,
		channel:  channel,
		rand:     r,
	}
}

// IssueIdentity registers req.ID under req.Controller. An identity that is already registered is
// returned as is and nothing is written.
func (s *Service) IssueIdentity(ctx context.Context, req *IdentityRequest) (*Identity, error) {
	const op = "issue identity"

	if !did.IsActor(req.ID) {
		return nil, trusterr.Newf(trusterr.MalformedInput, op, "invalid identifier %q", req.ID)
	}

	existing, err := s.registry.Lookup(ctx, req.ID)
	if err == nil {
		logger.Debug("identity already registered", log.WithDID(req.ID))

		return &Identity{Document: existing}, nil
	}

	if !errors.Is(err, trusterr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key, err := kms.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := did.Build(req.ID, req.Controller.DID(), &key.PublicKey, req.Options...)
	if err != nil {
		return nil, err
	}

	if err = doc.Sign(req.Controller.PrivateKey()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.registry.UpsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("identity registered", log.WithDID(doc.ID), log.WithSender(doc.Controller))

	return &Identity{Document: doc, Key: kms.NewFromKey(doc.ID, key), Created: true}, nil
}

// RevokeIdentity supersedes doc with a revoked copy signed by its controller.
func (s *Service) RevokeIdentity(
	ctx context.Context,
	doc *did.Document,
	controllerKey *ecdsa.PrivateKey,
) (*did.Document, error) {
	const op = "revoke identity"

	revoked := doc.Clone()
	revoked.Revoked = true
	revoked.Proof = nil

	if err := revoked.Sign(controllerKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.registry.UpsertDocument(ctx, revoked); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("identity revoked", log.WithDID(doc.ID))

	return revoked, nil
}

// IssueCredential signs cred as its issuer and anchors it in the registry.
func (s *Service) IssueCredential(
	ctx context.Context,
	cred *vc.Credential,
	issuerKey *ecdsa.PrivateKey,
) (*vc.Credential, error) {
	const op = "issue credential"

	if err := cred.Validate(); err != nil {
		return nil, err
	}

	if err := cred.Sign(issuerKey); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.registry.UploadCredential(ctx, cred); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("credential issued", log.WithCredentialID(cred.ID), log.WithDID(cred.Holder))

	return cred, nil
}

// IssuePresentation wraps creds in a presentation signed by holder. Each proof carries a fresh challenge.
func (s *Service) IssuePresentation(
	_ context.Context,
	holder string,
	holderKey *ecdsa.PrivateKey,
	creds ...*vc.Credential,
) (*vc.Presentation, error) {
	vp, err := vc.NewPresentation(holder, creds...)
	if err != nil {
		return nil, err
	}

	if err = vp.Sign(holderKey, proof.WithChallenge(uuid.NewString())); err != nil {
		return nil, fmt.Errorf("issue presentation: %w", err)
	}

	return vp, nil
}

// SealPresentation seals vp from sender to the custodian key.
func (s *Service) SealPresentation(
	sender envelope.Identity,
	custodian *ecdsa.PublicKey,
	vp *vc.Presentation,
) (*envelope.Envelope, error) {
	raw, err := json.Marshal(vp)
	if err != nil {
		return nil, fmt.Errorf("seal presentation: %w", err)
	}

	return s.Seal(sender, custodian, raw)
}

// SealChallenge seals a random challenge from sender to the custodian key. A BMS uses it to
// authenticate reads of its own record.
func (s *Service) SealChallenge(sender envelope.Identity, custodian *ecdsa.PublicKey) (*envelope.Envelope, error) {
	challenge := make([]byte, ChallengeSize)

	if _, err := io.ReadFull(s.rand, challenge); err != nil {
		return nil, fmt.Errorf("seal challenge: %w", err)
	}

	return s.Seal(sender, custodian, challenge)
}

// Seal seals an arbitrary payload from sender to the custodian key.
func (s *Service) Seal(
	sender envelope.Identity,
	custodian *ecdsa.PublicKey,
	plaintext []byte,
) (*envelope.Envelope, error) {
	return s.channel.Seal(sender, custodian, plaintext)
}
