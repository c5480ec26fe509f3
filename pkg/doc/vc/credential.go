/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vc models the verifiable credentials and presentations exchanged between battery passport actors.
package vc

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/sha3"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// Contexts and types.
const (
	ContextCredentials   = "https://www.w3.org/2018/credentials/v1"
	ContextServiceAccess = "http://localhost:8443/docs/vc.serviceAccess.schema.html"
	ContextBMSProduction = "http://localhost:8443/docs/vc.bmsProduction.schema.html"
	ContextCloudInstance = "http://localhost:8443/docs/vc.cloudInstance.schema.html"

	TypeVerifiableCredential = "VerifiableCredential"
	TypeServiceAccess        = "ServiceAccess"
	TypeBMSProduction        = "BMSProduction"
	TypeCloudInstance        = "CloudInstance"
)

// Access levels granted by a ServiceAccess credential.
const (
	AccessRead  = "read"
	AccessWrite = "write"
)

const urnPrefix = "urn:uuid:"

var contextByType = map[string]string{ //nolint:gochecknoglobals
	TypeServiceAccess: ContextServiceAccess,
	TypeBMSProduction: ContextBMSProduction,
	TypeCloudInstance: ContextCloudInstance,
}

// Subject is the credential subject. Fields not used by a credential type are omitted.
type Subject struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	BMSDID      string   `json:"bmsDid,omitempty"`
	AccessLevel []string `json:"accessLevel,omitempty"`
	ValidFrom   string   `json:"validFrom,omitempty"`
	ValidUntil  string   `json:"validUntil,omitempty"`
	LotNumber   string   `json:"lotNumber,omitempty"`
	ProducedOn  string   `json:"producedOn,omitempty"`
	CloudDID    string   `json:"cloudDid,omitempty"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

// Credential is a signed claim from an issuer about a holder.
type Credential struct {
	Context           []string     `json:"@context"`
	ID                string       `json:"id"`
	Type              []string     `json:"type"`
	Issuer            string       `json:"issuer"`
	Holder            string       `json:"holder"`
	IssuanceDate      string       `json:"issuanceDate"`
	ExpirationDate    string       `json:"expirationDate"`
	CredentialSubject Subject      `json:"credentialSubject"`
	Proof             *proof.Proof `json:"proof,omitempty"`
}

// Kind implements proof.Provable.
func (c *Credential) Kind() proof.Kind {
	return proof.KindCredential
}

// GetProof implements proof.Provable.
func (c *Credential) GetProof() *proof.Proof {
	return c.Proof
}

// SetProof implements proof.Provable.
func (c *Credential) SetProof(p *proof.Proof) {
	c.Proof = p
}

// SigningInput implements proof.Provable.
func (c *Credential) SigningInput() ([]byte, error) {
	cp := *c
	cp.Proof = c.Proof.Unsigned()

	return proof.Canonicalize(&cp)
}

// Sign attaches an assertion proof made with the issuer's key.
func (c *Credential) Sign(issuerKey *ecdsa.PrivateKey, opts ...proof.SignOpt) error {
	opts = append([]proof.SignOpt{proof.WithPurpose(proof.PurposeAssertionMethod)}, opts...)

	return proof.Sign(c, issuerKey, proof.VerificationMethodID(c.Issuer), opts...)
}

// CredentialType returns the specific type following VerifiableCredential.
func (c *Credential) CredentialType() string {
	for _, t := range c.Type {
		if t != TypeVerifiableCredential {
			return t
		}
	}

	return ""
}

// Hash returns the hex sha3-256 of the canonical credential including its proof. The registry keeps
// this value to detect tampering.
func (c *Credential) Hash() (string, error) {
	raw, err := proof.Canonicalize(c)
	if err != nil {
		return "", err
	}

	sum := sha3.Sum256(raw)

	return hex.EncodeToString(sum[:]), nil
}

// Grants reports whether c is a ServiceAccess credential granting level on the record of bmsDID.
func (c *Credential) Grants(level, bmsDID string) bool {
	return c.CredentialType() == TypeServiceAccess &&
		c.CredentialSubject.BMSDID == bmsDID &&
		lo.Contains(c.CredentialSubject.AccessLevel, level)
}

// Validate checks the structural invariants of the credential. It does not verify the proof.
func (c *Credential) Validate() error {
	if err := c.validate(); err != nil {
		return trusterr.New(trusterr.MalformedInput, "validate credential", err)
	}

	return nil
}

// CheckActive reports an error unless now lies inside every validity window of the credential.
func (c *Credential) CheckActive(now time.Time) error {
	const op = "check credential validity"

	issued, err := proof.ParseTime(c.IssuanceDate)
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	expires, err := proof.ParseTime(c.ExpirationDate)
	if err != nil {
		return trusterr.New(trusterr.MalformedInput, op, err)
	}

	if now.Before(issued) || !now.Before(expires) {
		return trusterr.Newf(trusterr.UnauthorizedRole, op, "credential %s is not active", c.ID)
	}

	s := c.CredentialSubject

	if s.ValidFrom != "" {
		from, err := proof.ParseTime(s.ValidFrom)
		if err != nil || now.Before(from) {
			return trusterr.Newf(trusterr.UnauthorizedRole, op, "credential %s is not yet valid", c.ID)
		}
	}

	if s.ValidUntil != "" {
		until, err := proof.ParseTime(s.ValidUntil)
		if err != nil || !now.Before(until) {
			return trusterr.Newf(trusterr.UnauthorizedRole, op, "credential %s is no longer valid", c.ID)
		}
	}

	return nil
}

func (c *Credential) validate() error { //nolint:gocyclo
	if !lo.Contains(c.Context, ContextCredentials) {
		return errors.New("missing credentials context")
	}

	if err := validateURN(c.ID); err != nil {
		return err
	}

	if len(c.Type) != 2 || c.Type[0] != TypeVerifiableCredential {
		return fmt.Errorf("invalid type %v", c.Type)
	}

	credType := c.CredentialType()
	if _, ok := contextByType[credType]; !ok {
		return fmt.Errorf("unsupported credential type %q", credType)
	}

	if !did.IsActor(c.Issuer) {
		return fmt.Errorf("invalid issuer %q", c.Issuer)
	}

	if !did.IsActor(c.Holder) {
		return fmt.Errorf("invalid holder %q", c.Holder)
	}

	issued, err := proof.ParseTime(c.IssuanceDate)
	if err != nil {
		return fmt.Errorf("invalid issuanceDate %q", c.IssuanceDate)
	}

	expires, err := proof.ParseTime(c.ExpirationDate)
	if err != nil {
		return fmt.Errorf("invalid expirationDate %q", c.ExpirationDate)
	}

	if !expires.After(issued) {
		return errors.New("expirationDate must be after issuanceDate")
	}

	if c.CredentialSubject.Type != credType {
		return fmt.Errorf("subject type %q does not match credential type %q", c.CredentialSubject.Type, credType)
	}

	if c.Proof != nil && c.Proof.VerificationMethod != proof.VerificationMethodID(c.Issuer) {
		return errors.New("proof must be made by the issuer")
	}

	return c.validateSubject()
}

func (c *Credential) validateSubject() error {
	s := c.CredentialSubject

	switch s.Type {
	case TypeServiceAccess:
		if s.ID != c.Holder {
			return errors.New("ServiceAccess subject must be the holder")
		}

		if !isRole(s.BMSDID, did.RoleBMS) {
			return fmt.Errorf("invalid bmsDid %q", s.BMSDID)
		}

		if len(s.AccessLevel) == 0 {
			return errors.New("accessLevel is required")
		}

		for _, level := range s.AccessLevel {
			if level != AccessRead && level != AccessWrite {
				return fmt.Errorf("invalid access level %q", level)
			}
		}

		return validateWindow(s.ValidFrom, s.ValidUntil)
	case TypeBMSProduction:
		if !isRole(s.BMSDID, did.RoleBMS) {
			return fmt.Errorf("invalid bmsDid %q", s.BMSDID)
		}

		if s.ProducedOn != "" {
			if _, err := proof.ParseTime(s.ProducedOn); err != nil {
				return fmt.Errorf("invalid producedOn %q", s.ProducedOn)
			}
		}
	case TypeCloudInstance:
		if !isRole(s.CloudDID, did.RoleCloud) {
			return fmt.Errorf("invalid cloudDid %q", s.CloudDID)
		}

		if _, err := proof.ParseTime(s.Timestamp); err != nil {
			return fmt.Errorf("invalid timestamp %q", s.Timestamp)
		}
	}

	return nil
}

func validateWindow(from, until string) error {
	if from == "" && until == "" {
		return nil
	}

	f, err := proof.ParseTime(from)
	if err != nil {
		return fmt.Errorf("invalid validFrom %q", from)
	}

	u, err := proof.ParseTime(until)
	if err != nil {
		return fmt.Errorf("invalid validUntil %q", until)
	}

	if !u.After(f) {
		return errors.New("validUntil must be after validFrom")
	}

	return nil
}

func validateURN(id string) error {
	if len(id) <= len(urnPrefix) || id[:len(urnPrefix)] != urnPrefix {
		return fmt.Errorf("invalid credential id %q", id)
	}

	u, err := uuid.Parse(id[len(urnPrefix):])
	if err != nil || u.Version() != 4 { //nolint:gomnd
		return fmt.Errorf("invalid credential id %q", id)
	}

	return nil
}

func isRole(s string, role did.Role) bool {
	id, err := did.Parse(s)

	return err == nil && id.Role == role
}
