/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof defines the detached proof attached to identity documents, credentials and
// presentations, together with their canonical signing form.
package proof

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gibson042/canonicaljson-go"
)

// Proof and purpose identifiers.
const (
	TypeEcdsaSecp256r1Signature2019 = "EcdsaSecp256r1Signature2019"
	PurposeAuthentication           = "authentication"
	PurposeAssertionMethod          = "assertionMethod"

	// KeyFragment is the fragment of the single verification method each identity carries.
	KeyFragment = "key-1"
)

// TimeLayout is ISO-8601 UTC with second precision and a Z suffix.
const TimeLayout = "2006-01-02T15:04:05Z"

// Proof is a signature over the canonical form of its container with JWS cleared.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	Challenge          string `json:"challenge,omitempty"`
	JWS                string `json:"jws"`
}

// Unsigned returns a copy of p with JWS cleared, or nil when p is nil.
func (p *Proof) Unsigned() *Proof {
	if p == nil {
		return nil
	}

	c := *p
	c.JWS = ""

	return &c
}

// Kind discriminates the documents that can carry a proof.
type Kind int

// Provable kinds.
const (
	KindIdentityDocument Kind = iota + 1
	KindCredential
	KindPresentation
)

func (k Kind) String() string {
	switch k {
	case KindIdentityDocument:
		return "IdentityDocument"
	case KindCredential:
		return "VerifiableCredential"
	case KindPresentation:
		return "VerifiablePresentation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Provable is implemented by every signable document.
type Provable interface {
	Kind() Kind
	// SigningInput returns the canonical bytes of the document with proof.jws cleared.
	SigningInput() ([]byte, error)
	GetProof() *Proof
	SetProof(p *Proof)
}

// Canonicalize returns the whitespace-free, key-sorted JSON encoding of v.
func Canonicalize(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var generic interface{}

	if err = json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	out, err := canonicaljson.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	return out, nil
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// VerificationMethodID returns the identifier of the single key of an identity.
func VerificationMethodID(did string) string {
	return did + "#" + KeyFragment
}

// ControllerOf returns the identifier part of a verification method id.
func ControllerOf(verificationMethod string) (string, error) {
	did, fragment, found := strings.Cut(verificationMethod, "#")
	if !found || did == "" || fragment == "" {
		return "", fmt.Errorf("invalid verification method %q", verificationMethod)
	}

	return did, nil
}
