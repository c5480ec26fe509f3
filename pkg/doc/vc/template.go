/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vc

import (
	"time"

	"github.com/google/uuid"

	"github.com/trustbloc/batterypass/pkg/doc/proof"
)

// Template describes a credential to be issued.
type Template struct {
	Type     string
	Issuer   string
	Holder   string
	IssuedAt time.Time
	Validity time.Duration
	Subject  Subject
}

// DefaultValidity is used when a template does not set one.
const DefaultValidity = 365 * 24 * time.Hour

// New builds an unsigned credential from a template and validates it.
func New(t *Template) (*Credential, error) {
	issued := t.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	validity := t.Validity
	if validity <= 0 {
		validity = DefaultValidity
	}

	subject := t.Subject
	subject.Type = t.Type

	c := &Credential{
		Context:           []string{ContextCredentials, contextByType[t.Type]},
		ID:                urnPrefix + uuid.NewString(),
		Type:              []string{TypeVerifiableCredential, t.Type},
		Issuer:            t.Issuer,
		Holder:            t.Holder,
		IssuanceDate:      proof.FormatTime(issued),
		ExpirationDate:    proof.FormatTime(issued.Add(validity)),
		CredentialSubject: subject,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// ServiceAccess returns a template granting holder the access levels on the record of bmsDID.
// The subject validity window equals the credential lifetime.
func ServiceAccess(
	issuer, holder, bmsDID string, accessLevel []string, from time.Time, validity time.Duration,
) *Template {
	if validity <= 0 {
		validity = DefaultValidity
	}

	return &Template{
		Type:     TypeServiceAccess,
		Issuer:   issuer,
		Holder:   holder,
		IssuedAt: from,
		Validity: validity,
		Subject: Subject{
			ID:          holder,
			BMSDID:      bmsDID,
			AccessLevel: accessLevel,
			ValidFrom:   proof.FormatTime(from),
			ValidUntil:  proof.FormatTime(from.Add(validity)),
		},
	}
}

// BMSProduction returns a template in which an OEM attests that it produced a BMS.
func BMSProduction(oem, bmsDID, lotNumber string, producedOn time.Time) *Template {
	return &Template{
		Type:   TypeBMSProduction,
		Issuer: oem,
		Holder: bmsDID,
		Subject: Subject{
			ID:         bmsDID,
			BMSDID:     bmsDID,
			LotNumber:  lotNumber,
			ProducedOn: proof.FormatTime(producedOn),
		},
	}
}

// CloudInstance returns a template in which a BMS names the custodian instance holding its record.
func CloudInstance(bmsDID, holder, cloudDID string, at time.Time) *Template {
	return &Template{
		Type:     TypeCloudInstance,
		Issuer:   bmsDID,
		Holder:   holder,
		IssuedAt: at,
		Subject: Subject{
			ID:        cloudDID,
			CloudDID:  cloudDID,
			Timestamp: proof.FormatTime(at),
		},
	}
}
