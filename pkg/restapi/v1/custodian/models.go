/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package custodian

import (
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/record"
)

// EnvelopeParams carries a sealed envelope as query parameters on GET requests.
type EnvelopeParams struct {
	Ciphertext string `query:"ciphertext"`
	AAD        string `query:"aad"`
	Salt       string `query:"salt"`
	EphPub     string `query:"eph_pub"`
	DID        string `query:"did"`
	Signature  string `query:"signature"`
}

// Envelope returns nil when no envelope field is set.
func (p *EnvelopeParams) Envelope() *envelope.Envelope {
	if *p == (EnvelopeParams{}) {
		return nil
	}

	return &envelope.Envelope{
		Ciphertext: p.Ciphertext,
		AAD:        p.AAD,
		Salt:       p.Salt,
		EphPub:     p.EphPub,
		DID:        p.DID,
		Signature:  p.Signature,
	}
}

// ReadRecordResponse is the body of GET /batterypass/:did. Exactly one of BatteryPass (public reads)
// and Envelope (authenticated reads, sealed to the caller) is set.
type ReadRecordResponse struct {
	DID         string             `json:"did"`
	Scope       string             `json:"scope"`
	BatteryPass record.Record      `json:"batteryPass,omitempty"`
	Envelope    *envelope.Envelope `json:"envelope,omitempty"`
}

// WriteRecordResponse is the body of PUT and POST /batterypass/:did.
type WriteRecordResponse struct {
	DID     string `json:"did"`
	Role    string `json:"role"`
	Created bool   `json:"created"`
}

// DeleteRecordResponse is the body of DELETE /batterypass/:did.
type DeleteRecordResponse struct {
	OK bool `json:"ok"`
}
