/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package restapiclient

import (
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/record"
)

type IdentityResponse struct {
	DID                string `json:"did"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
	PublicKeyPEM       string `json:"publicKeyPem"`
}

// ReadRecordResponse carries BatteryPass in the clear for public reads and Envelope, sealed to the
// requester, for authenticated reads.
type ReadRecordResponse struct {
	DID         string             `json:"did"`
	Scope       string             `json:"scope"`
	BatteryPass record.Record      `json:"batteryPass,omitempty"`
	Envelope    *envelope.Envelope `json:"envelope,omitempty"`
}

type WriteRecordResponse struct {
	DID     string `json:"did"`
	Role    string `json:"role"`
	Created bool   `json:"created"`
}

type DeleteRecordResponse struct {
	OK bool `json:"ok"`
}
