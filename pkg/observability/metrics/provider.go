/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/trustbloc/batterypass/internal/pkg/log"
)

// Logger used by different metrics provider.
var Logger = log.New("metrics-provider") //nolint:gochecknoglobals

// Constants used by different metrics provider.
const (
	// Namespace Organization namespace.
	Namespace = "batterypass"

	// Crypto plain crypto operations.
	Crypto                 = "crypto"
	CryptoSignTimeMetric   = "crypto_sign_seconds"
	EnvelopeSealTimeMetric = "envelope_seal_seconds"
	EnvelopeOpenTimeMetric = "envelope_open_seconds"

	// Custodian record operations.
	Custodian              = "custodian"
	RecordAccessMetric     = "record_access_total"
	RequestRejectedMetric  = "request_rejected_total"
	RegistryRequestsMetric = "registry_request_seconds"
)

// Metrics is an interface for the metrics to be supported by the provider.
type Metrics interface {
	SignTime(value time.Duration)
	SealTime(value time.Duration)
	OpenTime(value time.Duration)
	RecordAccess(scope string)
	RequestRejected(kind string)
	RegistryRequestTime(operation string, value time.Duration)
}
