/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package noop

import (
	"time"

	"github.com/trustbloc/batterypass/pkg/observability/metrics"
)

// NoMetrics provides default no operation implementation for the Metrics interface.
type NoMetrics struct{}

// GetMetrics returns metrics implementation.
func GetMetrics() metrics.Metrics {
	return &NoMetrics{}
}

func (n *NoMetrics) SignTime(_ time.Duration)                      {}
func (n *NoMetrics) SealTime(_ time.Duration)                      {}
func (n *NoMetrics) OpenTime(_ time.Duration)                      {}
func (n *NoMetrics) RecordAccess(_ string)                         {}
func (n *NoMetrics) RequestRejected(_ string)                      {}
func (n *NoMetrics) RegistryRequestTime(_ string, _ time.Duration) {}
