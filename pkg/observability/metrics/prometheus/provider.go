/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/observability/metrics"
)

var logger = metrics.Logger

var (
	createOnce sync.Once       //nolint:gochecknoglobals
	instance   metrics.Metrics //nolint:gochecknoglobals
)

// GetMetrics returns the metrics registered with the default prometheus registry.
func GetMetrics() metrics.Metrics {
	createOnce.Do(func() {
		instance = NewMetrics(prometheus.DefaultRegisterer)
	})

	return instance
}

// PromMetrics manages the metrics of the trust layer.
type PromMetrics struct {
	signTime     prometheus.Histogram
	sealTime     prometheus.Histogram
	openTime     prometheus.Histogram
	recordAccess *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	registryTime *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *PromMetrics {
	pm := &PromMetrics{
		signTime: newHistogram(metrics.Crypto, metrics.CryptoSignTimeMetric,
			"The time (in seconds) it takes to sign a document, credential or presentation."),
		sealTime: newHistogram(metrics.Crypto, metrics.EnvelopeSealTimeMetric,
			"The time (in seconds) it takes to seal an envelope."),
		openTime: newHistogram(metrics.Crypto, metrics.EnvelopeOpenTimeMetric,
			"The time (in seconds) it takes to authenticate and open an envelope."),
		recordAccess: newCounterVec(metrics.Custodian, metrics.RecordAccessMetric,
			"The number of record reads served, by disclosure scope.", "scope"),
		rejected: newCounterVec(metrics.Custodian, metrics.RequestRejectedMetric,
			"The number of rejected requests, by error kind.", "kind"),
		registryTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.Custodian,
			Name:      metrics.RegistryRequestsMetric,
			Help:      "The time (in seconds) registry calls take, including retries.",
		}, []string{"operation"}),
	}

	reg.MustRegister(pm.signTime, pm.sealTime, pm.openTime, pm.recordAccess, pm.rejected, pm.registryTime)

	return pm
}

// SignTime records the time for sign.
func (pm *PromMetrics) SignTime(value time.Duration) {
	pm.signTime.Observe(value.Seconds())

	logger.Debug("crypto sign time", log.WithDuration(value))
}

// SealTime records the time to seal an envelope.
func (pm *PromMetrics) SealTime(value time.Duration) {
	pm.sealTime.Observe(value.Seconds())

	logger.Debug("envelope seal time", log.WithDuration(value))
}

// OpenTime records the time to open an envelope.
func (pm *PromMetrics) OpenTime(value time.Duration) {
	pm.openTime.Observe(value.Seconds())

	logger.Debug("envelope open time", log.WithDuration(value))
}

// RecordAccess counts a served read.
func (pm *PromMetrics) RecordAccess(scope string) {
	pm.recordAccess.WithLabelValues(scope).Inc()
}

// RequestRejected counts a rejected request.
func (pm *PromMetrics) RequestRejected(kind string) {
	pm.rejected.WithLabelValues(kind).Inc()
}

// RegistryRequestTime records the duration of a registry call.
func (pm *PromMetrics) RegistryRequestTime(operation string, value time.Duration) {
	pm.registryTime.WithLabelValues(operation).Observe(value.Seconds())
}

func newHistogram(subsystem, name, help string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

func newCounterVec(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}
