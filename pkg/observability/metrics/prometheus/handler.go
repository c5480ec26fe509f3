/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler implements a Prometheus /metrics endpoint.
type Handler struct {
	gatherer prometheus.Gatherer
}

// NewHandler returns a /metrics endpoint serving the given gatherer.
func NewHandler(gatherer prometheus.Gatherer) *Handler {
	return &Handler{gatherer: gatherer}
}

// Path returns the base path of the target URL for this Handler.
func (h *Handler) Path() string {
	return "/metrics"
}

// Method returns the HTTP method, which is always GET.
func (h *Handler) Method() string {
	return http.MethodGet
}

// Handler returns the echo handler to register for Path.
func (h *Handler) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{
		// Opt into OpenMetrics to support exemplars.
		EnableOpenMetrics: true,
	}))
}
