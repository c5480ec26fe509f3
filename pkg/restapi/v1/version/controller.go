/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -package version_test -source=controller.go

package version

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Config holds what the custodian reports about its build and its running configuration.
type Config struct {
	Version       string
	ServerVersion string
	// Components names the backends selected at startup, e.g. "database": "mongodb".
	Components map[string]string
}

// Response is the body of GET /version.
type Response struct {
	Version string `json:"version"`
}

// SystemResponse is the body of GET /version/system.
type SystemResponse struct {
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// Controller reports versions.
type Controller struct {
	cfg Config
}

// NewController registers GET /version and GET /version/system.
func NewController(router router, cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	router.GET("/version", c.Version)
	router.GET("/version/system", c.ServerVersion)

	return c
}

// Version returns the release version.
func (c *Controller) Version(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &Response{Version: c.cfg.Version})
}

// ServerVersion returns the server build and the selected backends.
func (c *Controller) ServerVersion(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &SystemResponse{Version: c.cfg.ServerVersion, Components: c.cfg.Components})
}
