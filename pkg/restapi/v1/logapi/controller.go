/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -package logapi_test -source=controller.go

// Package logapi lets operators inspect and change module log levels of a running custodian.
package logapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	levelsPath   = "/loglevels"
	maxSpecBytes = 4096
)

var logger = log.New("logapi")

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// LevelsResponse maps module names to their level. The "default" entry applies to every other module.
type LevelsResponse map[string]string

// Controller for the log level API.
type Controller struct{}

// NewController registers GET and POST /loglevels.
func NewController(router router) *Controller {
	c := &Controller{}

	router.GET(levelsPath, c.GetLogLevels)
	router.POST(levelsPath, c.PostLogLevels)

	return c
}

// GetLogLevels returns the levels currently in effect.
// GET /loglevels.
func (c *Controller) GetLogLevels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, LevelsResponse(log.Levels()))
}

// PostLogLevels applies a plain-text spec such as "envelope=DEBUG:custodian-service=WARN:INFO" and returns
// the resulting levels.
// POST /loglevels.
func (c *Controller) PostLogLevels(ctx echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxSpecBytes))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	spec := strings.TrimSpace(string(raw))
	if spec == "" {
		return trusterr.Newf(trusterr.MalformedInput, "set log levels", "empty level spec")
	}

	if err = log.SetSpec(spec); err != nil {
		return trusterr.New(trusterr.MalformedInput, "set log levels", err)
	}

	logger.Info("log levels modified", log.WithUserLogLevel(spec))

	return ctx.JSON(http.StatusOK, LevelsResponse(log.Levels()))
}
