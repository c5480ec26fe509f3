/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -package healthcheck_test -source=controller.go

package healthcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/labstack/echo/v4"
)

const checkTimeout = 10 * time.Second

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Checker reports the health of one dependency.
type Checker func(ctx context.Context) error

// Controller for health check API.
type Controller struct {
	handler http.Handler
}

// NewController registers GET /healthcheck. checkers are keyed by dependency name.
func NewController(router router, checkers map[string]Checker) *Controller {
	opts := []health.CheckerOption{
		health.WithTimeout(checkTimeout),
		health.WithDisabledCache(),
	}

	for name, check := range checkers {
		opts = append(opts, health.WithCheck(health.Check{
			Name:  name,
			Check: check,
		}))
	}

	c := &Controller{handler: health.NewHandler(health.NewChecker(opts...))}

	router.GET("/healthcheck", func(ctx echo.Context) error {
		return c.GetHealthcheck(ctx)
	})

	return c
}

// GetHealthcheck returns 200 with status "up" when every dependency answers, 503 with status "down" otherwise.
// GET /healthcheck.
func (c *Controller) GetHealthcheck(ctx echo.Context) error {
	c.handler.ServeHTTP(ctx.Response(), ctx.Request())

	return nil
}
