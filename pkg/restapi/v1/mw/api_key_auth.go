/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	header = "X-API-Key"
)

// PublicPaths are served without an API key. Record and identity endpoints authenticate the caller
// through the signed envelope instead.
var PublicPaths = []string{ //nolint:gochecknoglobals
	"/healthcheck",
	"/version",
	"/ready",
	"/identity",
	"/batterypass/",
}

// APIKeyAuth returns a middleware that authenticates operator requests using the API key from
// X-API-Key header. Requests under PublicPaths pass through.
func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPublic(c.Request().URL.Path) {
				return next(c)
			}

			apiKeyHeader := c.Request().Header.Get(header)
			if subtle.ConstantTimeCompare([]byte(apiKeyHeader), []byte(apiKey)) != 1 {
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Unauthorized",
				}
			}

			return next(c)
		}
	}
}

func isPublic(path string) bool {
	path = strings.ToLower(path)

	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
