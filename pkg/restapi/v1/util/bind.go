/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package util holds the request binding and response helpers shared by the v1 controllers.
package util

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// ReadBody binds the JSON request body into body. Bind failures are MalformedInput.
func ReadBody(ctx echo.Context, body interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(ctx, body); err != nil {
		return trusterr.New(trusterr.MalformedInput, "read request body", err)
	}

	return nil
}

// ReadQuery binds query parameters only, so a stray body on a GET is ignored.
func ReadQuery(ctx echo.Context, params interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, params); err != nil {
		return trusterr.New(trusterr.MalformedInput, "read query parameters", err)
	}

	return nil
}

// PathDID returns the unescaped identifier carried in the path parameter name.
func PathDID(ctx echo.Context, name string) (string, error) {
	raw := ctx.Param(name)
	if raw == "" {
		return "", trusterr.Newf(trusterr.MalformedInput, "read path", "missing %s", name)
	}

	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", trusterr.New(trusterr.MalformedInput, "read path", err)
	}

	return id, nil
}

// WriteOutput writes a 200 JSON response, or hands err to the error handler.
func WriteOutput(ctx echo.Context) func(output interface{}, err error) error {
	return WriteOutputWithCode(http.StatusOK, ctx)
}

// WriteOutputWithCode is WriteOutput with an explicit success status.
func WriteOutputWithCode(code int, ctx echo.Context) func(output interface{}, err error) error {
	return func(output interface{}, err error) error {
		if err != nil {
			return err
		}

		return ctx.JSON(code, output)
	}
}
