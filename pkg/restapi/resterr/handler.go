/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("rest-err")

// HTTPErrorHandler is installed as echo's error handler.
func HTTPErrorHandler(err error, c echo.Context) {
	code, message := processError(err)

	if code >= http.StatusInternalServerError {
		logger.Error("request failed", log.WithPath(c.Request().RequestURI), log.WithHTTPStatus(code),
			log.WithError(err))
	} else {
		logger.Debug("request rejected", log.WithPath(c.Request().RequestURI), log.WithHTTPStatus(code),
			log.WithKind(string(trusterr.KindOf(err))), log.WithError(err))
	}

	sendResponse(c, code, message)
}

func sendResponse(c echo.Context, code int, message interface{}) {
	var err error

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}

		if err != nil {
			logger.Error("write http response", log.WithError(err))
		}
	}
}

func processError(err error) (int, interface{}) {
	var he *echo.HTTPError

	if trusterr.KindOf(err) == trusterr.Unknown && errors.As(err, &he) {
		message := he.Message

		if strMsg, ok := message.(string); ok {
			message = map[string]interface{}{
				"message": strMsg,
			}
		}

		return he.Code, message
	}

	return HTTPCodeMsg(err)
}
