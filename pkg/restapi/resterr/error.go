/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resterr maps trust layer failures to the fixed set of HTTP responses the custodian exposes.
// Response bodies never carry the underlying error.
package resterr

import (
	"net/http"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// ErrorCode is the machine readable class of a response.
type ErrorCode string

// Error codes.
const (
	InvalidRequest ErrorCode = "invalid-request"
	AccessDenied   ErrorCode = "access-denied"
	DoesntExist    ErrorCode = "doesnt-exist"
	AlreadyExist   ErrorCode = "already-exist"
	Unavailable    ErrorCode = "unavailable"
	SystemError    ErrorCode = "system-error"
)

func (c ErrorCode) Name() string {
	return string(c)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type class struct {
	status  int
	code    ErrorCode
	message string
}

var (
	invalidRequest = class{http.StatusBadRequest, InvalidRequest, "Invalid request."}
	accessDenied   = class{http.StatusForbidden, AccessDenied, "Access denied."}
	doesntExist    = class{http.StatusNotFound, DoesntExist, "Entry doesn't exist."}
	alreadyExist   = class{http.StatusConflict, AlreadyExist, "Entry already exists."}
	unavailable    = class{http.StatusServiceUnavailable, Unavailable, "Service temporarily unavailable."}
	systemError    = class{http.StatusInternalServerError, SystemError, "Internal server error."}
)

var classByKind = map[trusterr.Kind]class{ //nolint:gochecknoglobals
	trusterr.MalformedInput:    invalidRequest,
	trusterr.InvalidSignature:  accessDenied,
	trusterr.InvalidSender:     accessDenied,
	trusterr.DecryptionFailure: accessDenied,
	trusterr.UnauthorizedRole:  accessDenied,
	trusterr.Replayed:          accessDenied,
	trusterr.NotFound:          doesntExist,
	trusterr.Conflict:          alreadyExist,
	trusterr.Unavailable:       unavailable,
}

// HTTPCodeMsg returns the status and body for err.
func HTTPCodeMsg(err error) (int, *ErrorResponse) {
	c, ok := classByKind[trusterr.KindOf(err)]
	if !ok {
		c = systemError
	}

	return c.status, &ErrorResponse{Code: c.code, Message: c.message}
}
