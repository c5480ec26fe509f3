/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"time"

	"go.uber.org/zap"
)

// Log field names.
const (
	FieldUserLogLevel = "userLogLevel"
	FieldDID          = "did"
	FieldSender       = "sender"
	FieldRecordID     = "recordID"
	FieldScope        = "scope"
	FieldRole         = "role"
	FieldKind         = "kind"
	FieldCredentialID = "credentialID"
	FieldHostURL      = "hostURL"
	FieldHTTPStatus   = "httpStatus"
	FieldPath         = "path"
	FieldCommand      = "command"
	FieldDuration     = "duration"
	FieldAttempt      = "attempt"
	FieldProvider     = "provider"
)

// WithError sets the error field.
func WithError(err error) zap.Field {
	return zap.Error(err)
}

// WithUserLogLevel sets the user log level field.
func WithUserLogLevel(level string) zap.Field {
	return zap.String(FieldUserLogLevel, level)
}

// WithDID sets the did field.
func WithDID(did string) zap.Field {
	return zap.String(FieldDID, did)
}

// WithSender sets the claimed sender of an envelope.
func WithSender(did string) zap.Field {
	return zap.String(FieldSender, did)
}

// WithRecordID sets the record id field.
func WithRecordID(id string) zap.Field {
	return zap.String(FieldRecordID, id)
}

// WithScope sets the disclosure scope field.
func WithScope(scope string) zap.Field {
	return zap.String(FieldScope, scope)
}

// WithRole sets the resolved role field.
func WithRole(role string) zap.Field {
	return zap.String(FieldRole, role)
}

// WithKind sets the error kind field.
func WithKind(kind string) zap.Field {
	return zap.String(FieldKind, kind)
}

// WithCredentialID sets the credential id field.
func WithCredentialID(id string) zap.Field {
	return zap.String(FieldCredentialID, id)
}

// WithHostURL sets the hostURL field.
func WithHostURL(hostURL string) zap.Field {
	return zap.String(FieldHostURL, hostURL)
}

// WithHTTPStatus sets the http status field.
func WithHTTPStatus(status int) zap.Field {
	return zap.Int(FieldHTTPStatus, status)
}

// WithPath sets the path field.
func WithPath(path string) zap.Field {
	return zap.String(FieldPath, path)
}

// WithCommand sets the command field.
func WithCommand(command string) zap.Field {
	return zap.String(FieldCommand, command)
}

// WithDuration sets the duration field.
func WithDuration(d time.Duration) zap.Field {
	return zap.Duration(FieldDuration, d)
}

// WithAttempt sets the retry attempt field.
func WithAttempt(attempt int) zap.Field {
	return zap.Int(FieldAttempt, attempt)
}

// WithProvider sets the provider field.
func WithProvider(provider string) zap.Field {
	return zap.String(FieldProvider, provider)
}
