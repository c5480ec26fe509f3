/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package trusterr classifies failures of the trust layer so that the boundary can map them to a
// fixed set of response classes without leaking detail.
package trusterr

import (
	"errors"
	"fmt"
)

// Kind is the class of a trust layer failure.
type Kind string

const (
	// Unknown is returned by KindOf for errors that carry no classification.
	Unknown Kind = ""
	// MalformedInput means the input did not parse or violated a structural invariant.
	MalformedInput Kind = "malformed-input"
	// InvalidSignature means a document, credential, presentation or envelope signature did not verify.
	InvalidSignature Kind = "invalid-signature"
	// InvalidSender means the claimed sender is unknown to the registry or revoked.
	InvalidSender Kind = "invalid-sender"
	// DecryptionFailure means the authenticated ciphertext could not be opened.
	DecryptionFailure Kind = "decryption-failure"
	// UnauthorizedRole means the caller's role does not permit the operation.
	UnauthorizedRole Kind = "unauthorized-role"
	// NotFound means the record or identifier does not exist.
	NotFound Kind = "not-found"
	// Unavailable is a transient collaborator failure. Callers may retry.
	Unavailable Kind = "unavailable"
	// Conflict means a record already exists where it was expected not to.
	Conflict Kind = "conflict"
	// Replayed means an envelope was presented more than once.
	Replayed Kind = "replayed"
)

// Sentinels usable with errors.Is.
var (
	ErrMalformedInput    = &Error{Kind: MalformedInput}
	ErrInvalidSignature  = &Error{Kind: InvalidSignature}
	ErrInvalidSender     = &Error{Kind: InvalidSender}
	ErrDecryptionFailure = &Error{Kind: DecryptionFailure}
	ErrUnauthorizedRole  = &Error{Kind: UnauthorizedRole}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrUnavailable       = &Error{Kind: Unavailable}
	ErrConflict          = &Error{Kind: Conflict}
	ErrReplayed          = &Error{Kind: Replayed}
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New returns a classified error for the given operation.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return New(kind, op, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels compare by class.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf returns the kind of the outermost classified error in the chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Unknown
}

// Wrap classifies err unless it is already classified, in which case it is returned unchanged.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}

	if KindOf(err) != Unknown {
		return err
	}

	return New(kind, op, err)
}
