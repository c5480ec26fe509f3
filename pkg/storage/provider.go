/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package storage declares the persistence contracts of the custodian. Implementations live in the
// memstore, mongodb and redis subpackages.
package storage

import (
	"context"

	"github.com/trustbloc/batterypass/pkg/dataprotect"
)

// Database types accepted by the start command.
const (
	TypeMem     = "mem"
	TypeMongoDB = "mongodb"
)

// RecordStore keeps sealed battery records keyed by battery identifier.
// Create fails with Conflict on an existing record. Update, Get and Delete fail with NotFound on a missing one.
type RecordStore interface {
	Create(ctx context.Context, id string, data *dataprotect.EncryptedData) error
	Update(ctx context.Context, id string, data *dataprotect.EncryptedData) error
	Get(ctx context.Context, id string) (*dataprotect.EncryptedData, error)
	Delete(ctx context.Context, id string) error
}

// NonceStore remembers nonces for a bounded time. CheckAndStore fails with Replayed on reuse.
type NonceStore interface {
	CheckAndStore(ctx context.Context, nonce string) error
}
