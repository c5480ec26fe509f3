/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package dataprotect seals battery records at rest. Records are compressed and then sealed to the
// custodian's own key through the hybrid encryption channel.
package dataprotect

import (
	"context"

	"github.com/trustbloc/batterypass/pkg/envelope"
)

// Protector encrypts and decrypts stored records.
type Protector interface {
	Encrypt(ctx context.Context, msg []byte) (*EncryptedData, error)
	Decrypt(ctx context.Context, encryptedData *EncryptedData) ([]byte, error)
}

// DataCompressor compresses records before sealing.
type DataCompressor interface {
	Compress(input []byte) ([]byte, error)
	Decompress(input []byte) ([]byte, error)
}

// EncryptedData is the stored form of a record.
type EncryptedData struct {
	Envelope    *envelope.Envelope `json:"envelope" bson:"envelope"`
	Compression string             `json:"compression" bson:"compression"`
}
