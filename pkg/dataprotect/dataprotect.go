/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package dataprotect

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

type channel interface {
	Seal(sender envelope.Identity, recipient *ecdsa.PublicKey, plaintext []byte) (*envelope.Envelope, error)
	Open(ctx context.Context, recipient envelope.Identity, env *envelope.Envelope,
		resolver envelope.SenderKeyResolver) ([]byte, error)
}

// DataProtector seals records to the key of the custodian that stores them.
type DataProtector struct {
	channel    channel
	identity   envelope.Identity
	compressor DataCompressor
}

// NewDataProtector returns a protector sealing to identity.
func NewDataProtector(ch channel, identity envelope.Identity, compressor DataCompressor) *DataProtector {
	if compressor == nil {
		compressor = NewNilZip()
	}

	return &DataProtector{channel: ch, identity: identity, compressor: compressor}
}

// Encrypt compresses msg and seals it from and to the custodian.
func (d *DataProtector) Encrypt(_ context.Context, msg []byte) (*EncryptedData, error) {
	compressed, err := d.compressor.Compress(msg)
	if err != nil {
		return nil, fmt.Errorf("compress record: %w", err)
	}

	env, err := d.channel.Seal(d.identity, &d.identity.PrivateKey().PublicKey, compressed)
	if err != nil {
		return nil, fmt.Errorf("seal record: %w", err)
	}

	return &EncryptedData{Envelope: env, Compression: compressionName(d.compressor)}, nil
}

// Decrypt opens data sealed by Encrypt with whichever compression it was stored. Envelopes from any
// other sender are rejected.
func (d *DataProtector) Decrypt(ctx context.Context, data *EncryptedData) ([]byte, error) {
	if data == nil || data.Envelope == nil {
		return nil, trusterr.Newf(trusterr.MalformedInput, "decrypt record", "no sealed data")
	}

	decompressor := d.compressor
	if data.Compression != compressionName(d.compressor) {
		c, err := NewCompressor(data.Compression)
		if err != nil {
			return nil, err
		}

		decompressor = c
	}

	compressed, err := d.channel.Open(ctx, d.identity, data.Envelope, selfResolver{d.identity})
	if err != nil {
		return nil, err
	}

	msg, err := decompressor.Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress record: %w", err)
	}

	return msg, nil
}

type selfResolver struct {
	identity envelope.Identity
}

func (r selfResolver) ResolveSenderKey(_ context.Context, id string) (*ecdsa.PublicKey, error) {
	if id != r.identity.DID() {
		return nil, trusterr.Newf(trusterr.InvalidSender, "resolve record sealer", "%s did not seal this record", id)
	}

	return &r.identity.PrivateKey().PublicKey, nil
}

func compressionName(c DataCompressor) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return CompressionNone
}
