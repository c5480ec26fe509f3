/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package registry

import (
	"context"
	"crypto/ecdsa"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

type lookup interface {
	Lookup(ctx context.Context, id string) (*did.Document, error)
}

// ResolveActive returns the document of id when it is registered and not revoked. Unregistered and
// revoked identifiers are InvalidSender; transient failures keep their Unavailable kind.
func ResolveActive(ctx context.Context, reg lookup, id string) (*did.Document, error) {
	const op = "resolve identity"

	doc, err := reg.Lookup(ctx, id)
	if err != nil {
		if trusterr.KindOf(err) == trusterr.Unavailable {
			return nil, err
		}

		return nil, trusterr.New(trusterr.InvalidSender, op, err)
	}

	if doc.Revoked {
		return nil, trusterr.Newf(trusterr.InvalidSender, op, "%s is revoked", id)
	}

	return doc, nil
}

// KeyResolver resolves envelope senders through the registry.
type KeyResolver struct {
	reg lookup
}

// NewKeyResolver returns a resolver backed by reg.
func NewKeyResolver(reg lookup) *KeyResolver {
	return &KeyResolver{reg: reg}
}

// ResolveSenderKey returns the P-256 key of an active identity.
func (r *KeyResolver) ResolveSenderKey(ctx context.Context, id string) (*ecdsa.PublicKey, error) {
	doc, err := ResolveActive(ctx, r.reg, id)
	if err != nil {
		return nil, err
	}

	key, err := doc.SigningKey()
	if err != nil {
		return nil, trusterr.New(trusterr.InvalidSender, "resolve sender key", err)
	}

	return key, nil
}
