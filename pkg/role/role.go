/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package role decides what an authenticated sender may do with a battery record.
package role

import (
	"context"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("role-resolver")

// Role of a sender relative to one record.
type Role string

const (
	// BMS is the battery management system the record belongs to.
	BMS Role = "bms"
	// OEM is a manufacturer registered directly under the root authority.
	OEM Role = "oem"
	// None grants nothing.
	None Role = "none"
)

type lookup interface {
	Lookup(ctx context.Context, id string) (*did.Document, error)
}

// Resolver determines roles against the registry. Nothing is cached, so a revocation applies to the
// next request.
type Resolver struct {
	registry      lookup
	rootAuthority string
}

// NewResolver returns a Resolver. An empty rootAuthority selects did.DefaultRootAuthority.
func NewResolver(reg lookup, rootAuthority string) *Resolver {
	if rootAuthority == "" {
		rootAuthority = did.DefaultRootAuthority
	}

	return &Resolver{registry: reg, rootAuthority: rootAuthority}
}

// Determine returns the role of sender for the record of accessedDID. sender must already be
// authenticated. Only registry outages are reported as errors.
func (r *Resolver) Determine(ctx context.Context, accessedDID, sender string) (Role, error) {
	if sender == accessedDID {
		return BMS, nil
	}

	doc, err := registry.ResolveActive(ctx, r.registry, sender)
	if err != nil {
		if trusterr.KindOf(err) == trusterr.Unavailable {
			return None, err
		}

		logger.Debug("sender has no role", log.WithSender(sender), log.WithError(err))

		return None, nil
	}

	if doc.Controller == r.rootAuthority && !doc.IsSelfControlled() {
		return OEM, nil
	}

	return None, nil
}
