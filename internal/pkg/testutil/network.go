/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/registry/memory"
)

// Actor is a registered participant together with its signing key.
type Actor struct {
	*kms.KeyManager
	Doc *did.Document
}

// Network is an in-memory registry seeded with a root authority.
type Network struct {
	Registry *memory.Registry
	Root     *Actor
}

// NewNetwork seeds a registry with the default root authority.
func NewNetwork(t *testing.T, opts ...memory.Opt) *Network {
	t.Helper()

	key, err := kms.GenerateKey()
	require.NoError(t, err)

	doc, err := did.Build(did.DefaultRootAuthority, did.DefaultRootAuthority, &key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, doc.Sign(key))

	reg := memory.New(opts...)
	require.NoError(t, reg.Seed(doc))

	return &Network{
		Registry: reg,
		Root:     &Actor{KeyManager: kms.NewFromKey(doc.ID, key), Doc: doc},
	}
}

// Register creates a key pair for id and registers its document signed by controller.
func (n *Network) Register(t *testing.T, id string, controller *Actor, opts ...did.BuildOpt) *Actor {
	t.Helper()

	a := NewActor(t, id, controller, opts...)
	require.NoError(t, n.Registry.UpsertDocument(context.Background(), a.Doc))

	return a
}

// Revoke supersedes the document of a with a revoked copy signed by controller.
func (n *Network) Revoke(t *testing.T, a, controller *Actor) {
	t.Helper()

	doc := a.Doc.Clone()
	doc.Revoked = true
	require.NoError(t, doc.Sign(controller.PrivateKey()))
	require.NoError(t, n.Registry.UpsertDocument(context.Background(), doc))

	a.Doc = doc
}

// Grant issues and anchors a ServiceAccess credential from issuer to holder for bmsDID.
func (n *Network) Grant(t *testing.T, issuer, holder *Actor, bmsDID string, levels ...string) *vc.Credential {
	t.Helper()

	cred, err := vc.New(vc.ServiceAccess(issuer.DID(), holder.DID(), bmsDID, levels,
		time.Now().Add(-time.Minute), time.Hour))
	require.NoError(t, err)
	require.NoError(t, cred.Sign(issuer.PrivateKey()))
	require.NoError(t, n.Registry.UploadCredential(context.Background(), cred))

	return cred
}

// NewActor creates an unregistered actor whose document is signed by controller.
func NewActor(t *testing.T, id string, controller *Actor, opts ...did.BuildOpt) *Actor {
	t.Helper()

	key, err := kms.GenerateKey()
	require.NoError(t, err)

	doc, err := did.Build(id, controller.DID(), &key.PublicKey, opts...)
	require.NoError(t, err)
	require.NoError(t, doc.Sign(controller.PrivateKey()))

	return &Actor{KeyManager: kms.NewFromKey(id, key), Doc: doc}
}
