/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/internal/pkg/testutil"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/registry/memory"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	oemDID     = "did:batterypass:oem.acme"
	bmsDID     = "did:batterypass:bms.sn-1234"
	serviceDID = "did:batterypass:service.tuv-42"
)

func TestRegistry_Documents(t *testing.T) {
	ctx := context.Background()

	t.Run("register chain", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)
		n.Register(t, bmsDID, oem)

		doc, err := n.Registry.Lookup(ctx, bmsDID)
		require.NoError(t, err)
		require.Equal(t, oemDID, doc.Controller)

		root, err := n.Registry.Lookup(ctx, did.DefaultRootAuthority)
		require.NoError(t, err)
		require.True(t, root.IsSelfControlled())
	})

	t.Run("lookup returns a copy", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		n.Register(t, oemDID, n.Root)

		doc, err := n.Registry.Lookup(ctx, oemDID)
		require.NoError(t, err)
		doc.Revoked = true

		doc, err = n.Registry.Lookup(ctx, oemDID)
		require.NoError(t, err)
		require.False(t, doc.Revoked)
	})

	t.Run("not found", func(t *testing.T) {
		n := testutil.NewNetwork(t)

		_, err := n.Registry.Lookup(ctx, oemDID)
		require.ErrorIs(t, err, trusterr.ErrNotFound)
	})

	t.Run("upsert is idempotent", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)

		require.NoError(t, n.Registry.UpsertDocument(ctx, oem.Doc))
	})

	t.Run("unknown controller", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		stranger := testutil.NewActor(t, oemDID, n.Root)

		err := n.Registry.UpsertDocument(ctx, testutil.NewActor(t, bmsDID, stranger).Doc)
		require.ErrorIs(t, err, trusterr.ErrInvalidSender)
	})

	t.Run("forged controller proof", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		n.Register(t, oemDID, n.Root)
		impostor := testutil.NewActor(t, oemDID, n.Root)

		err := n.Registry.UpsertDocument(ctx, testutil.NewActor(t, bmsDID, impostor).Doc)
		require.ErrorIs(t, err, trusterr.ErrInvalidSignature)
	})

	t.Run("tampered document", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)

		doc := testutil.NewActor(t, bmsDID, oem).Doc
		doc.Timestamp = "2020-01-01T00:00:00Z"

		require.ErrorIs(t, n.Registry.UpsertDocument(ctx, doc), trusterr.ErrInvalidSignature)
	})

	t.Run("controller cannot change", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)
		other := n.Register(t, "did:batterypass:oem.other", n.Root)
		n.Register(t, bmsDID, oem)

		err := n.Registry.UpsertDocument(ctx, testutil.NewActor(t, bmsDID, other).Doc)
		require.ErrorIs(t, err, trusterr.ErrInvalidSignature)
	})

	t.Run("self-controlled documents are not registrable", func(t *testing.T) {
		n := testutil.NewNetwork(t)

		key := n.Root.PrivateKey()
		doc, err := did.Build("did:batterypass:na", "did:batterypass:na", &key.PublicKey)
		require.NoError(t, err)
		require.NoError(t, doc.Sign(key))

		require.ErrorIs(t, n.Registry.UpsertDocument(ctx, doc), trusterr.ErrInvalidSender)
	})

	t.Run("revocation", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)
		bms := n.Register(t, bmsDID, oem)
		active := bms.Doc

		n.Revoke(t, bms, oem)

		doc, err := n.Registry.Lookup(ctx, bmsDID)
		require.NoError(t, err)
		require.True(t, doc.Revoked)

		err = n.Registry.UpsertDocument(ctx, active)
		require.ErrorIs(t, err, trusterr.ErrConflict)

		err = n.Registry.UpsertDocument(ctx, testutil.NewActor(t, "did:batterypass:bms.sn-9", bms).Doc)
		require.ErrorIs(t, err, trusterr.ErrInvalidSender)
	})

	t.Run("seed rejects delegated documents", func(t *testing.T) {
		n := testutil.NewNetwork(t)

		require.ErrorIs(t, memory.New().Seed(testutil.NewActor(t, oemDID, n.Root).Doc), trusterr.ErrMalformedInput)
	})
}

func TestRegistry_Credentials(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, opts ...memory.Opt) (*testutil.Network, *testutil.Actor, *testutil.Actor) {
		t.Helper()

		n := testutil.NewNetwork(t, opts...)
		oem := n.Register(t, oemDID, n.Root)
		bms := n.Register(t, bmsDID, oem)
		service := n.Register(t, serviceDID, oem)

		return n, bms, service
	}

	t.Run("valid", func(t *testing.T) {
		n, bms, service := setup(t)
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

		require.Equal(t, registry.CredentialValid, n.Registry.CredentialState(cred))
		require.NoError(t, n.Registry.VerifyCredential(ctx, cred))
		require.NoError(t, n.Registry.UploadCredential(ctx, cred))
	})

	t.Run("not anchored", func(t *testing.T) {
		n, bms, service := setup(t)

		cred, err := vc.New(vc.ServiceAccess(bms.DID(), service.DID(), bmsDID, []string{vc.AccessRead},
			time.Now(), time.Hour))
		require.NoError(t, err)
		require.NoError(t, cred.Sign(bms.PrivateKey()))

		require.Equal(t, registry.CredentialNotFound, n.Registry.CredentialState(cred))
		require.ErrorIs(t, n.Registry.VerifyCredential(ctx, cred), trusterr.ErrInvalidSignature)
	})

	t.Run("tampered", func(t *testing.T) {
		n, bms, service := setup(t)
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)
		cred.CredentialSubject.AccessLevel = []string{vc.AccessRead, vc.AccessWrite}

		require.Equal(t, registry.CredentialTampered, n.Registry.CredentialState(cred))
		require.ErrorIs(t, n.Registry.VerifyCredential(ctx, cred), trusterr.ErrInvalidSignature)
	})

	t.Run("conflicting id", func(t *testing.T) {
		n, bms, service := setup(t)
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

		other, err := vc.New(vc.ServiceAccess(bms.DID(), service.DID(), bmsDID, []string{vc.AccessWrite},
			time.Now(), time.Hour))
		require.NoError(t, err)
		other.ID = cred.ID
		require.NoError(t, other.Sign(bms.PrivateKey()))

		require.ErrorIs(t, n.Registry.UploadCredential(ctx, other), trusterr.ErrConflict)
	})

	t.Run("revoked", func(t *testing.T) {
		n, bms, service := setup(t)
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

		require.NoError(t, n.Registry.RevokeCredential(ctx, cred.ID))
		require.Equal(t, registry.CredentialRevoked, n.Registry.CredentialState(cred))
		require.ErrorIs(t, n.Registry.RevokeCredential(ctx, "urn:uuid:unknown"), trusterr.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		now := time.Now()
		n, bms, service := setup(t, memory.WithClock(func() time.Time { return now }))
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

		now = now.Add(2 * time.Hour)

		require.Equal(t, registry.CredentialExpired, n.Registry.CredentialState(cred))
		require.Error(t, n.Registry.VerifyCredential(ctx, cred))
	})

	t.Run("revoked issuer", func(t *testing.T) {
		n := testutil.NewNetwork(t)
		oem := n.Register(t, oemDID, n.Root)
		bms := n.Register(t, bmsDID, oem)
		service := n.Register(t, serviceDID, oem)
		cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

		n.Revoke(t, bms, oem)

		require.ErrorIs(t, n.Registry.VerifyCredential(ctx, cred), trusterr.ErrInvalidSender)
	})

	t.Run("unregistered issuer", func(t *testing.T) {
		n, _, service := setup(t)
		stranger := testutil.NewActor(t, "did:batterypass:bms.sn-0000", n.Root)

		cred, err := vc.New(vc.ServiceAccess(stranger.DID(), service.DID(), stranger.DID(), []string{vc.AccessRead},
			time.Now(), time.Hour))
		require.NoError(t, err)
		require.NoError(t, cred.Sign(stranger.PrivateKey()))

		require.ErrorIs(t, n.Registry.UploadCredential(ctx, cred), trusterr.ErrInvalidSender)
	})
}

func TestRegistry_VerifyPresentation(t *testing.T) {
	ctx := context.Background()

	n := testutil.NewNetwork(t)
	oem := n.Register(t, oemDID, n.Root)
	bms := n.Register(t, bmsDID, oem)
	service := n.Register(t, serviceDID, oem)
	cred := n.Grant(t, bms, service, bmsDID, vc.AccessRead)

	t.Run("success", func(t *testing.T) {
		vp, err := vc.NewPresentation(service.DID(), cred)
		require.NoError(t, err)
		require.NoError(t, vp.Sign(service.PrivateKey()))

		require.NoError(t, n.Registry.VerifyPresentation(ctx, vp))
	})

	t.Run("signed by someone else", func(t *testing.T) {
		vp, err := vc.NewPresentation(service.DID(), cred)
		require.NoError(t, err)
		require.NoError(t, vp.Sign(bms.PrivateKey()))

		require.ErrorIs(t, n.Registry.VerifyPresentation(ctx, vp), trusterr.ErrInvalidSignature)
	})

	t.Run("revoked holder", func(t *testing.T) {
		vp, err := vc.NewPresentation(service.DID(), cred)
		require.NoError(t, err)
		require.NoError(t, vp.Sign(service.PrivateKey()))

		n.Revoke(t, service, oem)

		require.ErrorIs(t, n.Registry.VerifyPresentation(ctx, vp), trusterr.ErrInvalidSender)
	})
}
