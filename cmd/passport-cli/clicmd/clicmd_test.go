/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package clicmd_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/cmd/passport-cli/clicmd"
	"github.com/trustbloc/batterypass/internal/pkg/testutil"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/registry/memory"
	"github.com/trustbloc/batterypass/pkg/restapi/resterr"
	restcustodian "github.com/trustbloc/batterypass/pkg/restapi/v1/custodian"
	"github.com/trustbloc/batterypass/pkg/service/custodian"
	"github.com/trustbloc/batterypass/pkg/storage/memstore"
)

const (
	oemDID     = "did:batterypass:oem.acme"
	bmsDID     = "did:batterypass:bms.cell-0001"
	serviceDID = "did:batterypass:service.recycler"
	cloudDID   = "did:batterypass:cloud.central"
)

type env struct {
	dir          string
	network      *testutil.Network
	registryURL  string
	custodianURL string
	rootKey      string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	n := testutil.NewNetwork(t)
	cloud := n.Register(t, cloudDID, n.Root)

	registrySrv := httptest.NewServer(registryHandler(n.Registry))
	t.Cleanup(registrySrv.Close)

	svc, err := custodian.New(&custodian.Config{
		KeyManager: cloud.KeyManager,
		Registry:   n.Registry,
		Records:    memstore.NewRecordStore(),
	})
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = resterr.HTTPErrorHandler
	restcustodian.NewController(e, &restcustodian.Config{Service: svc})

	custodianSrv := httptest.NewServer(e)
	t.Cleanup(custodianSrv.Close)

	dir := t.TempDir()
	rootKey := filepath.Join(dir, "root.pem")
	require.NoError(t, kms.WriteKey(rootKey, n.Root.PrivateKey()))

	return &env{
		dir:          dir,
		network:      n,
		registryURL:  registrySrv.URL,
		custodianURL: custodianSrv.URL,
		rootKey:      rootKey,
	}
}

// registryHandler serves the registry HTTP contract from an in-memory registry.
func registryHandler(reg *memory.Registry) http.Handler {
	e := echo.New()
	e.HTTPErrorHandler = resterr.HTTPErrorHandler

	e.GET("/api/v1/dids/:did", func(c echo.Context) error {
		doc, err := reg.Lookup(c.Request().Context(), c.Param("did"))
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, doc)
	})

	e.POST("/api/v1/dids/createormodify", func(c echo.Context) error {
		doc := &did.Document{}
		if err := c.Bind(doc); err != nil {
			return err
		}

		if err := reg.UpsertDocument(c.Request().Context(), doc); err != nil {
			return err
		}

		return c.NoContent(http.StatusOK)
	})

	credentialHandler := func(fn func(c echo.Context, cred *vc.Credential) error) echo.HandlerFunc {
		return func(c echo.Context) error {
			cred := &vc.Credential{}
			if err := c.Bind(cred); err != nil {
				return err
			}

			if err := fn(c, cred); err != nil {
				return err
			}

			return c.NoContent(http.StatusOK)
		}
	}

	e.POST("/api/v1/vcs/create", credentialHandler(func(c echo.Context, cred *vc.Credential) error {
		return reg.UploadCredential(c.Request().Context(), cred)
	}))

	e.POST("/api/v1/vcs/verify", credentialHandler(func(c echo.Context, cred *vc.Credential) error {
		return reg.VerifyCredential(c.Request().Context(), cred)
	}))

	return e
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := clicmd.GetRootCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func (e *env) register(t *testing.T, id, controllerDID, controllerKey string) string {
	t.Helper()

	keyOut := filepath.Join(e.dir, filepath.Base(id)+".pem")

	out, err := run(t, "identity", "register",
		"--did", id,
		"--controller-did", controllerDID,
		"--controller-key-path", controllerKey,
		"--key-out", keyOut,
		"--registry-url", e.registryURL,
	)
	require.NoError(t, err, out)

	res := &clicmd.RegisterResult{}
	require.NoError(t, json.Unmarshal([]byte(out), res))
	require.True(t, res.Created)
	require.Equal(t, id, res.Document.ID)

	return keyOut
}

func TestKeygen(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "actor.pem")

	out, err := run(t, "keygen", "--key-path", keyPath)
	require.NoError(t, err)
	require.FileExists(t, keyPath)

	pub := &clicmd.PublicKey{}
	require.NoError(t, json.Unmarshal([]byte(out), pub))
	require.Equal(t, byte('z'), pub.PublicKeyMultibase[0])
	require.Contains(t, pub.PublicKeyPEM, "BEGIN PUBLIC KEY")

	_, err = run(t, "keygen", "--key-path", keyPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	_, err = run(t, "keygen", "--key-path", keyPath, "--force")
	require.NoError(t, err)

	_, err = run(t, "keygen")
	require.Error(t, err)
	require.Contains(t, err.Error(), "key-path")
}

func TestIdentity(t *testing.T) {
	e := newEnv(t)

	oemKey := e.register(t, oemDID, did.DefaultRootAuthority, e.rootKey)
	require.FileExists(t, oemKey)

	t.Run("existing identity is left unchanged", func(t *testing.T) {
		keyOut := filepath.Join(e.dir, "again.pem")

		out, err := run(t, "identity", "register",
			"--did", oemDID,
			"--controller-did", did.DefaultRootAuthority,
			"--controller-key-path", e.rootKey,
			"--key-out", keyOut,
			"--registry-url", e.registryURL,
		)
		require.NoError(t, err)
		require.Contains(t, out, `"created": false`)
		require.NoFileExists(t, keyOut)
	})

	t.Run("key file is never overwritten", func(t *testing.T) {
		_, err := run(t, "identity", "register",
			"--did", bmsDID,
			"--controller-did", oemDID,
			"--controller-key-path", oemKey,
			"--key-out", oemKey,
			"--registry-url", e.registryURL,
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already exists")
	})

	t.Run("resolve", func(t *testing.T) {
		out, err := run(t, "identity", "resolve", "--did", oemDID, "--registry-url", e.registryURL)
		require.NoError(t, err)

		doc := &did.Document{}
		require.NoError(t, json.Unmarshal([]byte(out), doc))
		require.Equal(t, did.DefaultRootAuthority, doc.Controller)

		_, err = run(t, "identity", "resolve", "--did", bmsDID, "--registry-url", e.registryURL)
		require.Error(t, err)
	})

	t.Run("revoke", func(t *testing.T) {
		e.register(t, bmsDID, oemDID, oemKey)

		_, err := run(t, "identity", "revoke",
			"--did", bmsDID,
			"--controller-did", did.DefaultRootAuthority,
			"--controller-key-path", e.rootKey,
			"--registry-url", e.registryURL,
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "is controlled by")

		out, err := run(t, "identity", "revoke",
			"--did", bmsDID,
			"--controller-did", oemDID,
			"--controller-key-path", oemKey,
			"--registry-url", e.registryURL,
		)
		require.NoError(t, err)
		require.Contains(t, out, `"revoked": true`)
	})

	t.Run("missing registry url", func(t *testing.T) {
		_, err := run(t, "identity", "resolve", "--did", oemDID)
		require.Error(t, err)
		require.Contains(t, err.Error(), "registry-url")
	})
}

func TestCredential(t *testing.T) {
	e := newEnv(t)

	oemKey := e.register(t, oemDID, did.DefaultRootAuthority, e.rootKey)
	e.register(t, bmsDID, oemDID, oemKey)
	e.register(t, serviceDID, oemDID, oemKey)

	credPath := filepath.Join(e.dir, "grant.json")

	out, err := run(t, "credential", "grant",
		"--issuer-did", oemDID,
		"--issuer-key-path", oemKey,
		"--holder-did", serviceDID,
		"--bms-did", bmsDID,
		"--validity", "1h",
		"--out", credPath,
		"--registry-url", e.registryURL,
	)
	require.NoError(t, err, out)
	require.FileExists(t, credPath)

	cred := &vc.Credential{}
	require.NoError(t, json.Unmarshal([]byte(out), cred))
	require.True(t, cred.Grants(vc.AccessRead, bmsDID))
	require.NotNil(t, cred.Proof)

	out, err = run(t, "credential", "verify", "--credential", credPath, "--registry-url", e.registryURL)
	require.NoError(t, err)
	require.Contains(t, out, `"valid": true`)

	t.Run("production attestation", func(t *testing.T) {
		out, err := run(t, "credential", "production",
			"--issuer-did", oemDID,
			"--issuer-key-path", oemKey,
			"--bms-did", bmsDID,
			"--lot-number", "LOT-7",
			"--registry-url", e.registryURL,
		)
		require.NoError(t, err, out)
		require.Contains(t, out, vc.TypeBMSProduction)
	})

	t.Run("tampered credential is not valid", func(t *testing.T) {
		cred.CredentialSubject.AccessLevel = []string{vc.AccessRead, vc.AccessWrite}

		raw, err := json.Marshal(cred)
		require.NoError(t, err)

		tampered := filepath.Join(e.dir, "tampered.json")
		require.NoError(t, os.WriteFile(tampered, raw, 0o600))

		out, err := run(t, "credential", "verify", "--credential", tampered, "--registry-url", e.registryURL)
		require.NoError(t, err)
		require.Contains(t, out, `"valid": false`)
	})

	t.Run("missing holder", func(t *testing.T) {
		_, err := run(t, "credential", "grant",
			"--issuer-did", oemDID,
			"--issuer-key-path", oemKey,
			"--bms-did", bmsDID,
			"--registry-url", e.registryURL,
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "holder-did value is empty")
	})
}

func TestRecord(t *testing.T) {
	e := newEnv(t)

	oemKey := e.register(t, oemDID, did.DefaultRootAuthority, e.rootKey)
	bmsKey := e.register(t, bmsDID, oemDID, oemKey)
	serviceKey := e.register(t, serviceDID, oemDID, oemKey)

	recordPath := filepath.Join(e.dir, "batterypass.json")
	require.NoError(t, os.WriteFile(recordPath, testutil.BatteryPassJSON(), 0o600))

	patchPath := filepath.Join(e.dir, "patch.json")
	require.NoError(t, os.WriteFile(patchPath,
		[]byte(`[{"performance.batteryCondition.stateOfCharge.stateOfChargeValue": 64.2}]`), 0o600))

	as := func(sender, key string, args ...string) []string {
		return append(args,
			"--did", bmsDID,
			"--custodian-url", e.custodianURL,
			"--sender-did", sender,
			"--sender-key-path", key,
		)
	}

	out, err := run(t, as(oemDID, oemKey, "record", "create", "--file", recordPath)...)
	require.NoError(t, err, out)
	require.Contains(t, out, `"created": true`)

	_, err = run(t, as(oemDID, oemKey, "record", "create", "--file", recordPath)...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already-exist")

	out, err = run(t, "record", "read", "--did", bmsDID, "--custodian-url", e.custodianURL)
	require.NoError(t, err)
	require.Contains(t, out, `"scope": "public"`)

	out, err = run(t, as(bmsDID, bmsKey, "record", "update", "--patch", patchPath)...)
	require.NoError(t, err, out)
	require.Contains(t, out, `"role": "bms"`)

	out, err = run(t, as(bmsDID, bmsKey, "record", "read")...)
	require.NoError(t, err)
	require.Contains(t, out, `"scope": "bms"`)
	require.Contains(t, out, `"stateOfChargeValue": 64.2`)
	require.NotContains(t, out, `"ciphertext"`)

	credPath := filepath.Join(e.dir, "grant.json")

	_, err = run(t, "credential", "grant",
		"--issuer-did", oemDID,
		"--issuer-key-path", oemKey,
		"--holder-did", serviceDID,
		"--bms-did", bmsDID,
		"--out", credPath,
		"--registry-url", e.registryURL,
	)
	require.NoError(t, err)

	out, err = run(t, as(serviceDID, serviceKey, "record", "read", "--credential", credPath)...)
	require.NoError(t, err, out)
	require.Contains(t, out, `"scope": "legitimate_interest"`)
	require.Contains(t, out, `"batteryMaterialName"`)
	require.NotContains(t, out, `"ciphertext"`)

	_, err = run(t, as(serviceDID, serviceKey, "record", "read")...)
	require.Error(t, err)
	require.Contains(t, err.Error(), "access-denied")

	_, err = run(t, as(bmsDID, bmsKey, "record", "delete")...)
	require.Error(t, err)

	out, err = run(t, as(oemDID, oemKey, "record", "delete")...)
	require.NoError(t, err)
	require.Contains(t, out, `"ok": true`)

	_, err = run(t, "record", "read", "--did", bmsDID, "--custodian-url", e.custodianURL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "doesnt-exist")
}
