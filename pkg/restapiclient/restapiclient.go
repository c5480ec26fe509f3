/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package restapiclient

//go:generate mockgen -destination restapiclient_mocks_test.go -package restapiclient_test -source=restapiclient.go -mock_names httpClient=MockHttpClient

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/trustbloc/batterypass/pkg/doc/multikey"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/record"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	identityEndpoint = "/identity"
	recordEndpoint   = "/batterypass/"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the custodian REST API.
type Client struct {
	hostURI string
	client  httpClient
}

func NewClient(
	hostURI string,
	client httpClient,
) *Client {
	return &Client{
		hostURI: strings.TrimSuffix(hostURI, "/"),
		client:  client,
	}
}

// Identity returns the custodian DID and the key to seal envelopes to.
func (c *Client) Identity(ctx context.Context) (*IdentityResponse, error) {
	return sendInternal[struct{}, IdentityResponse](
		ctx,
		c.client,
		http.MethodGet,
		fmt.Sprintf("%s%s", c.hostURI, identityEndpoint),
		nil,
	)
}

// ReadRecord reads a record. A nil env requests the public view.
func (c *Client) ReadRecord(
	ctx context.Context,
	id string,
	env *envelope.Envelope,
) (*ReadRecordResponse, error) {
	target := c.recordURL(id)

	if env != nil {
		q := url.Values{}
		q.Set("ciphertext", env.Ciphertext)
		q.Set("aad", env.AAD)
		q.Set("salt", env.Salt)
		q.Set("eph_pub", env.EphPub)
		q.Set("did", env.DID)
		q.Set("signature", env.Signature)

		target += "?" + q.Encode()
	}

	return sendInternal[struct{}, ReadRecordResponse](
		ctx,
		c.client,
		http.MethodGet,
		target,
		nil,
	)
}

// ReadSealedRecord reads a record with an envelope sent by reader and opens the sealed response. The
// response must be signed by the custodian published at /identity.
func (c *Client) ReadSealedRecord(
	ctx context.Context,
	id string,
	env *envelope.Envelope,
	reader envelope.Identity,
) (*ReadRecordResponse, error) {
	resp, err := c.ReadRecord(ctx, id, env)
	if err != nil {
		return nil, err
	}

	if resp.Envelope == nil {
		return nil, trusterr.Newf(trusterr.MalformedInput, "read record", "response for %s is not sealed", id)
	}

	identity, err := c.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch custodian identity: %w", err)
	}

	key, err := multikey.DecodeP256(identity.PublicKeyMultibase)
	if err != nil {
		return nil, trusterr.New(trusterr.MalformedInput, "read record", err)
	}

	raw, err := envelope.NewChannel().Open(ctx, reader, resp.Envelope, &pinnedKey{did: identity.DID, key: key})
	if err != nil {
		return nil, err
	}

	rec, err := record.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &ReadRecordResponse{DID: resp.DID, Scope: resp.Scope, BatteryPass: rec}, nil
}

// pinnedKey resolves only the custodian the client talks to.
type pinnedKey struct {
	did string
	key *ecdsa.PublicKey
}

func (p *pinnedKey) ResolveSenderKey(_ context.Context, id string) (*ecdsa.PublicKey, error) {
	if id != p.did {
		return nil, trusterr.Newf(trusterr.InvalidSender, "resolve custodian", "response sealed by %s, not %s", id, p.did)
	}

	return p.key, nil
}

// CreateRecord stores a new record sealed by its OEM.
func (c *Client) CreateRecord(
	ctx context.Context,
	id string,
	env *envelope.Envelope,
) (*WriteRecordResponse, error) {
	return sendInternal[envelope.Envelope, WriteRecordResponse](
		ctx,
		c.client,
		http.MethodPut,
		c.recordURL(id),
		env,
	)
}

// UpdateRecord applies patches sealed by the record's BMS.
func (c *Client) UpdateRecord(
	ctx context.Context,
	id string,
	env *envelope.Envelope,
) (*WriteRecordResponse, error) {
	return sendInternal[envelope.Envelope, WriteRecordResponse](
		ctx,
		c.client,
		http.MethodPost,
		c.recordURL(id),
		env,
	)
}

// DeleteRecord removes a record on behalf of its OEM.
func (c *Client) DeleteRecord(
	ctx context.Context,
	id string,
	env *envelope.Envelope,
) (*DeleteRecordResponse, error) {
	return sendInternal[envelope.Envelope, DeleteRecordResponse](
		ctx,
		c.client,
		http.MethodDelete,
		c.recordURL(id),
		env,
	)
}

func (c *Client) recordURL(id string) string {
	return c.hostURI + recordEndpoint + url.PathEscape(id)
}
