/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination client_mocks_test.go -package registry_test -source=client.go -mock_names httpClient=MockHTTPClient

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/observability/metrics"
	"github.com/trustbloc/batterypass/pkg/observability/metrics/noop"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("registry-client")

const (
	lookupPath             = "/api/v1/dids/"
	upsertPath             = "/api/v1/dids/createormodify"
	uploadCredentialPath   = "/api/v1/vcs/create"
	verifyCredentialPath   = "/api/v1/vcs/verify"
	verifyPresentationPath = "/api/v1/vps/verify"

	defaultMaxRetries    = 3
	defaultRetryInterval = 200 * time.Millisecond
	maxErrorBody         = 512
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures Client.
type Config struct {
	URL           string
	HTTPClient    httpClient
	MaxRetries    uint64
	RetryInterval time.Duration
	Metrics       metrics.Metrics
}

// Client talks to the registry over HTTP.
type Client struct {
	baseURL       string
	httpClient    httpClient
	maxRetries    uint64
	retryInterval time.Duration
	metrics       metrics.Metrics
}

// NewClient returns a registry client.
func NewClient(config *Config) *Client {
	c := &Client{
		baseURL:       strings.TrimSuffix(config.URL, "/"),
		httpClient:    config.HTTPClient,
		maxRetries:    config.MaxRetries,
		retryInterval: config.RetryInterval,
		metrics:       config.Metrics,
	}

	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	if c.maxRetries == 0 {
		c.maxRetries = defaultMaxRetries
	}

	if c.retryInterval == 0 {
		c.retryInterval = defaultRetryInterval
	}

	if c.metrics == nil {
		c.metrics = &noop.NoMetrics{}
	}

	return c
}

// Lookup fetches the current document of id.
func (c *Client) Lookup(ctx context.Context, id string) (*did.Document, error) {
	doc := &did.Document{}

	if err := c.doRequest(ctx, "lookup", http.MethodGet, lookupPath+url.PathEscape(id), nil, doc); err != nil {
		return nil, err
	}

	if doc.ID != id {
		return nil, trusterr.Newf(trusterr.MalformedInput, "lookup", "registry returned %q for %q", doc.ID, id)
	}

	return doc, nil
}

// UpsertDocument submits a controller-signed document.
func (c *Client) UpsertDocument(ctx context.Context, doc *did.Document) error {
	return c.doRequest(ctx, "upsert document", http.MethodPost, upsertPath, doc, nil)
}

// UploadCredential anchors a signed credential.
func (c *Client) UploadCredential(ctx context.Context, cred *vc.Credential) error {
	return c.doRequest(ctx, "upload credential", http.MethodPost, uploadCredentialPath, cred, nil)
}

// VerifyCredential asks the registry for the ledger state of cred.
func (c *Client) VerifyCredential(ctx context.Context, cred *vc.Credential) error {
	return rejected(c.doRequest(ctx, "verify credential", http.MethodPost, verifyCredentialPath, cred, nil))
}

// VerifyPresentation asks the registry to verify vp and every credential inside it.
func (c *Client) VerifyPresentation(ctx context.Context, vp *vc.Presentation) error {
	return rejected(c.doRequest(ctx, "verify presentation", http.MethodPost, verifyPresentationPath, vp, nil))
}

// rejected reports a definite negative verdict as a signature failure. Transient failures keep their kind.
func rejected(err error) error {
	if err == nil {
		return nil
	}

	switch trusterr.KindOf(err) {
	case trusterr.Unavailable, trusterr.InvalidSender:
		return err
	default:
		return trusterr.New(trusterr.InvalidSignature, "registry verification", err)
	}
}

func (c *Client) doRequest(ctx context.Context, op, method, path string, in, out interface{}) error {
	var payload []byte

	if in != nil {
		var err error

		payload, err = json.Marshal(in)
		if err != nil {
			return trusterr.New(trusterr.MalformedInput, op, err)
		}
	}

	start := time.Now()
	defer func() { c.metrics.RegistryRequestTime(op, time.Since(start)) }()

	attempt := 0

	err := backoff.Retry(func() error {
		attempt++

		return c.send(ctx, op, method, path, payload, out)
	}, backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx))
	if err != nil {
		logger.Debug("registry request failed", log.WithPath(path), log.WithAttempt(attempt), log.WithError(err))

		var unavailable *transientError
		if errors.As(err, &unavailable) {
			return trusterr.New(trusterr.Unavailable, op, unavailable.err)
		}

		if ctx.Err() != nil {
			return trusterr.New(trusterr.Unavailable, op, ctx.Err())
		}

		return err
	}

	return nil
}

func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0

	return b
}

type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (c *Client) send(ctx context.Context, op, method, path string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return backoff.Permanent(trusterr.New(trusterr.MalformedInput, op, err))
	}

	if payload != nil {
		req.Header.Add("content-type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transientError{err: err}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", log.WithError(closeErr))
		}
	}()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			return nil
		}

		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(trusterr.New(trusterr.MalformedInput, op, fmt.Errorf("decode response: %w", err)))
		}

		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck
	statusErr := fmt.Errorf("status code: %d, msg: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	if kind, ok := statusKind(resp.StatusCode); ok {
		return backoff.Permanent(trusterr.New(kind, op, statusErr))
	}

	return &transientError{err: statusErr}
}

// statusKind classifies definite registry answers. Anything else is retried.
func statusKind(status int) (trusterr.Kind, bool) {
	switch {
	case status == http.StatusNotFound:
		return trusterr.NotFound, true
	case status == http.StatusConflict:
		return trusterr.Conflict, true
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return trusterr.InvalidSignature, true
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout:
		return trusterr.Unknown, false
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return trusterr.MalformedInput, true
	default:
		return trusterr.Unknown, false
	}
}
