/*
Copyright Avast Software. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package restapiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trustbloc/batterypass/pkg/restapi/resterr"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// StatusError is a non-2xx response from the custodian.
type StatusError struct {
	StatusCode int
	Response   resterr.ErrorResponse
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %v: %s %s", e.StatusCode, e.Response.Code, e.Response.Message)
}

var kindByCode = map[resterr.ErrorCode]trusterr.Kind{ //nolint:gochecknoglobals
	resterr.InvalidRequest: trusterr.MalformedInput,
	resterr.AccessDenied:   trusterr.UnauthorizedRole,
	resterr.DoesntExist:    trusterr.NotFound,
	resterr.AlreadyExist:   trusterr.Conflict,
	resterr.Unavailable:    trusterr.Unavailable,
}

func sendInternal[T any, V any](
	ctx context.Context,
	client httpClient,
	method string,
	url string,
	request *T,
) (*V, error) {
	var buf bytes.Buffer

	if request != nil {
		if reqMarshalErr := json.NewEncoder(&buf).Encode(request); reqMarshalErr != nil {
			return nil, reqMarshalErr
		}
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		method,
		url,
		&buf,
	)

	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, httpErr := client.Do(httpReq)

	if httpErr != nil {
		return nil, trusterr.New(trusterr.Unavailable, "send request", httpErr)
	}

	var body []byte

	if resp.Body != nil {
		defer resp.Body.Close() //nolint:errcheck

		b, bodyErr := io.ReadAll(resp.Body)

		if bodyErr != nil {
			return nil, bodyErr
		}

		body = b
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp.StatusCode, body)
	}

	var final V

	if unmarshalErr := json.Unmarshal(body, &final); unmarshalErr != nil {
		return nil, unmarshalErr
	}

	return &final, nil
}

func statusError(code int, body []byte) error {
	statusErr := &StatusError{StatusCode: code}

	if err := json.Unmarshal(body, &statusErr.Response); err != nil {
		statusErr.Response.Message = string(body)
	}

	kind, ok := kindByCode[statusErr.Response.Code]
	if !ok {
		return statusErr
	}

	return trusterr.New(kind, "custodian", statusErr)
}
