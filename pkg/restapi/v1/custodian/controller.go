/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination controller_mocks_test.go -package custodian_test -source=controller.go -mock_names custodianService=MockCustodianService,router=MockRouter

package custodian

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/restapi/v1/util"
	"github.com/trustbloc/batterypass/pkg/service/custodian"
)

var logger = log.New("custodian-restapi")

const recordPath = "/batterypass/:did"

type custodianService interface {
	Identity() (*custodian.Identity, error)
	WriteRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.WriteResult, error)
	ReadRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.ReadResult, error)
	DeleteRecord(ctx context.Context, id string, env *envelope.Envelope) error
}

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Config holds the dependencies of the custodian REST API.
type Config struct {
	Service custodianService
}

// Controller serves battery passport records.
type Controller struct {
	service custodianService
}

// NewController registers the record and identity routes.
func NewController(router router, config *Config) *Controller {
	c := &Controller{service: config.Service}

	router.GET("/identity", c.GetIdentity)
	router.GET(recordPath, c.GetRecord)
	router.PUT(recordPath, c.PutRecord)
	router.POST(recordPath, c.PostRecord)
	router.DELETE(recordPath, c.DeleteRecord)

	return c
}

// GetIdentity returns the custodian DID and the key senders seal envelopes to.
// GET /identity.
func (c *Controller) GetIdentity(ctx echo.Context) error {
	return util.WriteOutput(ctx)(c.service.Identity())
}

// GetRecord returns the record filtered to the caller's scope. Without envelope query parameters the
// public view is returned in the clear; otherwise the view is sealed to the caller.
// GET /batterypass/:did.
func (c *Controller) GetRecord(ctx echo.Context) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}

	var params EnvelopeParams

	if err = util.ReadQuery(ctx, &params); err != nil {
		return err
	}

	res, err := c.service.ReadRecord(ctx.Request().Context(), id, params.Envelope())
	if err != nil {
		return err
	}

	logger.Debug("record served", log.WithRecordID(id), log.WithScope(string(res.Scope)))

	return util.WriteOutput(ctx)(&ReadRecordResponse{
		DID:         id,
		Scope:       string(res.Scope),
		BatteryPass: res.Record,
		Envelope:    res.Envelope,
	}, nil)
}

// PutRecord creates a record. The sender's role decides whether the envelope is a creation or a patch.
// PUT /batterypass/:did.
func (c *Controller) PutRecord(ctx echo.Context) error {
	return c.writeRecord(ctx)
}

// PostRecord patches a record.
// POST /batterypass/:did.
func (c *Controller) PostRecord(ctx echo.Context) error {
	return c.writeRecord(ctx)
}

func (c *Controller) writeRecord(ctx echo.Context) error {
	id, env, err := readEnvelope(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.WriteRecord(ctx.Request().Context(), id, env)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if res.Created {
		code = http.StatusCreated
	}

	return util.WriteOutputWithCode(code, ctx)(
		&WriteRecordResponse{DID: id, Role: string(res.Role), Created: res.Created}, nil)
}

// DeleteRecord removes a record.
// DELETE /batterypass/:did.
func (c *Controller) DeleteRecord(ctx echo.Context) error {
	id, env, err := readEnvelope(ctx)
	if err != nil {
		return err
	}

	if err = c.service.DeleteRecord(ctx.Request().Context(), id, env); err != nil {
		return err
	}

	return util.WriteOutput(ctx)(&DeleteRecordResponse{OK: true}, nil)
}

func readEnvelope(ctx echo.Context) (string, *envelope.Envelope, error) {
	id, err := recordID(ctx)
	if err != nil {
		return "", nil, err
	}

	var env envelope.Envelope

	if err = util.ReadBody(ctx, &env); err != nil {
		return "", nil, err
	}

	return id, &env, nil
}

func recordID(ctx echo.Context) (string, error) {
	return util.PathDID(ctx, "did")
}
