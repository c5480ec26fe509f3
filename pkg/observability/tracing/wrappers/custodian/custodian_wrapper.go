/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package custodian . Service

// Package custodian records a span around every custodian operation.
package custodian

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/service/custodian"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

type Service interface {
	Identity() (*custodian.Identity, error)
	WriteRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.WriteResult, error)
	ReadRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.ReadResult, error)
	DeleteRecord(ctx context.Context, id string, env *envelope.Envelope) error
}

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) Identity() (*custodian.Identity, error) {
	return w.svc.Identity()
}

func (w *Wrapper) WriteRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.WriteResult, error) {
	ctx, span := w.tracer.Start(ctx, "custodian.WriteRecord")
	defer span.End()

	span.SetAttributes(attribute.String("record_id", id))
	span.SetAttributes(senderAttribute(env))

	res, err := w.svc.WriteRecord(ctx, id, env)
	if err != nil {
		fail(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String("role", string(res.Role)), attribute.Bool("created", res.Created))

	return res, nil
}

func (w *Wrapper) ReadRecord(ctx context.Context, id string, env *envelope.Envelope) (*custodian.ReadResult, error) {
	ctx, span := w.tracer.Start(ctx, "custodian.ReadRecord")
	defer span.End()

	span.SetAttributes(attribute.String("record_id", id))
	span.SetAttributes(senderAttribute(env))

	res, err := w.svc.ReadRecord(ctx, id, env)
	if err != nil {
		fail(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String("scope", string(res.Scope)))

	return res, nil
}

func (w *Wrapper) DeleteRecord(ctx context.Context, id string, env *envelope.Envelope) error {
	ctx, span := w.tracer.Start(ctx, "custodian.DeleteRecord")
	defer span.End()

	span.SetAttributes(attribute.String("record_id", id))
	span.SetAttributes(senderAttribute(env))

	if err := w.svc.DeleteRecord(ctx, id, env); err != nil {
		fail(span, err)

		return err
	}

	return nil
}

// senderAttribute carries only the claimed sender; envelope contents stay out of traces.
func senderAttribute(env *envelope.Envelope) attribute.KeyValue {
	if env == nil {
		return attribute.String("sender", "")
	}

	return attribute.String("sender", env.DID)
}

func fail(span trace.Span, err error) {
	span.SetAttributes(attribute.String("error_kind", string(trusterr.KindOf(err))))
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
