/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package custodian stores battery records on behalf of their BMS and releases them to each caller
// at the disclosure scope its identity and credentials allow.
package custodian

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/trustbloc/batterypass/internal/pkg/log"
	"github.com/trustbloc/batterypass/pkg/dataprotect"
	"github.com/trustbloc/batterypass/pkg/disclosure"
	"github.com/trustbloc/batterypass/pkg/doc/did"
	"github.com/trustbloc/batterypass/pkg/doc/multikey"
	"github.com/trustbloc/batterypass/pkg/doc/proof"
	"github.com/trustbloc/batterypass/pkg/doc/vc"
	"github.com/trustbloc/batterypass/pkg/envelope"
	"github.com/trustbloc/batterypass/pkg/kms"
	"github.com/trustbloc/batterypass/pkg/locker"
	"github.com/trustbloc/batterypass/pkg/observability/metrics"
	"github.com/trustbloc/batterypass/pkg/observability/metrics/noop"
	"github.com/trustbloc/batterypass/pkg/record"
	registryapi "github.com/trustbloc/batterypass/pkg/registry"
	"github.com/trustbloc/batterypass/pkg/role"
	"github.com/trustbloc/batterypass/pkg/storage"
	"github.com/trustbloc/batterypass/pkg/storage/memstore"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

var logger = log.New("custodian-service")

// Config configures Service. KeyManager, Registry and Records are required.
type Config struct {
	KeyManager    *kms.KeyManager
	Registry      registry
	Records       storage.RecordStore
	Nonces        storage.NonceStore
	Protector     dataprotect.Protector
	Channel       envelopeChannel
	Roles         roleResolver
	Policy        *disclosure.Policy
	Validator     *record.Validator
	Locker        locker.Locker
	RootAuthority string
	Metrics       metrics.Metrics
	Clock         func() time.Time
}

// Service is the record custodian.
type Service struct {
	keyManager *kms.KeyManager
	registry   registry
	resolver   envelope.SenderKeyResolver
	records    storage.RecordStore
	nonces     storage.NonceStore
	protector  dataprotect.Protector
	channel    envelopeChannel
	roles      roleResolver
	policy     *disclosure.Policy
	validator  *record.Validator
	locker     locker.Locker
	metrics    metrics.Metrics
	now        func() time.Time
}

// New creates Service. Optional collaborators default to in-process implementations.
func New(config *Config) (*Service, error) {
	if config.KeyManager == nil || config.Registry == nil || config.Records == nil {
		return nil, errors.New("custodian: key manager, registry and record store are required")
	}

	s := &Service{
		keyManager: config.KeyManager,
		registry:   config.Registry,
		resolver:   registryapi.NewKeyResolver(config.Registry),
		records:    config.Records,
		nonces:     config.Nonces,
		protector:  config.Protector,
		channel:    config.Channel,
		roles:      config.Roles,
		policy:     config.Policy,
		validator:  config.Validator,
		locker:     config.Locker,
		metrics:    config.Metrics,
		now:        config.Clock,
	}

	if s.metrics == nil {
		s.metrics = noop.GetMetrics()
	}

	channel := envelope.NewChannel(envelope.WithMetrics(s.metrics))

	if s.channel == nil {
		s.channel = channel
	}

	if s.protector == nil {
		s.protector = dataprotect.NewDataProtector(channel, s.keyManager, nil)
	}

	if s.nonces == nil {
		s.nonces = memstore.NewNonceStore(0)
	}

	if s.roles == nil {
		s.roles = role.NewResolver(config.Registry, config.RootAuthority)
	}

	if s.policy == nil {
		s.policy = disclosure.DefaultPolicy()
	}

	if s.validator == nil {
		s.validator = record.DefaultValidator()
	}

	if s.locker == nil {
		s.locker = locker.NoopLocker{}
	}

	if s.now == nil {
		s.now = time.Now
	}

	return s, nil
}

// Identity returns the custodian identifier and public key.
func (s *Service) Identity() (*Identity, error) {
	mb, err := multikey.Encode(s.keyManager.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("encode custodian key: %w", err)
	}

	pemKey, err := kms.EncodePublicKeyPEM(s.keyManager.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("encode custodian key: %w", err)
	}

	return &Identity{
		DID:                s.keyManager.DID(),
		PublicKeyMultibase: mb,
		PublicKeyPEM:       pemKey,
	}, nil
}

// WriteRecord accepts a record write sealed to the custodian. An OEM may create a record that does not
// exist yet; the BMS the record belongs to may patch it. Every other sender is refused.
func (s *Service) WriteRecord(ctx context.Context, id string, env *envelope.Envelope) (*WriteResult, error) {
	const op = "write record"

	res, err := s.writeRecord(ctx, id, env)
	if err != nil {
		return nil, s.reject(op, id, err)
	}

	logger.Info("record written", log.WithRecordID(id), log.WithRole(string(res.Role)))

	return res, nil
}

func (s *Service) writeRecord(ctx context.Context, id string, env *envelope.Envelope) (*WriteResult, error) {
	if err := checkRecordID(id); err != nil {
		return nil, err
	}

	plaintext, sender, err := s.open(ctx, env)
	if err != nil {
		return nil, err
	}

	r, err := s.roles.Determine(ctx, id, sender)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	switch r {
	case role.OEM:
		return &WriteResult{Role: r, Created: true}, s.create(ctx, id, plaintext)
	case role.BMS:
		return &WriteResult{Role: r}, s.update(ctx, id, plaintext)
	default:
		return nil, trusterr.Newf(trusterr.UnauthorizedRole, "write record", "%s may not write %s", sender, id)
	}
}

func (s *Service) create(ctx context.Context, id string, plaintext []byte) error {
	rec, err := record.Parse(plaintext)
	if err != nil {
		return err
	}

	if err = s.validator.Validate(rec); err != nil {
		return err
	}

	data, err := s.seal(ctx, rec)
	if err != nil {
		return err
	}

	return s.records.Create(ctx, id, data)
}

func (s *Service) update(ctx context.Context, id string, plaintext []byte) error {
	patches, err := record.ParsePatches(plaintext)
	if err != nil {
		return err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	updated, err := record.Apply(current, patches)
	if err != nil {
		return err
	}

	if err = s.validator.Validate(updated); err != nil {
		return err
	}

	data, err := s.seal(ctx, updated)
	if err != nil {
		return err
	}

	return s.records.Update(ctx, id, data)
}

// ReadRecord returns the record of id filtered to the scope of the caller. A nil envelope reads the
// public scope in the clear. An authenticated read is answered with the filtered record sealed to the
// requester. The caller is authorized before the record is loaded.
func (s *Service) ReadRecord(ctx context.Context, id string, env *envelope.Envelope) (*ReadResult, error) {
	const op = "read record"

	res, err := s.readRecord(ctx, id, env)
	if err != nil {
		return nil, s.reject(op, id, err)
	}

	s.metrics.RecordAccess(string(res.Scope))
	logger.Debug("record read", log.WithRecordID(id), log.WithScope(string(res.Scope)))

	return res, nil
}

func (s *Service) readRecord(ctx context.Context, id string, env *envelope.Envelope) (*ReadResult, error) {
	if err := checkRecordID(id); err != nil {
		return nil, err
	}

	scope := disclosure.Public

	var sender string

	if env != nil {
		plaintext, from, err := s.open(ctx, env)
		if err != nil {
			return nil, err
		}

		if scope, err = s.authorizeRead(ctx, id, from, plaintext); err != nil {
			return nil, err
		}

		sender = from
	}

	rec, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	filtered, err := disclosure.Filter(scope, s.policy, rec)
	if err != nil {
		return nil, err
	}

	if sender == "" {
		return &ReadResult{Scope: scope, Record: filtered}, nil
	}

	sealed, err := s.sealTo(ctx, sender, filtered)
	if err != nil {
		return nil, err
	}

	return &ReadResult{Scope: scope, Envelope: sealed}, nil
}

// sealTo encrypts rec to the signing key sender is registered with.
func (s *Service) sealTo(ctx context.Context, sender string, rec record.Record) (*envelope.Envelope, error) {
	key, err := s.resolver.ResolveSenderKey(ctx, sender)
	if err != nil {
		if trusterr.KindOf(err) == trusterr.Unavailable {
			return nil, err
		}

		return nil, trusterr.New(trusterr.InvalidSender, "seal response", err)
	}

	raw, err := rec.Bytes()
	if err != nil {
		return nil, err
	}

	env, err := s.channel.Seal(s.keyManager, key, raw)
	if err != nil {
		return nil, fmt.Errorf("seal response: %w", err)
	}

	return env, nil
}

func (s *Service) authorizeRead(ctx context.Context, id, sender string, plaintext []byte) (disclosure.Scope, error) {
	if isPresentation(plaintext) {
		granted, err := s.checkPresentation(ctx, id, sender, plaintext)
		if err != nil {
			return "", err
		}

		if granted {
			return disclosure.LegitimateInterest, nil
		}
	}

	r, err := s.roles.Determine(ctx, id, sender)
	if err != nil {
		return "", err
	}

	if r == role.BMS {
		return disclosure.Full, nil
	}

	return "", trusterr.Newf(trusterr.UnauthorizedRole, "read record", "%s may not read %s", sender, id)
}

// checkPresentation reports whether the presentation carries a usable read grant for id. Only registry
// outages are returned as errors; any other failure means no grant.
func (s *Service) checkPresentation(ctx context.Context, id, sender string, raw []byte) (bool, error) {
	vp := &vc.Presentation{}

	if err := json.Unmarshal(raw, vp); err != nil {
		logger.Debug("undecodable presentation", log.WithSender(sender), log.WithError(err))

		return false, nil
	}

	err := s.verifyPresentation(ctx, id, sender, vp)
	if err == nil {
		return true, nil
	}

	if trusterr.KindOf(err) == trusterr.Unavailable {
		return false, err
	}

	logger.Debug("presentation grants nothing", log.WithSender(sender), log.WithRecordID(id), log.WithError(err))

	return false, nil
}

func (s *Service) verifyPresentation(ctx context.Context, id, sender string, vp *vc.Presentation) error {
	const op = "verify presentation"

	if err := vp.Validate(); err != nil {
		return err
	}

	if vp.Holder != sender {
		return trusterr.Newf(trusterr.InvalidSender, op, "presentation held by %s sent by %s", vp.Holder, sender)
	}

	holder, err := registryapi.ResolveActive(ctx, s.registry, vp.Holder)
	if err != nil {
		return err
	}

	holderKey, err := holder.SigningKey()
	if err != nil {
		return trusterr.New(trusterr.InvalidSender, op, err)
	}

	if err = proof.Verify(vp, holderKey); err != nil {
		return err
	}

	grant, err := s.findGrant(ctx, id, vp)
	if err != nil {
		return err
	}

	issuer, err := registryapi.ResolveActive(ctx, s.registry, grant.Issuer)
	if err != nil {
		return err
	}

	issuerKey, err := issuer.SigningKey()
	if err != nil {
		return trusterr.New(trusterr.InvalidSender, op, err)
	}

	if err = proof.Verify(grant, issuerKey); err != nil {
		return err
	}

	return s.registry.VerifyPresentation(ctx, vp)
}

// findGrant returns the first active ServiceAccess credential granting read on id, issued by the BMS
// itself or by its controller.
func (s *Service) findGrant(ctx context.Context, id string, vp *vc.Presentation) (*vc.Credential, error) {
	const op = "find grant"

	now := s.now()

	var candidates []*vc.Credential

	for _, c := range vp.VerifiableCredential {
		if c.Grants(vc.AccessRead, id) && c.CheckActive(now) == nil {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return nil, trusterr.Newf(trusterr.UnauthorizedRole, op, "no active read grant for %s", id)
	}

	var controller string

	for _, c := range candidates {
		if c.Issuer == id {
			return c, nil
		}

		if controller == "" {
			doc, err := registryapi.ResolveActive(ctx, s.registry, id)
			if err != nil {
				return nil, err
			}

			controller = doc.Controller
		}

		if c.Issuer == controller {
			return c, nil
		}
	}

	return nil, trusterr.Newf(trusterr.UnauthorizedRole, op, "no grant for %s from an authorized issuer", id)
}

// DeleteRecord removes the record of id. Only an OEM may delete.
func (s *Service) DeleteRecord(ctx context.Context, id string, env *envelope.Envelope) error {
	const op = "delete record"

	if err := s.deleteRecord(ctx, id, env); err != nil {
		return s.reject(op, id, err)
	}

	logger.Info("record deleted", log.WithRecordID(id))

	return nil
}

func (s *Service) deleteRecord(ctx context.Context, id string, env *envelope.Envelope) error {
	if err := checkRecordID(id); err != nil {
		return err
	}

	_, sender, err := s.open(ctx, env)
	if err != nil {
		return err
	}

	r, err := s.roles.Determine(ctx, id, sender)
	if err != nil {
		return err
	}

	if r != role.OEM {
		return trusterr.Newf(trusterr.UnauthorizedRole, "delete record", "%s may not delete %s", sender, id)
	}

	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return s.records.Delete(ctx, id)
}

// open authenticates and decrypts env and consumes its signed content so that it cannot be replayed.
func (s *Service) open(ctx context.Context, env *envelope.Envelope) ([]byte, string, error) {
	if env == nil {
		return nil, "", trusterr.Newf(trusterr.MalformedInput, "open request", "missing envelope")
	}

	plaintext, err := s.channel.Open(ctx, s.keyManager, env, s.resolver)
	if err != nil {
		return nil, "", err
	}

	key, err := replayKey(env)
	if err != nil {
		return nil, "", trusterr.New(trusterr.MalformedInput, "open request", err)
	}

	if err = s.nonces.CheckAndStore(ctx, key); err != nil {
		return nil, "", err
	}

	return plaintext, env.DID, nil
}

func (s *Service) load(ctx context.Context, id string) (record.Record, error) {
	data, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.protector.Decrypt(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("unseal record %s: %w", id, err)
	}

	return record.Parse(raw)
}

func (s *Service) seal(ctx context.Context, rec record.Record) (*dataprotect.EncryptedData, error) {
	raw, err := rec.Bytes()
	if err != nil {
		return nil, err
	}

	return s.protector.Encrypt(ctx, raw)
}

func (s *Service) lock(ctx context.Context, id string) (func(), error) {
	m := s.locker.NewMutex(id)

	if err := m.LockContext(ctx); err != nil {
		return nil, err
	}

	return func() {
		if _, err := m.Unlock(); err != nil {
			logger.Warn("unlock record", log.WithRecordID(id), log.WithError(err))
		}
	}, nil
}

func (s *Service) reject(op, id string, err error) error {
	kind := trusterr.KindOf(err)

	s.metrics.RequestRejected(string(kind))

	logger.Debug("request rejected", log.WithRecordID(id), log.WithKind(string(kind)), log.WithError(err))

	return fmt.Errorf("%s: %w", op, err)
}

func checkRecordID(id string) error {
	parsed, err := did.Parse(id)
	if err != nil || parsed.Role != did.RoleBMS {
		return trusterr.Newf(trusterr.MalformedInput, "check record id", "%q is not a BMS identifier", id)
	}

	return nil
}

// isPresentation sniffs the payload type without decoding it.
func isPresentation(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}

	found := false

	gjson.GetBytes(raw, "type").ForEach(func(_, value gjson.Result) bool {
		found = value.String() == vc.TypeVerifiablePresentation

		return !found
	})

	return found
}

// replayKey hashes the signed content rather than the signature. ECDSA signatures are malleable,
// so (r, N-s) is a second valid signature over the same envelope.
func replayKey(env *envelope.Envelope) (string, error) {
	raw, err := env.SigningInput()
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)

	return hex.EncodeToString(sum[:]), nil
}
