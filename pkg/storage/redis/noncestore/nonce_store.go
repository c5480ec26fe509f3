/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination nonce_store_mocks_test.go -self_package mocks -package noncestore_test -source=nonce_store.go -mock_names redisAPI=MockRedisAPI

// Package noncestore remembers seen envelope signatures in Redis so that a captured envelope cannot be
// replayed against the custodian.
package noncestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	keyPrefix  = "batterypass_nonce"
	defaultTTL = 24 * time.Hour
)

type redisAPI interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Store is a redis backed replay guard.
type Store struct {
	api redisAPI
	ttl time.Duration
}

// New creates Store. A non-positive ttl selects one day.
func New(api redisAPI, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Store{
		api: api,
		ttl: ttl,
	}
}

// CheckAndStore records nonce and fails with Replayed if it was already seen within the ttl.
func (s *Store) CheckAndStore(ctx context.Context, nonce string) error {
	const op = "check nonce"

	stored, err := s.api.SetNX(ctx, resolveRedisKey(nonce), time.Now().UTC().Unix(), s.ttl).Result()
	if err != nil {
		return trusterr.New(trusterr.Unavailable, op, fmt.Errorf("redis setnx: %w", err))
	}

	if !stored {
		return trusterr.Newf(trusterr.Replayed, op, "nonce %s already used", nonce)
	}

	return nil
}

func resolveRedisKey(id string) string {
	return fmt.Sprintf("%s-%s", keyPrefix, id)
}
