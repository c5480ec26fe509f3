/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package locker

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const (
	redisKeyPrefix      = "batterypass_lock-"
	defaultRedisExpiry  = 30 * time.Second
	defaultRedisRetries = 64
)

// RedisLocker hands out locks shared by every custodian instance connected to the same Redis.
type RedisLocker struct {
	rs      *redsync.Redsync
	expiry  time.Duration
	retries int
}

// RedisOpt configures RedisLocker.
type RedisOpt func(l *RedisLocker)

// WithExpiry bounds how long a lock survives a crashed holder.
func WithExpiry(expiry time.Duration) RedisOpt {
	return func(l *RedisLocker) { l.expiry = expiry }
}

// WithRetries sets how many acquisition attempts are made before giving up.
func WithRetries(retries int) RedisOpt {
	return func(l *RedisLocker) { l.retries = retries }
}

// NewRedisLocker returns a locker backed by client.
func NewRedisLocker(client redis.UniversalClient, opts ...RedisOpt) *RedisLocker {
	l := &RedisLocker{
		rs:      redsync.New(goredis.NewPool(client)),
		expiry:  defaultRedisExpiry,
		retries: defaultRedisRetries,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewMutex creates a new mutex for key.
func (l *RedisLocker) NewMutex(key string) Lock {
	return &redisMutex{
		mutex: l.rs.NewMutex(redisKeyPrefix+key,
			redsync.WithExpiry(l.expiry),
			redsync.WithTries(l.retries),
		),
	}
}

type redisMutex struct {
	mutex *redsync.Mutex
}

func (m *redisMutex) LockContext(ctx context.Context) error {
	if err := m.mutex.LockContext(ctx); err != nil {
		return trusterr.New(trusterr.Unavailable, "lock record", err)
	}

	return nil
}

func (m *redisMutex) Unlock() (bool, error) {
	return m.mutex.Unlock()
}
