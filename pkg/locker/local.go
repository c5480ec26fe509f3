/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package locker serializes read-modify-write cycles on a single battery record.
package locker

import (
	"context"
	"sync"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

// Lock is a mutex that locks based on a key.
type Lock interface {
	LockContext(ctx context.Context) error
	Unlock() (bool, error)
}

// Locker hands out per-key locks.
type Locker interface {
	NewMutex(key string) Lock
}

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyedMutexLocker is a mutex locker that locks based on a key. Entries are released once no caller
// holds or waits for them.
type KeyedMutexLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyedMutex creates a new mutex locker.
func NewKeyedMutex() *KeyedMutexLocker {
	return &KeyedMutexLocker{
		entries: make(map[string]*entry),
	}
}

// NewMutex creates a new mutex for key.
func (k *KeyedMutexLocker) NewMutex(key string) Lock {
	return &KeyedMutex{locker: k, key: key}
}

func (k *KeyedMutexLocker) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}

	e.refs++

	return e
}

func (k *KeyedMutexLocker) release(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--

	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// Size returns the number of keys currently held or awaited.
func (k *KeyedMutexLocker) Size() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.entries)
}

// KeyedMutex is a mutex that locks based on a key.
type KeyedMutex struct {
	locker *KeyedMutexLocker
	key    string
	held   *entry
}

// LockContext blocks until the key is free or ctx is done.
func (m *KeyedMutex) LockContext(ctx context.Context) error {
	e := m.locker.acquire(m.key)

	select {
	case e.ch <- struct{}{}:
		m.held = e

		return nil
	case <-ctx.Done():
		m.locker.release(m.key, e)

		return trusterr.New(trusterr.Unavailable, "lock record", ctx.Err())
	}
}

// Unlock unlocks the mutex. It reports false when the mutex was not held.
func (m *KeyedMutex) Unlock() (bool, error) {
	e := m.held
	if e == nil {
		return false, nil
	}

	m.held = nil
	<-e.ch

	m.locker.release(m.key, e)

	return true, nil
}

// NoopLocker hands out locks that never block.
type NoopLocker struct{}

func (NoopLocker) NewMutex(string) Lock {
	return noopLock{}
}

type noopLock struct{}

func (noopLock) LockContext(context.Context) error { return nil }

func (noopLock) Unlock() (bool, error) { return true, nil }
