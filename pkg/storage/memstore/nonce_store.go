/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package memstore

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/trustbloc/batterypass/pkg/trusterr"
)

const defaultNonceTTL = 24 * time.Hour

type nonceEntry struct {
	nonce  string
	expiry time.Time
}

// expiryQueue is a min-heap of nonces ordered by expiry.
type expiryQueue []nonceEntry

func (q expiryQueue) Len() int           { return len(q) }
func (q expiryQueue) Less(i, j int) bool { return q[i].expiry.Before(q[j].expiry) }
func (q expiryQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *expiryQueue) Push(x interface{}) { *q = append(*q, x.(nonceEntry)) }

func (q *expiryQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]

	return e
}

// NonceStore is an in-memory replay guard. Only expired entries at the head of the expiry queue are
// evicted on insert, so each call costs O(log n) amortized.
type NonceStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	seen   map[string]struct{}
	expiry expiryQueue
}

// NonceOpt configures NonceStore.
type NonceOpt func(s *NonceStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) NonceOpt {
	return func(s *NonceStore) {
		s.now = now
	}
}

// NewNonceStore creates NonceStore. A non-positive ttl selects one day.
func NewNonceStore(ttl time.Duration, opts ...NonceOpt) *NonceStore {
	if ttl <= 0 {
		ttl = defaultNonceTTL
	}

	s := &NonceStore{
		ttl:  ttl,
		now:  time.Now,
		seen: map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CheckAndStore records nonce, or returns Replayed when it was recorded within the ttl.
func (s *NonceStore) CheckAndStore(_ context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for s.expiry.Len() > 0 && !now.Before(s.expiry[0].expiry) {
		e := heap.Pop(&s.expiry).(nonceEntry)
		delete(s.seen, e.nonce)
	}

	if _, ok := s.seen[nonce]; ok {
		return trusterr.Newf(trusterr.Replayed, "check nonce", "nonce %s already used", nonce)
	}

	s.seen[nonce] = struct{}{}
	heap.Push(&s.expiry, nonceEntry{nonce: nonce, expiry: now.Add(s.ttl)})

	return nil
}

// Len returns the number of nonces currently remembered.
func (s *NonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.seen)
}
