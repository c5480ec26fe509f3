/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package locker_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/batterypass/pkg/locker"
	"github.com/trustbloc/batterypass/pkg/trusterr"
)

func TestKeyedMutex_LockAndUnlock(t *testing.T) {
	km := locker.NewKeyedMutex()

	key := "did:batterypass:bms.sn-1"
	mutex := km.NewMutex(key)

	ctx := context.Background()
	require.NoError(t, mutex.LockContext(ctx))

	acquired := make(chan time.Time, 1)

	go func() {
		mutex2 := km.NewMutex(key)

		assert.NoError(t, mutex2.LockContext(context.TODO()))
		acquired <- time.Now()

		_, _ = mutex2.Unlock()
	}()

	time.Sleep(200 * time.Millisecond)
	unlockTime := time.Now()

	ok, err := mutex.Unlock()
	assert.True(t, ok)
	assert.NoError(t, err)

	select {
	case at := <-acquired:
		assert.True(t, at.After(unlockTime))
	case <-time.After(5 * time.Second):
		t.Fatal("second lock was never acquired")
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := locker.NewKeyedMutex()
	ctx := context.Background()

	m1 := km.NewMutex("a")
	m2 := km.NewMutex("b")

	require.NoError(t, m1.LockContext(ctx))
	require.NoError(t, m2.LockContext(ctx))
	require.Equal(t, 2, km.Size())

	_, _ = m1.Unlock()
	_, _ = m2.Unlock()
	require.Zero(t, km.Size())
}

func TestKeyedMutex_ContextDone(t *testing.T) {
	km := locker.NewKeyedMutex()

	holder := km.NewMutex("a")
	require.NoError(t, holder.LockContext(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	waiter := km.NewMutex("a")
	err := waiter.LockContext(ctx)
	require.ErrorIs(t, err, trusterr.ErrUnavailable)

	ok, err := waiter.Unlock()
	require.NoError(t, err)
	require.False(t, ok)

	_, _ = holder.Unlock()
	require.Zero(t, km.Size())
}

func TestKeyedMutex_Serializes(t *testing.T) {
	km := locker.NewKeyedMutex()

	var (
		wg      sync.WaitGroup
		inside  int32
		counter int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			m := km.NewMutex("record")
			assert.NoError(t, m.LockContext(context.Background()))

			assert.Equal(t, int32(1), atomic.AddInt32(&inside, 1))
			counter++
			atomic.AddInt32(&inside, -1)

			_, _ = m.Unlock()
		}()
	}

	wg.Wait()

	require.Equal(t, 50, counter)
	require.Zero(t, km.Size())
}

func TestNoopLocker(t *testing.T) {
	m := locker.NoopLocker{}.NewMutex("a")

	require.NoError(t, m.LockContext(context.Background()))
	require.NoError(t, locker.NoopLocker{}.NewMutex("a").LockContext(context.Background()))

	ok, err := m.Unlock()
	require.NoError(t, err)
	require.True(t, ok)
}
