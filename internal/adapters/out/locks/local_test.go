package locks_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/adapters/out/locks"
	"storefront/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalOrderLocker(t *testing.T) {
	t.Run("should serialise holders of the same order", func(t *testing.T) {
		locker := locks.NewLocalOrderLocker()
		id := kernel.NewUUID()

		var (
			inside  atomic.Int32
			maxSeen atomic.Int32
			wg      sync.WaitGroup
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := locker.Acquire(t.Context(), id)
				if !assert.NoError(t, err) {
					return
				}
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				release()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxSeen.Load())
		assert.Zero(t, locker.Held())
	})

	t.Run("should not block different orders", func(t *testing.T) {
		locker := locks.NewLocalOrderLocker()

		releaseA, err := locker.Acquire(t.Context(), kernel.NewUUID())
		require.NoError(t, err)
		defer releaseA()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()
		releaseB, err := locker.Acquire(ctx, kernel.NewUUID())
		require.NoError(t, err)
		releaseB()
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		locker := locks.NewLocalOrderLocker()
		id := kernel.NewUUID()

		release, err := locker.Acquire(t.Context(), id)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		_, err = locker.Acquire(ctx, id)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		release()
		release()
		assert.Zero(t, locker.Held())
	})
}
