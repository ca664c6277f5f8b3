package editlock

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/glossary-backend/internal/domain"
)

var epoch = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func TestAcquire_ContentionAndExpiry(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, 0)
	require.Equal(t, DefaultTTL, r.TTL())

	lock, err := r.Acquire("ברז", "u1")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(30*time.Minute), lock.ExpiresAt)

	_, err = r.Acquire("ברז", "u2")
	require.ErrorIs(t, err, domain.ErrAlreadyLocked)
	var locked *domain.LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, "u1", locked.Holder)

	clock.Advance(31 * time.Minute)

	lock, err = r.Acquire("ברז", "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", lock.Holder)
}

func TestAcquire_SameHolderWhileHeld(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, 10*time.Minute)

	first, err := r.Acquire("ברז", "u1")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	_, err = r.Acquire("ברז", "u1")
	require.ErrorIs(t, err, domain.ErrAlreadyLocked)
	var locked *domain.LockedError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, "u1", locked.Holder)
	assert.Equal(t, first.ExpiresAt, locked.ExpiresAt, "held lock is not refreshed")

	clock.Advance(10 * time.Minute)

	lock, err := r.Acquire("ברז", "u1")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(21*time.Minute), lock.ExpiresAt)
}

func TestRelease(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, time.Minute)

	_, err := r.Acquire("ברז", "u1")
	require.NoError(t, err)

	assert.False(t, r.Release("ברז", "u2"), "non-holder cannot release")
	assert.False(t, r.Release("missing", "u1"))
	_, held := r.Holder("ברז")
	assert.True(t, held)

	assert.True(t, r.Release("ברז", "u1"))
	_, held = r.Holder("ברז")
	assert.False(t, held)

	_, err = r.Acquire("ברז", "u1")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	assert.False(t, r.Release("ברז", "u1"), "expired lock is inert")
}

func TestActiveAndAll(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	r := New(clock, time.Minute)

	_, _ = r.Acquire("a", "u1")
	clock.Advance(2 * time.Minute)
	_, _ = r.Acquire("b", "u2")

	active := r.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].TermID)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].TermID)
	assert.True(t, all[0].ExpiredAt(clock.Now()))
}

func TestAcquire_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()

	r := New(clockwork.NewFakeClockAt(epoch), 0)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Acquire("ברז", string(rune('a'+i))); err == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
