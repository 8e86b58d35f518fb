package sessions

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustAdd[T any](t *testing.T, r *Registry[T], value T) string {
	t.Helper()
	id, err := r.Add(value)
	require.NoError(t, err)
	return id
}

func TestRegistryAddGetDelete(t *testing.T) {
	t.Parallel()

	r := NewRegistry[string](time.Hour)
	id := mustAdd(t, r, "cart")
	require.NotEmpty(t, id)

	value, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "cart", value)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Delete(id))
	assert.False(t, r.Delete(id))
	_, ok = r.Get(id)
	assert.False(t, ok)
}

func TestRegistryExpiresIdleEntries(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	r := NewRegistry[int](time.Minute, WithClock[int](clock.Now))

	idle := mustAdd(t, r, 1)
	active := mustAdd(t, r, 2)

	clock.Advance(40 * time.Second)
	_, ok := r.Get(active)
	require.True(t, ok)

	clock.Advance(40 * time.Second)
	_, ok = r.Get(idle)
	assert.False(t, ok, "idle entry should be expired")

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	_, ok = r.Get(active)
	assert.True(t, ok)
}

func TestRegistryWithoutTTLNeverExpires(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	r := NewRegistry[int](0, WithClock[int](clock.Now))
	id := mustAdd(t, r, 5)
	clock.Advance(24 * 365 * time.Hour)

	_, ok := r.Get(id)
	assert.True(t, ok)
	assert.Equal(t, 0, r.Sweep())
}

func TestRegistryRegeneratesCollidingIDs(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "a", "b"}
	next := 0
	r := NewRegistry[int](time.Hour, WithIDGenerator[int](func() string {
		id := ids[next]
		next++
		return id
	}))

	assert.Equal(t, "a", mustAdd(t, r, 1))
	assert.Equal(t, "b", mustAdd(t, r, 2))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry[string](time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Add(fmt.Sprintf("v%d", i))
			if err != nil {
				t.Errorf("add: %v", err)
				return
			}
			_, _ = r.Get(id)
			r.Sweep()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, r.Len())
}

func TestRegistryLimitRejectsWhenFull(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	r := NewRegistry[int](time.Minute, WithClock[int](clock.Now), WithLimit[int](2))

	mustAdd(t, r, 1)
	mustAdd(t, r, 2)
	_, err := r.Add(3)
	require.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, r.Len())

	clock.Advance(2 * time.Minute)
	id, err := r.Add(4)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, r.Len(), "expired entries are dropped to make room")
}
