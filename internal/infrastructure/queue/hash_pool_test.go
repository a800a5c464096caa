package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/talentflow/auth-service/internal/infrastructure/security"
)

// countingHasher tracks how many calls run at the same time.
type countingHasher struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	delay   time.Duration
	err     error
}

func (h *countingHasher) enter() func() {
	n := h.active.Add(1)
	for {
		seen := h.maxSeen.Load()
		if n <= seen || h.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(h.delay)
	return func() { h.active.Add(-1) }
}

func (h *countingHasher) Hash(password string) (string, error) {
	defer h.enter()()
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h *countingHasher) Verify(password, hash string) bool {
	defer h.enter()()
	return hash == "hashed:"+password
}

func TestHashPool_DelegatesToHasher(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewHashPool(security.NewBcryptHasher(bcrypt.MinCost), 2, zerolog.Nop())
	pool.Start(ctx)

	hash, err := pool.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, pool.Verify("Secret123", hash))
	assert.False(t, pool.Verify("wrong", hash))

	cancel()
	pool.Wait()
}

func TestHashPool_BoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	hasher := &countingHasher{delay: 5 * time.Millisecond}
	pool := NewHashPool(hasher, 3, zerolog.Nop())
	pool.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Hash("pw")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, hasher.maxSeen.Load(), int32(3))

	cancel()
	pool.Wait()
}

func TestHashPool_PropagatesHashErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	pool := NewHashPool(&countingHasher{err: boom}, 1, zerolog.Nop())
	pool.Start(ctx)

	_, err := pool.Hash("pw")
	assert.ErrorIs(t, err, boom)

	cancel()
	pool.Wait()
}

func TestHashPool_ClosedAfterCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewHashPool(&countingHasher{}, 1, zerolog.Nop())
	pool.Start(ctx)
	cancel()
	pool.Wait()

	_, err := pool.Hash("pw")
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.True(t, pool.Verify("pw", "hashed:pw"), "verify falls back to the wrapped hasher")
	assert.False(t, pool.Verify("other", "hashed:pw"))
}

func TestNewHashPool_DefaultWorkers(t *testing.T) {
	pool := NewHashPool(&countingHasher{}, 0, zerolog.Nop())
	assert.Equal(t, defaultWorkers, pool.workers)
}
