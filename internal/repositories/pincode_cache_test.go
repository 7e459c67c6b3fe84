package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookmyflower/internal/models"
	"bookmyflower/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps values in a map and counts calls.
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	failed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.failed {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// countingPincodeRepo counts store lookups.
type countingPincodeRepo struct {
	*repositories.InMemoryPincodeRepository
	lookups int
}

func (c *countingPincodeRepo) GetByPincode(ctx context.Context, pincode int) (*models.ServiceablePincode, error) {
	c.lookups++
	return c.InMemoryPincodeRepository.GetByPincode(ctx, pincode)
}

func TestCachedPincodeRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := &countingPincodeRepo{InMemoryPincodeRepository: repositories.NewInMemoryPincodeRepository()}
	require.NoError(t, store.Create(ctx, &models.ServiceablePincode{Pincode: 201301, IsActive: true}))

	rdb := newFakeRedis()
	repo := repositories.NewCachedPincodeRepository(store, rdb, time.Minute)

	p, err := repo.GetByPincode(ctx, 201301)
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	p, err = repo.GetByPincode(ctx, 201301)
	require.NoError(t, err)
	assert.Equal(t, 201301, p.Pincode)
	assert.Equal(t, 1, store.lookups, "second lookup should be served from cache")
}

func TestCachedPincodeRepository_NegativeCache(t *testing.T) {
	ctx := context.Background()
	store := &countingPincodeRepo{InMemoryPincodeRepository: repositories.NewInMemoryPincodeRepository()}
	repo := repositories.NewCachedPincodeRepository(store, newFakeRedis(), time.Minute)

	_, err := repo.GetByPincode(ctx, 999999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetByPincode(ctx, 999999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, 1, store.lookups)
}

func TestCachedPincodeRepository_InvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	store := &countingPincodeRepo{InMemoryPincodeRepository: repositories.NewInMemoryPincodeRepository()}
	repo := repositories.NewCachedPincodeRepository(store, newFakeRedis(), time.Minute)

	// Cache a miss, then create the pincode: the miss must not survive.
	_, err := repo.GetByPincode(ctx, 110001)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	p := &models.ServiceablePincode{Pincode: 110001, IsActive: true}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByPincode(ctx, 110001)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	p.IsActive = false
	require.NoError(t, repo.Update(ctx, p))
	got, err = repo.GetByPincode(ctx, 110001)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByPincode(ctx, 110001)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCachedPincodeRepository_FallsThroughOnCacheFailure(t *testing.T) {
	ctx := context.Background()
	store := &countingPincodeRepo{InMemoryPincodeRepository: repositories.NewInMemoryPincodeRepository()}
	require.NoError(t, store.Create(ctx, &models.ServiceablePincode{Pincode: 201301, IsActive: true}))

	rdb := newFakeRedis()
	rdb.failed = true
	repo := repositories.NewCachedPincodeRepository(store, rdb, time.Minute)

	for i := 0; i < 2; i++ {
		p, err := repo.GetByPincode(ctx, 201301)
		require.NoError(t, err)
		assert.True(t, p.IsActive)
	}
	assert.Equal(t, 2, store.lookups)
}
