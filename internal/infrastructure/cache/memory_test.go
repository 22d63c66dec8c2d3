package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflens/backend/internal/domain"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache()
	t.Cleanup(c.Close)
	return c
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	record := &domain.ProductRecord{ProductName: "Oreo", ParentCompany: "Mondelez"}
	require.NoError(t, c.Set(ctx, "product:oreo:en-US", record, time.Minute))

	value, err := c.Get(ctx, "product:oreo:en-US")
	require.NoError(t, err)

	// Values are JSON-roundtripped, so the stored shape is a plain map
	stored, ok := value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Oreo", stored["productName"])
	assert.Equal(t, "Mondelez", stored["parentCompany"])
}

func TestMemoryCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", 10*time.Millisecond))

	_, err := c.Get(ctx, "key")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = c.Get(ctx, "key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	_, err := c.Get(ctx, "key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Exists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

	exists, err = c.Exists(ctx, "key")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, c.Size())
}

func TestMemoryCache_UnmarshalableValue(t *testing.T) {
	c := newTestCache(t)

	err := c.Set(context.Background(), "key", make(chan int), time.Minute)
	assert.Error(t, err)
}
