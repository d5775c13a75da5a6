package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRemoteCache struct {
	mutex  sync.Mutex
	values map[string][]byte
	gets   int
}

func newMemoryRemoteCache() *memoryRemoteCache {
	return &memoryRemoteCache{values: map[string][]byte{}}
}

func (c *memoryRemoteCache) SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.values[key] = append([]byte{}, value...)
	return nil
}

func (c *memoryRemoteCache) GetBytes(ctx context.Context, key string) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.gets++
	value, ok := c.values[key]
	if !ok {
		return nil, CacheMissError
	}
	return value, nil
}

func (c *memoryRemoteCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.values, key)
	return nil
}

type testEntry struct {
	Name  string
	Value []byte
}

func TestTieredCacheLocal(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cache := newTieredCache(logger, 1, nil)
	ctx := context.Background()

	var missing testEntry
	assert.ErrorIs(t, cache.Get(ctx, "missing", &missing), CacheMissError)

	require.NoError(t, cache.Set(ctx, "key", &testEntry{Name: "abi", Value: []byte(`[]`)}, time.Minute))

	var loaded testEntry
	require.NoError(t, cache.Get(ctx, "key", &loaded))
	assert.Equal(t, "abi", loaded.Name)
	assert.Equal(t, []byte(`[]`), loaded.Value)
}

func TestTieredCacheRemoteFill(t *testing.T) {
	logger, _ := test.NewNullLogger()
	remote := newMemoryRemoteCache()
	ctx := context.Background()

	writer := newTieredCache(logger, 1, remote)
	require.NoError(t, writer.Set(ctx, "shared", "value", time.Hour))

	// a second instance only shares the remote tier
	reader := newTieredCache(logger, 1, remote)

	var value string
	require.NoError(t, reader.Get(ctx, "shared", &value))
	assert.Equal(t, "value", value)
	assert.Equal(t, 1, remote.gets)

	// served from the local tier now
	value = ""
	require.NoError(t, reader.Get(ctx, "shared", &value))
	assert.Equal(t, "value", value)
	assert.Equal(t, 1, remote.gets)
}

func TestTieredCacheBrokenRemoteEntry(t *testing.T) {
	logger, _ := test.NewNullLogger()
	remote := newMemoryRemoteCache()
	remote.values["broken"] = []byte("not json")
	cache := newTieredCache(logger, 1, remote)

	var value string
	assert.Error(t, cache.Get(context.Background(), "broken", &value))
	assert.NotContains(t, remote.values, "broken")
}
