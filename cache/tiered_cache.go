package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/txdecoder/utils"
)

// TieredCache combines a local in-memory cache with an optional remote cache.
// Values read from the remote tier are copied into the local tier.
type TieredCache struct {
	localCache  *freecache.Cache
	remoteCache RemoteCache
	logger      logrus.FieldLogger
}

type cachedValue struct {
	Version uint64          `json:"i"`
	Timeout uint64          `json:"t"`
	Value   json.RawMessage `json:"v"`
}

var CacheMissError error = errors.New("cache miss")

type RemoteCache interface {
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewTieredCache creates a cache with a local tier of cacheSize megabytes.
// The redis tier is only used when redisAddress is set.
func NewTieredCache(ctx context.Context, logger logrus.FieldLogger, cacheSize int, redisAddress string, redisPrefix string) (*TieredCache, error) {
	var remoteCache RemoteCache
	if redisAddress != "" {
		redisCtx, cancel := context.WithTimeout(ctx, time.Second*30)
		defer cancel()

		redisCache, err := InitRedisCache(redisCtx, redisAddress, redisPrefix)
		if err != nil {
			logger.WithError(err).Errorf("error initializing remote redis cache. address: %v", redisAddress)
			return nil, err
		}
		remoteCache = redisCache
	}

	return newTieredCache(logger, cacheSize, remoteCache), nil
}

func newTieredCache(logger logrus.FieldLogger, cacheSize int, remoteCache RemoteCache) *TieredCache {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	return &TieredCache{
		localCache:  freecache.NewCache(cacheSize * 1024 * 1024),
		remoteCache: remoteCache,
		logger:      logger,
	}
}

// Set stores value as json under key. A zero expiration never expires.
func (cache *TieredCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	valueJson, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheValue := cachedValue{
		Version: 1,
		Value:   valueJson,
	}
	if expiration > 0 {
		cacheValue.Timeout = uint64(time.Now().Add(expiration).Unix())
	}

	valueMarshal, err := json.Marshal(cacheValue)
	if err != nil {
		return err
	}

	if err := cache.localCache.Set([]byte(key), valueMarshal, int(expiration.Seconds())); err != nil {
		cache.logger.WithError(err).Debugf("value for %v not stored in local cache", key)
	}
	if cache.remoteCache != nil {
		return cache.remoteCache.SetBytes(ctx, key, valueMarshal, expiration)
	}
	return nil
}

// Get loads the value stored under key into returnValue.
// CacheMissError is returned if neither tier holds the key.
func (cache *TieredCache) Get(ctx context.Context, key string, returnValue any) error {
	cacheValue := &cachedValue{}

	// try to retrieve the key from the local cache
	wanted, err := cache.localCache.Get([]byte(key))
	if err == nil {
		err = json.Unmarshal(wanted, cacheValue)
		if err == nil {
			err = json.Unmarshal(cacheValue.Value, returnValue)
		}
		if err != nil {
			utils.LogError(err, "error unmarshalling data for key", 0, map[string]interface{}{"key": key})
			cache.localCache.Del([]byte(key))
			return err
		}
		return nil
	}

	if cache.remoteCache == nil {
		return CacheMissError
	}

	// retrieve the key from the remote cache
	remoteValue, err := cache.remoteCache.GetBytes(ctx, key)
	if err != nil {
		return err
	}

	err = json.Unmarshal(remoteValue, cacheValue)
	if err == nil {
		err = json.Unmarshal(cacheValue.Value, returnValue)
	}
	if err != nil {
		utils.LogError(err, "error unmarshalling remote data for key", 0, map[string]interface{}{"key": key})
		if delErr := cache.remoteCache.Delete(ctx, key); delErr != nil {
			cache.logger.WithError(delErr).Warnf("failed deleting broken remote cache entry %v", key)
		}
		return err
	}

	now := uint64(time.Now().Unix())
	if cacheValue.Timeout == 0 || cacheValue.Timeout > now+2 {
		var timeout uint64
		if cacheValue.Timeout != 0 {
			timeout = cacheValue.Timeout - now
		}
		if err := cache.localCache.Set([]byte(key), remoteValue, int(timeout)); err != nil {
			cache.logger.WithError(err).Debugf("value for %v not copied to local cache", key)
		}
	}
	return nil
}

// LocalEntryCount returns the number of entries in the local tier.
func (cache *TieredCache) LocalEntryCount() int64 {
	return cache.localCache.EntryCount()
}
