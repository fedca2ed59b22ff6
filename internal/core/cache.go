package core

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// datasetCache memoizes parsed uploads by format and content hash.
// Cached datasets are shared between requests and must not be mutated.
type datasetCache struct {
	lru *lru.Cache[string, *Dataset]
}

// newDatasetCache returns nil when size is not positive, which disables
// caching.
func newDatasetCache(size int) (*datasetCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, *Dataset](size)
	if err != nil {
		return nil, err
	}
	return &datasetCache{lru: c}, nil
}

func datasetKey(format string, data []byte) string {
	sum := sha256.Sum256(data)
	return format + ":" + hex.EncodeToString(sum[:])
}

func (c *datasetCache) get(key string) (*Dataset, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *datasetCache) add(key string, ds *Dataset) {
	if c == nil {
		return
	}
	c.lru.Add(key, ds)
}

func (c *datasetCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
