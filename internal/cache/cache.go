package cache

import (
	"sync"
	"sync/atomic"

	"photo-gallery/internal/metrics"

	"golang.org/x/sync/singleflight"
)

// VariantCache stores encoded photo variants keyed by album and photo name.
type VariantCache interface {
	// Get returns the cached variant for key, if any.
	Get(key string) ([]byte, bool)
	// GetOrCompute returns the cached variant for key or runs compute to
	// produce it. Concurrent callers for the same missing key share a single
	// compute call. Failed computations are not stored.
	GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error)
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Entries      int
	Bytes        int64
	Hits         int64
	Misses       int64
	Computations int64
}

// Memory is an unbounded in-process VariantCache. Entries live until the
// process exits.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	bytes   int64

	group singleflight.Group

	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Key builds the cache key for a decoded album and photo name. Decoded
// names never contain a slash, so the key is unique per pair.
func Key(album, photo string) string {
	return album + "/" + photo
}

// Get returns the cached variant for key, if any.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	data, ok := m.entries[key]
	m.mu.RUnlock()
	return data, ok
}

// GetOrCompute implements VariantCache.
func (m *Memory) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error) {
	if data, ok := m.Get(key); ok {
		m.hits.Add(1)
		metrics.VariantCacheHits.Inc()
		return data, nil
	}

	m.misses.Add(1)
	metrics.VariantCacheMisses.Inc()

	v, err, shared := m.group.Do(key, func() (interface{}, error) {
		// Another flight may have stored the key between our Get and Do.
		if data, ok := m.Get(key); ok {
			return data, nil
		}

		m.computations.Add(1)
		data, err := compute()
		if err != nil {
			return nil, err
		}
		m.put(key, data)
		return data, nil
	})
	if shared {
		metrics.VariantCacheSharedWaits.Inc()
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (m *Memory) put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.entries[key]; ok {
		m.bytes -= int64(len(old))
	}
	m.entries[key] = data
	m.bytes += int64(len(data))

	metrics.VariantCacheEntries.Set(float64(len(m.entries)))
	metrics.VariantCacheBytes.Set(float64(m.bytes))
}

// Len returns the number of cached variants.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns current counters.
func (m *Memory) Stats() Stats {
	m.mu.RLock()
	entries, size := len(m.entries), m.bytes
	m.mu.RUnlock()

	return Stats{
		Entries:      entries,
		Bytes:        size,
		Hits:         m.hits.Load(),
		Misses:       m.misses.Load(),
		Computations: m.computations.Load(),
	}
}

// CacheStats implements metrics.StatsProvider.
func (m *Memory) CacheStats() metrics.CacheStats {
	s := m.Stats()
	return metrics.CacheStats{Entries: s.Entries, Bytes: s.Bytes}
}
