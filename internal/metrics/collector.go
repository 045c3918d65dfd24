package metrics

import (
	"runtime"
	"runtime/debug"
	"time"

	"photo-gallery/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	CacheStats() CacheStats
}

// CacheStats is the snapshot of variant cache occupancy the collector exports.
type CacheStats struct {
	Entries int
	Bytes   int64
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	collectRuntime()

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.CacheStats()
	VariantCacheEntries.Set(float64(stats.Entries))
	VariantCacheBytes.Set(float64(stats.Bytes))

	logging.Debug("Metrics collected: variants=%d, bytes=%d", stats.Entries, stats.Bytes)
}

func collectRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	GoMemAllocBytes.Set(float64(ms.Alloc))
	GoMemSysBytes.Set(float64(ms.Sys))

	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < 1<<62 {
		GoMemLimit.Set(float64(limit))
	} else {
		GoMemLimit.Set(0)
	}
}
