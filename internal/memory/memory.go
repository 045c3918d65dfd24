package memory

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
)

var (
	// ErrStopped is returned by Wait when the monitor is stopped while a
	// caller is blocked.
	ErrStopped = errors.New("memory monitor stopped")
	// ErrPressure is returned by Wait when memory has not recovered within
	// Config.MaxWait.
	ErrPressure = errors.New("memory pressure: transform not started")
)

// DefaultMaxWait bounds how long Wait holds a caller while paused.
const DefaultMaxWait = 30 * time.Second

// Config holds memory management configuration
type Config struct {
	// LimitBytes is the soft memory limit (0 = use GOMEMLIMIT or no limit)
	LimitBytes int64

	// ResumeWaterMark is the fraction of the limit below which paused work resumes.
	ResumeWaterMark float64

	// PauseWaterMark is the fraction of the limit at which new transforms wait.
	PauseWaterMark float64

	// CheckInterval is how often to sample the heap.
	CheckInterval time.Duration

	// MaxWait is the longest Wait blocks before giving up with ErrPressure.
	// Zero or less means DefaultMaxWait.
	MaxWait time.Duration
}

// DefaultConfig returns sensible defaults for memory management
func DefaultConfig() Config {
	return Config{
		ResumeWaterMark: 0.7,
		PauseWaterMark:  0.85,
		CheckInterval:   5 * time.Second,
		MaxWait:         DefaultMaxWait,
	}
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithRetained reports heap bytes the process keeps on purpose, such as
// cached variants. They are left out of the usage figure, so a full cache
// alone never holds transforms back.
func WithRetained(fn func() int64) Option {
	return func(m *Monitor) {
		m.retained = fn
	}
}

// Monitor samples heap usage and holds back new photo transforms while the
// working heap is above the pause water mark. A zero limit disables it.
type Monitor struct {
	config    Config
	limit     int64
	readAlloc func() uint64
	retained  func() int64

	mu       sync.RWMutex
	current  uint64
	paused   bool
	resumed  chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a new memory monitor
func NewMonitor(config Config, opts ...Option) *Monitor {
	if config.MaxWait <= 0 {
		config.MaxWait = DefaultMaxWait
	}

	limit := config.LimitBytes
	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
			logging.Info("Memory monitor using GOMEMLIMIT: %s", FormatBytes(limit))
		}
	}
	if limit == 0 {
		logging.Debug("Memory monitor: no memory limit configured, backpressure disabled")
	}

	m := &Monitor{
		config:    config,
		limit:     limit,
		readAlloc: heapAlloc,
		resumed:   make(chan struct{}),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Start begins sampling in the background.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.loop()
}

// Stop ends sampling and releases any waiters. It is safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stop:
			return
		}
	}
}

// workingSet is the sampled heap less the bytes reported as retained.
func (m *Monitor) workingSet() uint64 {
	alloc := m.readAlloc()
	if m.retained == nil {
		return alloc
	}
	kept := m.retained()
	if kept <= 0 {
		return alloc
	}
	if uint64(kept) >= alloc {
		return 0
	}
	return alloc - uint64(kept)
}

func (m *Monitor) check() {
	alloc := m.workingSet()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = alloc
	if m.limit == 0 {
		return
	}

	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case usage >= m.config.PauseWaterMark && !m.paused:
		logging.Warn("Memory critical (%.1f%% of limit), pausing photo transforms", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case usage < m.config.ResumeWaterMark && m.paused:
		logging.Info("Memory recovered (%.1f%% of limit), resuming photo transforms", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resumed)
		m.resumed = make(chan struct{})
	}
}

// Wait blocks while the monitor is paused. It returns ctx.Err() if the
// context ends first, ErrStopped if the monitor is stopped and ErrPressure
// once Config.MaxWait has passed without a resume.
func (m *Monitor) Wait(ctx context.Context) error {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return nil
	}
	resumed := m.resumed
	m.mu.RUnlock()

	logging.Debug("Photo transform waiting for memory to recover")
	timer := time.NewTimer(m.config.MaxWait)
	defer timer.Stop()

	select {
	case <-resumed:
		return nil
	case <-m.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		metrics.MemoryWaitTimeouts.Inc()
		logging.Warn("Memory still above %.0f%% of limit after %v, refusing transform", m.config.ResumeWaterMark*100, m.config.MaxWait)
		return ErrPressure
	}
}

// IsPaused returns true if new transforms are being held back.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled working heap as a fraction of the limit, or 0
// when no limit is configured.
func (m *Monitor) Usage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}

// Limit returns the limit in bytes the monitor compares against.
func (m *Monitor) Limit() int64 {
	return m.limit
}
