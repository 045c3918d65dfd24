package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"photo-gallery/internal/filesystem"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/media"
	"photo-gallery/internal/memory"
	"photo-gallery/internal/workers"
)

// Config holds all application configuration
type Config struct {
	AlbumDir          string
	Port              string
	MetricsPort       string
	MetricsEnabled    bool
	ListingDimensions bool
	ResizeDivisor     int
	JPEGQuality       int
	VipsEnabled       bool
	TransformWorkers  int
	LogStaticFiles    bool
	LogHealthChecks   bool

	// MemoryLimit is the container limit in bytes (0 = none). GoMemLimitSet
	// records that GOMEMLIMIT was given explicitly and takes precedence.
	MemoryLimit   int64
	MemoryRatio   float64
	GoMemLimitSet bool
	MemoryMaxWait time.Duration
}

// EngineOptions returns the transform options described by the config.
func (c *Config) EngineOptions() media.Options {
	return media.Options{
		WidthDivisor: c.ResizeDivisor,
		Quality:      c.JPEGQuality,
		UseVips:      c.VipsEnabled,
	}
}

// ApplyMemoryLimit sets the runtime heap limit from the memory settings.
func (c *Config) ApplyMemoryLimit() memory.Limit {
	return memory.ApplyLimit(c.MemoryLimit, c.MemoryRatio, c.GoMemLimitSet)
}

// MonitorConfig returns the backpressure settings for the memory monitor.
func (c *Config) MonitorConfig() memory.Config {
	cfg := memory.DefaultConfig()
	cfg.MaxWait = c.MemoryMaxWait
	return cfg
}

// configFromEnv reads the environment without side effects beyond
// warnings for invalid values.
func configFromEnv() *Config {
	defaults := media.DefaultOptions()

	return &Config{
		AlbumDir:          getEnv("ALBUM_DIR", "/photos"),
		Port:              getEnv("PORT", "3001"),
		MetricsPort:       getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
		ListingDimensions: getEnvBool("LISTING_DIMENSIONS", true),
		ResizeDivisor:     getEnvInt("RESIZE_DIVISOR", defaults.WidthDivisor, 1, 100),
		JPEGQuality:       getEnvInt("JPEG_QUALITY", defaults.Quality, 1, 100),
		VipsEnabled:       getEnvBool("VIPS_ENABLED", false),
		TransformWorkers:  workers.ForCPU(0),
		LogStaticFiles:    getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:   getEnvBool("LOG_HEALTH_CHECKS", true),
		MemoryLimit:       getEnvInt64("MEMORY_LIMIT", 0),
		MemoryRatio:       getEnvRatio("MEMORY_RATIO", memory.DefaultHeapRatio),
		GoMemLimitSet:     os.Getenv("GOMEMLIMIT") != "",
		MemoryMaxWait:     getEnvDuration("MEMORY_MAX_WAIT", memory.DefaultMaxWait),
	}
}

// LoadConfig prints the startup banner, loads configuration from the
// environment and checks the album directory.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	section("CONFIGURATION")
	config := configFromEnv()

	logging.Info("  ALBUM_DIR:           %s", config.AlbumDir)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_PORT:        %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  LISTING_DIMENSIONS:  %v", config.ListingDimensions)
	logging.Info("  RESIZE_DIVISOR:      %d", config.ResizeDivisor)
	logging.Info("  JPEG_QUALITY:        %d", config.JPEGQuality)
	logging.Info("  VIPS_ENABLED:        %v", config.VipsEnabled)
	logging.Info("  TRANSFORM_WORKERS:   %d", config.TransformWorkers)
	logging.Info("  LOG_STATIC_FILES:    %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())
	logging.Info("  MEMORY_LIMIT:        %s", formatLimit(config.MemoryLimit))
	logging.Info("  MEMORY_RATIO:        %.2f", config.MemoryRatio)
	logging.Info("  MEMORY_MAX_WAIT:     %v", config.MemoryMaxWait)

	logging.Info("")
	section("ALBUM DIRECTORY")

	albumDir, err := filepath.Abs(config.AlbumDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve album directory path: %w", err)
	}
	config.AlbumDir = albumDir
	logging.Info("  Album directory (absolute): %s", albumDir)

	// A missing root is reported per request, so this is only a warning.
	if err := checkAlbumDir(albumDir); err != nil {
		logging.Warn("  Album directory issue: %v", err)
	} else {
		logging.Info("  [OK] Album directory is readable")
	}

	return config, nil
}

func checkAlbumDir(path string) error {
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	entries, err := filesystem.ReadDirWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	if logging.IsDebugEnabled() {
		dirs := 0
		for _, e := range entries {
			if e.IsDir() {
				dirs++
			}
		}
		logging.Debug("    Contents: %d albums, %d other entries (top level)", dirs, len(entries)-dirs)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue, lo, hi int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < lo || parsed > hi {
		logging.Warn("Invalid value for %s: %q (want %d-%d), using default: %d", key, value, lo, hi, defaultValue)
		return defaultValue
	}
	return parsed
}

func formatLimit(b int64) string {
	if b <= 0 {
		return "none"
	}
	return memory.FormatBytes(b)
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid value for %s: %q (want bytes), using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvRatio accepts values in (0, 1].
func getEnvRatio(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 || parsed > 1 {
		logging.Warn("Invalid value for %s: %q (want 0.0-1.0), using default: %.2f", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
