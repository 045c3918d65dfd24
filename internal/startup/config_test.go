package startup

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"photo-gallery/internal/media"
	"photo-gallery/internal/memory"
	"photo-gallery/internal/workers"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ALBUM_DIR", "PORT", "METRICS_PORT", "METRICS_ENABLED", "LISTING_DIMENSIONS",
		"RESIZE_DIVISOR", "JPEG_QUALITY", "VIPS_ENABLED", workers.OverrideEnv,
		"LOG_STATIC_FILES", "LOG_HEALTH_CHECKS",
		"MEMORY_LIMIT", "MEMORY_RATIO", "GOMEMLIMIT", "MEMORY_MAX_WAIT",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	got := configFromEnv()
	want := &Config{
		AlbumDir:          "/photos",
		Port:              "3001",
		MetricsPort:       "9090",
		MetricsEnabled:    true,
		ListingDimensions: true,
		ResizeDivisor:     3,
		JPEGQuality:       85,
		VipsEnabled:       false,
		TransformWorkers:  runtime.GOMAXPROCS(0),
		LogStaticFiles:    false,
		LogHealthChecks:   true,
		MemoryLimit:       0,
		MemoryRatio:       memory.DefaultHeapRatio,
		GoMemLimitSet:     false,
		MemoryMaxWait:     memory.DefaultMaxWait,
	}
	if *got != *want {
		t.Errorf("configFromEnv() = %+v, want %+v", got, want)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALBUM_DIR", "/srv/albums")
	t.Setenv("PORT", "8080")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LISTING_DIMENSIONS", "0")
	t.Setenv("RESIZE_DIVISOR", "4")
	t.Setenv("JPEG_QUALITY", "70")
	t.Setenv("VIPS_ENABLED", "true")
	t.Setenv(workers.OverrideEnv, "2")

	got := configFromEnv()
	if got.AlbumDir != "/srv/albums" || got.Port != "8080" {
		t.Errorf("paths = %q, %q", got.AlbumDir, got.Port)
	}
	if got.MetricsEnabled || got.ListingDimensions || !got.VipsEnabled {
		t.Errorf("flags = %+v", got)
	}
	if got.ResizeDivisor != 4 || got.JPEGQuality != 70 || got.TransformWorkers != 2 {
		t.Errorf("numbers = %d, %d, %d", got.ResizeDivisor, got.JPEGQuality, got.TransformWorkers)
	}

	opts := got.EngineOptions()
	if opts != (media.Options{WidthDivisor: 4, Quality: 70, UseVips: true}) {
		t.Errorf("EngineOptions() = %+v", opts)
	}
}

func TestConfigFromEnvMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEMORY_LIMIT", "1073741824")
	t.Setenv("MEMORY_RATIO", "0.5")
	t.Setenv("MEMORY_MAX_WAIT", "10s")

	got := configFromEnv()
	if got.MemoryLimit != 1<<30 || got.MemoryRatio != 0.5 || got.GoMemLimitSet {
		t.Errorf("memory settings = %d, %v, %v", got.MemoryLimit, got.MemoryRatio, got.GoMemLimitSet)
	}
	if mc := got.MonitorConfig(); mc.MaxWait != 10*time.Second || mc.PauseWaterMark != memory.DefaultConfig().PauseWaterMark {
		t.Errorf("MonitorConfig() = %+v", mc)
	}

	t.Setenv("GOMEMLIMIT", "512MiB")
	if !configFromEnv().GoMemLimitSet {
		t.Error("GoMemLimitSet = false with GOMEMLIMIT in the environment")
	}
}

func TestConfigFromEnvInvalidMemory(t *testing.T) {
	clearEnv(t)
	t.Setenv("MEMORY_LIMIT", "lots")
	t.Setenv("MEMORY_RATIO", "1.5")
	t.Setenv("MEMORY_MAX_WAIT", "-1s")

	got := configFromEnv()
	if got.MemoryLimit != 0 {
		t.Errorf("MemoryLimit = %d, want 0", got.MemoryLimit)
	}
	if got.MemoryRatio != memory.DefaultHeapRatio {
		t.Errorf("MemoryRatio = %v, want default", got.MemoryRatio)
	}
	if got.MemoryMaxWait != memory.DefaultMaxWait {
		t.Errorf("MemoryMaxWait = %v, want default", got.MemoryMaxWait)
	}
}

func TestApplyMemoryLimit(t *testing.T) {
	original := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(original) })

	cfg := &Config{MemoryLimit: 1 << 30, MemoryRatio: 0.5}
	limit := cfg.ApplyMemoryLimit()
	if limit.Source != memory.SourceContainer || limit.HeapBytes != 1<<29 {
		t.Errorf("ApplyMemoryLimit() = %+v, want 512 MiB from MEMORY_LIMIT", limit)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 85},
		{"50", 50},
		{"1", 1},
		{"100", 100},
		{"0", 85},
		{"101", 85},
		{"high", 85},
	}
	for _, tt := range tests {
		t.Setenv("TEST_INT", tt.value)
		if got := getEnvInt("TEST_INT", 85, 1, 100); got != tt.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := getEnvBool("TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestLoadConfigResolvesAlbumDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "vacation"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALBUM_DIR", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !filepath.IsAbs(cfg.AlbumDir) {
		t.Errorf("AlbumDir %q is not absolute", cfg.AlbumDir)
	}
}

func TestLoadConfigMissingAlbumDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALBUM_DIR", filepath.Join(t.TempDir(), "missing"))

	if _, err := LoadConfig(); err != nil {
		t.Errorf("LoadConfig() with missing album dir error = %v, want warning only", err)
	}
}

func TestCheckAlbumDir(t *testing.T) {
	dir := t.TempDir()
	if err := checkAlbumDir(dir); err != nil {
		t.Errorf("checkAlbumDir(dir) error = %v", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := checkAlbumDir(file); err == nil {
		t.Error("checkAlbumDir(file) should fail")
	}
	if err := checkAlbumDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("checkAlbumDir(missing) should fail")
	}
}
