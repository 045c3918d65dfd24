package memory

import (
	"runtime/debug"
	"testing"
)

// restoreMemoryLimit puts back the process-wide limit after a test that
// lets ApplyLimit change it.
func restoreMemoryLimit(t *testing.T) {
	t.Helper()
	original := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(original) })
}

func TestApplyLimitNone(t *testing.T) {
	restoreMemoryLimit(t)

	limit := ApplyLimit(0, DefaultHeapRatio, false)
	if limit.Active() || limit.Source != SourceNone {
		t.Errorf("ApplyLimit(0) = %+v, want inactive none", limit)
	}
}

func TestApplyLimitContainer(t *testing.T) {
	restoreMemoryLimit(t)

	container := int64(1 << 30)
	limit := ApplyLimit(container, DefaultHeapRatio, false)

	want := int64(float64(container) * DefaultHeapRatio)
	if limit.Source != SourceContainer || limit.HeapBytes != want || limit.ContainerBytes != container {
		t.Fatalf("ApplyLimit() = %+v, want heap %d from %s", limit, want, SourceContainer)
	}
	if got := debug.SetMemoryLimit(-1); got != want {
		t.Errorf("runtime limit = %d, want %d", got, want)
	}
}

func TestApplyLimitRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"custom", 0.5, 0.5},
		{"one", 1.0, 1.0},
		{"zero falls back", 0, DefaultHeapRatio},
		{"too high falls back", 1.5, DefaultHeapRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreMemoryLimit(t)
			container := int64(2000000000)

			limit := ApplyLimit(container, tt.ratio, false)
			if limit.Ratio != tt.want {
				t.Errorf("Ratio = %v, want %v", limit.Ratio, tt.want)
			}
			if want := int64(float64(container) * tt.want); limit.HeapBytes != want {
				t.Errorf("HeapBytes = %d, want %d", limit.HeapBytes, want)
			}
		})
	}
}

func TestApplyLimitExplicitGoMemLimit(t *testing.T) {
	restoreMemoryLimit(t)
	debug.SetMemoryLimit(512 << 20)

	limit := ApplyLimit(1<<30, DefaultHeapRatio, true)
	if limit.Source != SourceGoMemLimit || limit.HeapBytes != 512<<20 {
		t.Errorf("ApplyLimit() = %+v, want GOMEMLIMIT 512 MiB", limit)
	}
	if got := debug.SetMemoryLimit(-1); got != 512<<20 {
		t.Errorf("runtime limit changed to %d", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{1 << 30, "1.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
