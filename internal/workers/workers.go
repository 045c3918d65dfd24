package workers

import (
	"os"
	"runtime"
	"strconv"
)

// OverrideEnv names the environment variable that pins the CPU-bound
// worker count, e.g. the number of concurrent photo transforms.
const OverrideEnv = "TRANSFORM_WORKERS"

// Count returns a worker count of GOMAXPROCS scaled by multiplier, at least
// one and at most limit (0 means no limit). GOMAXPROCS follows the
// container CPU quota, unlike runtime.NumCPU.
func Count(multiplier float64, limit int) int {
	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	return clamp(workers, limit)
}

// ForCPU returns the worker count for CPU-bound work such as decoding and
// resizing images. TRANSFORM_WORKERS overrides the computed value.
func ForCPU(limit int) int {
	if override := os.Getenv(OverrideEnv); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return clamp(count, limit)
		}
	}
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

func clamp(workers, limit int) int {
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}
