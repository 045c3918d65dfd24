package memory

import (
	"math"
	"runtime/debug"
	"strconv"
)

// DefaultHeapRatio is the share of the container limit given to the Go heap.
// The remainder covers libvips allocations and goroutine stacks.
const DefaultHeapRatio = 0.85

// Limit sources reported by ApplyLimit.
const (
	SourceNone       = "none"
	SourceGoMemLimit = "GOMEMLIMIT"
	SourceContainer  = "MEMORY_LIMIT"
)

// Limit describes the soft heap limit the process runs under.
type Limit struct {
	Source         string
	ContainerBytes int64
	Ratio          float64
	HeapBytes      int64
}

// Active reports whether a heap limit is in effect.
func (l Limit) Active() bool {
	return l.HeapBytes > 0
}

// ApplyLimit sets the runtime soft memory limit to ratio of containerBytes.
// When goMemLimitSet is true the runtime has already applied GOMEMLIMIT from
// the environment and that value is reported unchanged. A ratio outside
// (0, 1] falls back to DefaultHeapRatio.
func ApplyLimit(containerBytes int64, ratio float64, goMemLimitSet bool) Limit {
	if goMemLimitSet {
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			return Limit{Source: SourceGoMemLimit, HeapBytes: current}
		}
		return Limit{Source: SourceNone}
	}
	if containerBytes <= 0 {
		return Limit{Source: SourceNone}
	}
	if ratio <= 0 || ratio > 1 {
		ratio = DefaultHeapRatio
	}

	heap := int64(float64(containerBytes) * ratio)
	debug.SetMemoryLimit(heap)

	return Limit{
		Source:         SourceContainer,
		ContainerBytes: containerBytes,
		Ratio:          ratio,
		HeapBytes:      heap,
	}
}

// FormatBytes renders b with binary units, such as "1.5 GiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
