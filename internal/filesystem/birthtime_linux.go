//go:build linux

package filesystem

import (
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of path as reported by statx(2).
// ok is false when the kernel or the underlying filesystem does not record
// a birth time.
func BirthTime(path string) (t time.Time, ok bool) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
