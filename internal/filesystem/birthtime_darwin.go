//go:build darwin

package filesystem

import (
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of path from stat(2).
func BirthTime(path string) (t time.Time, ok bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	return time.Unix(st.Birthtimespec.Unix()), true
}
