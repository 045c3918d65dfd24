//go:build !linux && !darwin

package filesystem

import "time"

// BirthTime is not supported on this platform.
func BirthTime(_ string) (t time.Time, ok bool) {
	return time.Time{}, false
}
