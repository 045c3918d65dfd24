/*
Package filesystem provides resilient filesystem operations for the album
root, with automatic retry logic for NFS stale file handle errors.

# Purpose

Album trees are often served from network mounts. This package wraps os.Stat,
os.Open, directory listing and os.ReadFile with retry logic for ESTALE (errno 116),
which shows up when NFS-mounted files are accessed during network issues or
server-side changes. It also exposes BirthTime, the creation timestamp used
to order albums.

# Usage

	entries, err := filesystem.ReadDirWithRetry("/photos", filesystem.DefaultRetryConfig())
	data, err := filesystem.ReadFileWithRetry("/photos/vacation/beach.jpg", filesystem.DefaultRetryConfig())

	if created, ok := filesystem.BirthTime("/photos/vacation"); ok {
		// ...
	}

# Retry Behavior

Defaults are 3 retries with exponential backoff from 50ms capped at 500ms.
Only ESTALE triggers retries; every other error is returned immediately and
unchanged, so callers can still match it with errors.Is(err, fs.ErrNotExist).

# Birth Time

On Linux the birth time comes from statx(2) with STATX_BTIME, on macOS from
stat(2). Filesystems that do not record it (and other platforms) report
ok == false, and callers substitute their own default.

# Metrics

Operations report to the Observer registered with SetObserver. The metrics
package provides the Prometheus implementation.
*/
package filesystem
