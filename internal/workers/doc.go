/*
Package workers sizes the bounded pools used by the gallery.

Decoding and resizing a photo is CPU-bound, so the number of transforms
allowed to run at once follows the number of CPUs the process may use.
Reading image headers for album listings is I/O-bound and gets twice as
many workers.

	sem := semaphore.NewWeighted(int64(workers.ForCPU(0)))
	g.SetLimit(workers.ForIO(16))

# Containers

runtime.NumCPU reports the host's CPUs. GOMAXPROCS is set from the
container CPU limit, so a pod limited to 2 cores on a 64-core node gets 2
transform workers rather than 64.

# Environment Variable Override

TRANSFORM_WORKERS pins the CPU-bound count:

	TRANSFORM_WORKERS=4 ./photo-gallery

Invalid or non-positive values are ignored. The limit passed to ForCPU
still applies to the override.
*/
package workers
