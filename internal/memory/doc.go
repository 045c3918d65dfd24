// Package memory keeps photo transforms inside the container's memory
// budget.
//
// Decoding a large photo can allocate hundreds of megabytes, and Go does not
// read the cgroup memory limit on its own. [ApplyLimit] turns the container
// limit into a runtime soft limit, and [Monitor] holds back new transforms
// while the working heap is close to it.
//
// # Limits
//
// The startup package reads MEMORY_LIMIT, MEMORY_RATIO and GOMEMLIMIT and
// passes them in. An explicit GOMEMLIMIT wins; the runtime has already
// applied it. Lower the ratio when libvips is enabled, since its allocations
// are outside the Go heap.
//
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// # Backpressure
//
//	monitor := memory.NewMonitor(memory.DefaultConfig(),
//	    memory.WithRetained(func() int64 { return variants.Stats().Bytes }))
//	monitor.Start()
//	defer monitor.Stop()
//
//	if err := monitor.Wait(ctx); err != nil {
//	    return err
//	}
//	// decode and resize
//
// The monitor pauses at PauseWaterMark of the limit and resumes once usage
// drops below ResumeWaterMark. Usage leaves out retained bytes, so variants
// kept in the cache never hold transforms back on their own. Wait gives up
// with [ErrPressure] after MaxWait. Without a limit the monitor never pauses.
package memory
