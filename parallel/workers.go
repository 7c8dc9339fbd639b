package parallel

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Workers is the default concurrency for CPU-bound loops: the logical core
// count reported by the CPU, or runtime.NumCPU when cpuid cannot tell.
func Workers() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
