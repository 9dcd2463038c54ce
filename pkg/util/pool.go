package util

import "runtime"

// GetOptimalPoolSize returns the worker count for parallel unit conversion.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Per-unit conversion is a pure in-memory transformation, so 2x cores keeps
// workers busy while results are drained; the floor guarantees parallelism
// on small machines and the cap bounds channel buffer memory.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride returns pool size with an optional
// override (>0), used for testing and tuning.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
