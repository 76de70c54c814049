package squishyplanet

import (
	"runtime"
	"sync"

	"github.com/h4tt3n/squishy-planet-physics-engine/vect"
)

// below this row count the goroutine fan-out costs more than it saves
const parallelCutoff = 128

// parallelFor splits the dense range [0, n) into one chunk per worker and
// runs fn on each chunk from its own goroutine, blocking until all chunks
// are done. fn must only write to rows inside its own chunk, or to columns
// where concurrent accumulation is accepted (the particle impulse column
// during warm starts).
func parallelFor(n int, fn func(start, end int)) {
	parallelForWorker(n, func(_, start, end int) {
		fn(start, end)
	})
}

// parallelForWorker is parallelFor with the chunk ordinal passed through,
// for phases that write into per-worker scratch buffers.
func parallelForWorker(n int, fn func(worker, start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n < parallelCutoff || workers < 2 {
		if n > 0 {
			fn(0, 0, n)
		}
		return
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	worker := 0
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(worker, start, end)
		worker++
	}
	wg.Wait()
}

// maxWorkers reports how many chunks parallelForWorker can hand out, so
// scratch shards can be sized once up front.
func maxWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// pairReducedMass returns the effective mass of a two body interaction,
// or 0 when both bodies are static.
func pairReducedMass(invMassA, invMassB vect.Float) vect.Float {
	k := invMassA + invMassB
	if k == 0 {
		return 0
	}
	return 1.0 / k
}

// pairKey packs two canonically ordered particle ids into a single
// 64-bit broadphase key. a must be less than b.
func pairKey(a, b int32) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}
