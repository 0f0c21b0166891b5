package pbd

import (
	"runtime"
	"sync"
)

// Chunk floor for ParallelFor callers in this package. Small scenes run
// inline; goroutine fan-out only pays off past a few hundred particles.
const parallelMinChunk = 256

// ParallelFor splits [0, n) into contiguous chunks across workers and
// blocks until all of them return. Ranges at or below minChunk run inline
// on the calling goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
