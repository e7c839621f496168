// Package parallel provides fork-join helpers used by batch verification.
package parallel

import (
	"runtime"
	"sync"
)

// Execute processes the half-open range [iStart, iEnd) in parallel, calling
// work with contiguous sub-ranges. It blocks until every sub-range is done.
// Workers write only to their own indices, so callers that fill an output
// slice by index preserve insertion order.
func Execute(iStart, iEnd int, work func(int, int), nbTasks ...int) {
	<-ExecuteAsync(iStart, iEnd, work, nbTasks...)
}

// ExecuteAsync is Execute returning a channel that is notified once all the
// work is done.
func ExecuteAsync(iStart, iEnd int, work func(int, int), nbTasks ...int) chan struct{} {
	nbWorkers := runtime.NumCPU()
	if len(nbTasks) > 0 && nbTasks[0] > 0 {
		nbWorkers = nbTasks[0]
	}

	nbIterations := iEnd - iStart // iEnd is not included
	nbIterationsPerWorker := nbIterations / nbWorkers

	// more workers than iterations: one iteration per worker
	if nbIterationsPerWorker < 1 {
		nbIterationsPerWorker = 1
		nbWorkers = nbIterations
	}

	var wg sync.WaitGroup

	extraTasks := nbIterations - nbWorkers*nbIterationsPerWorker
	extraTasksOffset := 0

	for i := 0; i < nbWorkers; i++ {
		wg.Add(1)
		start := iStart + i*nbIterationsPerWorker + extraTasksOffset
		end := start + nbIterationsPerWorker
		if extraTasks > 0 {
			end++
			extraTasks--
			extraTasksOffset++
		}
		go func() {
			work(start, end)
			wg.Done()
		}()
	}

	chDone := make(chan struct{}, 1)
	go func() {
		wg.Wait()
		chDone <- struct{}{}
	}()
	return chDone
}
