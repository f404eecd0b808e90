package flow

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum grid size to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 4096

// workChunk is a half-open range of flat grid indices for one worker.
// Each chunk carries the wait group of the run call that dispatched it,
// so concurrent run calls on one pool never consume each other's
// completion signals.
type workChunk struct {
	start, end int
	fn         func(start, end int)
	wg         *sync.WaitGroup
}

// workerPool runs grid chunks on persistent worker goroutines. The
// superposition pass is independent per grid point, so chunks never
// touch the same indices.
type workerPool struct {
	numWorkers int

	workChan chan workChunk
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: workers}
}

// run splits [0, n) into chunks and executes fn over each, blocking
// until every chunk completes. Small grids run inline.
func (p *workerPool) run(n int, fn func(start, end int)) {
	if n < parallelThreshold || p.numWorkers == 1 {
		fn(0, n)
		return
	}

	p.mu.Lock()
	if !p.running {
		p.start()
	}
	p.mu.Unlock()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	var wg sync.WaitGroup
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		p.workChan <- workChunk{start: start, end: end, fn: fn, wg: &wg}
	}
	wg.Wait()
}

func (p *workerPool) start() {
	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			chunk.wg.Done()
		}
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}
