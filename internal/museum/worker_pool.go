package museum

import (
	"sync"
)

// workerPool bounds the concurrency of per-object detail fetches for
// providers whose search endpoint only returns identifiers
type workerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// newWorkerPool creates a pool with the given number of workers
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 4
	}
	return &workerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// start launches the workers; safe to call more than once
func (wp *workerPool) start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *workerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// submit adds a job to the pool queue
func (wp *workerPool) submit(job func()) {
	wp.jobQueue <- job
}

// close shuts the pool down; no jobs may be submitted afterwards
func (wp *workerPool) close() {
	close(wp.jobQueue)
}
