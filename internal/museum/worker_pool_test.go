package museum

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := newWorkerPool(3)
	pool.start()
	defer pool.close()

	var done atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		pool.submit(func() {
			defer wg.Done()
			done.Add(1)
		})
	}
	wg.Wait()

	if done.Load() != 20 {
		t.Errorf("Expected 20 jobs executed, got %d", done.Load())
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := newWorkerPool(2)
	pool.start()
	defer pool.close()

	var current, peak atomic.Int32
	var wg sync.WaitGroup
	gate := make(chan struct{})
	wg.Add(8)
	// Submit from a goroutine: with both workers parked on the gate the
	// queue fills up and submit blocks
	go func() {
		for i := 0; i < 8; i++ {
			pool.submit(func() {
				defer wg.Done()
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-gate
				current.Add(-1)
			})
		}
	}()
	close(gate)
	wg.Wait()

	if peak.Load() > 2 {
		t.Errorf("Concurrency exceeded pool size: peak %d", peak.Load())
	}
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	pool := newWorkerPool(0)
	if pool.workers != 4 {
		t.Errorf("Expected default of 4 workers, got %d", pool.workers)
	}
}

func TestWorkerPoolStartIdempotent(t *testing.T) {
	pool := newWorkerPool(2)
	pool.start()
	pool.start()
	defer pool.close()

	var wg sync.WaitGroup
	wg.Add(1)
	pool.submit(func() { wg.Done() })
	wg.Wait()
}
