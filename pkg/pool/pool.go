package pool

import (
	"io"
	"runtime"
	"sync"
)

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
//
// Jobs submitted to a pool must not themselves wait on the same pool.
type Pool struct {
	// jobs is the common channel the workers read from, making this a work
	// stealing pool.
	jobs        chan func()
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{
		jobs:        make(chan func()),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go func() {
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// TearDown stops the workers of the pool. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.jobs)
}

// Workers returns the number of goroutines working for this pool, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workerCount
}

// Parallelize calls f count times, passing in indices from 0..count-1.
//
// The result is the slice [f(0), f(1), ..., f(count - 1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	results := make([]T, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		i := i
		p.jobs <- func() {
			defer wg.Done()
			results[i] = f(i)
		}
	}
	wg.Wait()
	return results
}

// Search queries f until count successes are found.
//
// f tries a single candidate, and reports whether that candidate was successful.
// The order of the results is unspecified.
func Search[T any](p *Pool, count int, f func() (T, bool)) []T {
	results := make([]T, 0, count)
	if p == nil {
		for len(results) < count {
			if v, ok := f(); ok {
				results = append(results, v)
			}
		}
		return results
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	remaining := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) < count
	}
	wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.jobs <- func() {
			defer wg.Done()
			for remaining() {
				v, ok := f()
				if !ok {
					continue
				}
				mu.Lock()
				if len(results) < count {
					results = append(results, v)
				}
				mu.Unlock()
			}
		}
	}
	wg.Wait()
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
//
// When called concurrently, which caller receives which bytes is raced, but no
// two callers ever read the same bytes.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
