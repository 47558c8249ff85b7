// Package workqueue provides a bounded-concurrency job pool with per-id
// deduplication. Jobs from different ids run in parallel up to the worker
// limit; enqueueing an id that is already queued or running is a no-op, so a
// double-pressed button cannot start the same work twice.
package workqueue

import (
	"sync"

	"github.com/Data-Corruption/stdx/xlog"
)

type JobFunc func() error

type Queue struct {
	mu     sync.Mutex
	inUse  map[string]struct{}
	sem    chan struct{}
	wg     sync.WaitGroup
	closed bool
	log    *xlog.Logger
}

// New creates a queue running at most workers jobs concurrently.
func New(log *xlog.Logger, workers int) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		inUse: make(map[string]struct{}),
		sem:   make(chan struct{}, workers),
		log:   log,
	}
}

// Enqueue schedules a job by id. Returns false if the queue is closed or the
// id is already queued/running. The job starts as soon as a worker slot
// frees; its error is logged, not returned.
func (q *Queue) Enqueue(id string, fn JobFunc) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if _, exists := q.inUse[id]; exists {
		q.mu.Unlock()
		return false
	}
	q.inUse[id] = struct{}{}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		q.sem <- struct{}{}
		defer func() { <-q.sem }()

		if err := fn(); err != nil {
			q.log.Errorf("job %s failed: %v", id, err)
		}

		q.mu.Lock()
		delete(q.inUse, id)
		q.mu.Unlock()
	}()
	return true
}

// Has reports whether an id is currently queued or running.
func (q *Queue) Has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inUse[id]
	return ok
}

// Len returns the number of jobs queued or running.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inUse)
}

// Close stops accepting new jobs and waits for everything in flight to
// finish. Cannot be called from within a job, will deadlock.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wg.Wait()
}
