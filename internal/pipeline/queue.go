// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the concurrent batch conversion core: a job
// queue drained by a bounded worker pool, the per-job state machine with
// its single OCR fallback pass, and the synchronized batch report.
package pipeline

import (
	"sync"

	"github.com/pdiddy/docmill/pkg/types"
)

// Queue is the backlog of pending jobs shared by the enumerator and the
// worker pool. It is a thin wrapper over a buffered channel: FIFO, safe for
// concurrent consumers, with close-once semantics.
type Queue struct {
	jobs      chan *types.Job
	closeOnce sync.Once
}

// NewQueue creates a queue with room for capacity jobs. Enqueue blocks once
// the buffer is full, so callers typically size it to the batch.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{jobs: make(chan *types.Job, capacity)}
}

// Enqueue adds a pending job to the backlog.
func (q *Queue) Enqueue(job *types.Job) {
	q.jobs <- job
}

// Dequeue blocks until a job is available or the queue is closed and
// drained. The second return value is false only at end-of-work.
func (q *Queue) Dequeue() (*types.Job, bool) {
	job, ok := <-q.jobs
	return job, ok
}

// Close signals that no further jobs will be enqueued. Jobs already in the
// backlog remain consumable; Close is safe to call more than once.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.jobs) })
}
