// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/pdiddy/docmill/pkg/types"
)

func TestQueue_DrainAfterClose(t *testing.T) {
	q := NewQueue(3)
	for i := 0; i < 3; i++ {
		q.Enqueue(&types.Job{ID: uuid.New(), State: types.JobPending})
	}
	q.Close()

	for i := 0; i < 3; i++ {
		job, ok := q.Dequeue()
		if !ok {
			t.Fatalf("dequeue %d returned end-of-work before backlog drained", i)
		}
		if job == nil {
			t.Fatalf("dequeue %d returned nil job", i)
		}
	}

	if _, ok := q.Dequeue(); ok {
		t.Error("dequeue after drain should signal end-of-work")
	}
}

func TestQueue_CloseIsIdempotent(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close() // must not panic

	if _, ok := q.Dequeue(); ok {
		t.Error("empty closed queue should signal end-of-work")
	}
}

func TestQueue_ConcurrentConsumers(t *testing.T) {
	const total = 200
	q := NewQueue(total)
	for i := 0; i < total; i++ {
		q.Enqueue(&types.Job{ID: uuid.New(), State: types.JobPending})
	}
	q.Close()

	var consumed int64
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if _, ok := q.Dequeue(); !ok {
					return
				}
				atomic.AddInt64(&consumed, 1)
			}
		}()
	}
	wg.Wait()

	if consumed != total {
		t.Errorf("consumed %d jobs, want %d", consumed, total)
	}
}
