package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/muster/internal/domain/scenario"
)

func newJob(id string) Job {
	return Job{ID: id, Request: scenario.Request{Kind: scenario.KindMobilization, Params: scenario.DefaultMobilization}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if !q.Enqueue(ctx, newJob("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.ID != "job1" {
		t.Errorf("expected job1, got %v", job.ID)
	}
	if job.EnqueuedAt.IsZero() {
		t.Error("expected enqueue time to be stamped")
	}
	if job.Request.Kind != scenario.KindMobilization {
		t.Errorf("unexpected request kind %q", job.Request.Kind)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, newJob("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, newJob("job2")) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, newJob("job3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, newJob("job1")) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numProducers := 10
	numJobs := 100

	var producers sync.WaitGroup
	for i := 0; i < numProducers; i++ {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for j := 0; j < numJobs; j++ {
				for !q.Enqueue(ctx, newJob(fmt.Sprintf("job%d_%d", id, j))) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	var (
		consumers sync.WaitGroup
		mu        sync.Mutex
		seen      = make(map[string]int)
	)
	for i := 0; i < 4; i++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for job := range q.Dequeue(ctx) {
				mu.Lock()
				seen[job.ID]++
				mu.Unlock()
			}
		}()
	}

	producers.Wait()
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	consumers.Wait()

	if len(seen) != numProducers*numJobs {
		t.Errorf("expected %d distinct jobs, got %d", numProducers*numJobs, len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("job %s delivered %d times", id, n)
		}
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, newJob("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, newJob("job2")) {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, newJob("job3")) {
		t.Error("expected enqueue to fail after closing")
	}

	// Queued jobs still drain, then the channel closes
	var drained []string
	timeout := time.After(100 * time.Millisecond)
	jobs := q.Dequeue(ctx)
	for open := true; open; {
		select {
		case job, ok := <-jobs:
			if !ok {
				open = false
				continue
			}
			drained = append(drained, job.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
	if len(drained) != 2 || drained[0] != "job1" || drained[1] != "job2" {
		t.Errorf("unexpected drained jobs %v", drained)
	}

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
