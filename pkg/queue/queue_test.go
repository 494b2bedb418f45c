package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkrylov/camshop/pkg/queue"
)

var handled atomic.Int32

type confirmJob struct {
	OrderID uint `json:"order_id"`
}

func (j *confirmJob) Handle() error {
	handled.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	return errors.New("smtp unreachable")
}

func init() {
	queue.Register("*queue_test.confirmJob", func() queue.Job { return &confirmJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func TestDispatchAndProcess(t *testing.T) {
	before := handled.Load()

	if err := queue.Dispatch(&confirmJob{OrderID: 42}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for handled.Load() == before {
		select {
		case <-deadline:
			t.Fatal("job was never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// 1 attempt + 1s backoff + slack.
	time.Sleep(2500 * time.Millisecond)

	found := false
	for _, f := range queue.FailedJobs() {
		if f.Type == "*queue_test.failJob" {
			found = true
			if f.Attempts != 1 {
				t.Errorf("expected 1 attempt, got %d", f.Attempts)
			}
		}
	}
	if !found {
		t.Error("expected the failing job in FailedJobs()")
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&confirmJob{OrderID: 1}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
