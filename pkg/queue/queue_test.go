package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nairobitech/duka/pkg/queue"
)

// sendJob stands in for the mail jobs the app queues.
type sendJob struct {
	To      string
	handled *atomic.Int32
}

func (j *sendJob) Handle() error {
	if j.handled != nil {
		j.handled.Add(1)
	}
	return nil
}

// smtpDownJob models a delivery that never succeeds.
type smtpDownJob struct {
	attempts *atomic.Int32
}

func (j *smtpDownJob) Handle() error {
	if j.attempts != nil {
		j.attempts.Add(1)
	}
	return errors.New("smtp unreachable")
}

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	_ = cancel
	queue.StartWorkers(ctx, 2)

	queue.Register("*queue_test.sendJob", func() queue.Job { return &sendJob{handled: &atomic.Int32{}} })
	queue.Register("*queue_test.smtpDownJob", func() queue.Job { return &smtpDownJob{attempts: &atomic.Int32{}} })
}

func TestDispatchAndProcess(t *testing.T) {
	if err := queue.Dispatch(&sendJob{To: "customer@example.com", handled: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&smtpDownJob{attempts: &atomic.Int32{}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	// One attempt, then a 1s backoff before the failure is recorded.
	time.Sleep(2500 * time.Millisecond)

	if len(queue.FailedJobs()) == 0 {
		t.Error("expected the undeliverable job in the failed list")
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&sendJob{To: "burst@example.com", handled: &atomic.Int32{}}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
