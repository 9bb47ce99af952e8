package queue

import "context"

const memoryBuffer = 1024

// MemoryDriver queues jobs on an in-process channel. It is the default
// driver: good for development, tests and single-node deploys where
// losing queued emails on restart is acceptable. Set QUEUE_DRIVER=redis
// for durability.
type MemoryDriver struct {
	ch chan []byte
}

func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, memoryBuffer)}
}

// Push blocks once the buffer is full, which backpressures dispatchers
// instead of dropping jobs.
func (d *MemoryDriver) Push(payload []byte) error {
	d.ch <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}
