package notify

import (
	"context"
	"sync"
)

// MemoryNotifier delivers change events in-process. It backs
// single-node deployments that run without redis, and tests.
type MemoryNotifier struct {
	mu       sync.Mutex
	handlers []func(ownerID string)
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Publish(ctx context.Context, ownerID string) error {
	n.mu.Lock()
	handlers := make([]func(string), len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.Unlock()

	for _, h := range handlers {
		h(ownerID)
	}
	return nil
}

func (n *MemoryNotifier) Listen(ctx context.Context, handler func(ownerID string)) error {
	n.mu.Lock()
	n.handlers = append(n.handlers, handler)
	n.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}
