package live

import (
	"context"
	"log"
	"sync"

	model "task-board.com/task-board/internal/models"
	"task-board.com/task-board/internal/notify"
	repository "task-board.com/task-board/internal/repositories"
)

// Hub turns change events into full task-list snapshots. On every
// event for an owner it re-reads that owner's tasks and pushes the
// complete list to each local subscriber. Subscribers never receive
// deltas; each delivery wholly replaces the previous one.
type Hub struct {
	repo     *repository.TaskRepository
	notifier notify.Notifier

	mu   sync.Mutex
	subs map[string]map[chan []model.Task]struct{}

	wg sync.WaitGroup
}

func NewHub(repo *repository.TaskRepository, notifier notify.Notifier) *Hub {
	return &Hub{
		repo:     repo,
		notifier: notifier,
		subs:     make(map[string]map[chan []model.Task]struct{}),
	}
}

// Start begins consuming change events until ctx is canceled.
func (h *Hub) Start(ctx context.Context) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.notifier.Listen(ctx, h.push); err != nil && ctx.Err() == nil {
			log.Printf("hub: change listener stopped: %v", err)
		}
	}()
}

// Wait blocks until the listener goroutine has exited.
func (h *Hub) Wait() {
	h.wg.Wait()
}

// Subscribe registers for an owner's snapshots and seeds the channel
// with the current state, so a resubscribe always starts from a fresh
// full snapshot. The returned cancel func unregisters and closes the
// channel.
func (h *Hub) Subscribe(ctx context.Context, ownerID string) (<-chan []model.Task, func(), error) {
	tasks, err := h.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan []model.Task, 1)
	ch <- tasks

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[chan []model.Task]struct{})
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ownerID]; ok {
			if _, registered := set[ch]; registered {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, ownerID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel, nil
}

func (h *Hub) push(ownerID string) {
	h.mu.Lock()
	count := len(h.subs[ownerID])
	h.mu.Unlock()
	if count == 0 {
		return
	}

	tasks, err := h.repo.ListByOwner(context.Background(), ownerID)
	if err != nil {
		log.Printf("hub: snapshot read for owner %s failed: %v", ownerID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ownerID] {
		deliver(ch, tasks)
	}
}

// deliver replaces whatever snapshot is still queued with the latest
// one; a slow subscriber only ever sees the newest state.
func deliver(ch chan []model.Task, tasks []model.Task) {
	for {
		select {
		case ch <- tasks:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
