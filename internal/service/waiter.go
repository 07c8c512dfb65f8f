// FILE: internal/service/waiter.go
package service

import (
	"sync"
	"time"
)

// WaitTimeout bounds how long a client may wait for the next move
const WaitTimeout = 25 * time.Second

// WaitRegistry tracks clients waiting for a game to change. Each waiter owns
// a channel that is closed exactly once, on notification or shutdown.
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string]map[chan struct{}]struct{} // gameID → waiting clients
	shutdown chan struct{}
	once     sync.Once
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string]map[chan struct{}]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Register adds a waiter for gameID. The returned channel is closed when the
// game changes; cancel must be called once the caller stops waiting.
func (w *WaitRegistry) Register(gameID string) (ch <-chan struct{}, cancel func()) {
	c := make(chan struct{})

	w.mu.Lock()
	select {
	case <-w.shutdown:
		w.mu.Unlock()
		close(c)
		return c, func() {}
	default:
	}
	if w.waiters[gameID] == nil {
		w.waiters[gameID] = make(map[chan struct{}]struct{})
	}
	w.waiters[gameID][c] = struct{}{}
	w.mu.Unlock()

	return c, func() { w.remove(gameID, c) }
}

// Notify wakes every waiter of gameID
func (w *WaitRegistry) Notify(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for c := range w.waiters[gameID] {
		close(c)
	}
	delete(w.waiters, gameID)
}

// Waiting returns the number of clients waiting on gameID
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown wakes all waiters and refuses new ones
func (w *WaitRegistry) Shutdown() {
	w.once.Do(func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		close(w.shutdown)
		for id, set := range w.waiters {
			for c := range set {
				close(c)
			}
			delete(w.waiters, id)
		}
	})
}

// remove drops c unless a notification already closed and removed it
func (w *WaitRegistry) remove(gameID string, c chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	set := w.waiters[gameID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(w.waiters, gameID)
	}
}
