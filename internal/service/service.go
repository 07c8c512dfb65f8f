// FILE: internal/service/service.go
package service

import (
	"errors"
	"sync"
	"time"

	"chessrules/internal/game"
	"chessrules/internal/storage"
)

var ErrGameNotFound = errors.New("game not found")

// Service is a state manager for concurrent chess games with optional persistence
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(),
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close releases waiting clients, drops all games and closes storage
func (s *Service) Close() error {
	s.waiter.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
