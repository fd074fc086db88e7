// Package memory provides in-memory repositories for the bingo module,
// used by unit tests and the memory repo mode.
package memory

import (
	"context"
	"sync"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

// GameStateRepository implements domain.GameStateRepository in memory
type GameStateRepository struct {
	states map[string]*domain.GameState // gameID -> state
	mu     sync.RWMutex
}

// NewGameStateRepository creates a new memory game state repository
func NewGameStateRepository() *GameStateRepository {
	return &GameStateRepository{
		states: make(map[string]*domain.GameState),
	}
}

func (r *GameStateRepository) GetByGameID(ctx context.Context, gameID string) (*domain.GameState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[gameID]
	if !ok {
		return nil, domain.ErrGameStateNotFound
	}
	return copyState(state), nil
}

func (r *GameStateRepository) Save(ctx context.Context, state *domain.GameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.GameID] = copyState(state)
	return nil
}

// copyState deep-copies a state row so callers never share slices with
// the stored record, mirroring the isolation a real database gives.
func copyState(s *domain.GameState) *domain.GameState {
	c := *s
	c.NumberSequence = append([]int(nil), s.NumberSequence...)
	c.CalledNumbers = append([]int(nil), s.CalledNumbers...)
	if s.ControllerLastSeenAt != nil {
		t := *s.ControllerLastSeenAt
		c.ControllerLastSeenAt = &t
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	if s.LastCallAt != nil {
		t := *s.LastCallAt
		c.LastCallAt = &t
	}
	return &c
}
