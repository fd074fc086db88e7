package memory

import (
	"context"
	"sync"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

// GameRepository implements domain.GameRepository in memory
type GameRepository struct {
	games map[string]*domain.Game
	mu    sync.RWMutex
}

// NewGameRepository creates a new memory game repository
func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[string]*domain.Game),
	}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	c := *game
	return &c, nil
}

// Put seeds a game record (test setup helper)
func (r *GameRepository) Put(game *domain.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *game
	r.games[game.ID] = &c
}

// All returns every stored game
func (r *GameRepository) All() []*domain.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]*domain.Game, 0, len(r.games))
	for _, g := range r.games {
		c := *g
		games = append(games, &c)
	}
	return games
}
