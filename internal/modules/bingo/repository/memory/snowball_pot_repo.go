package memory

import (
	"context"
	"sync"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

// SnowballPotRepository implements domain.SnowballPotRepository in
// memory. The InUse check walks the seeded games and their states, the
// same join the db repository performs.
type SnowballPotRepository struct {
	pots   map[string]*domain.SnowballPot
	games  *GameRepository
	states *GameStateRepository
	mu     sync.RWMutex
}

// NewSnowballPotRepository creates a new memory pot repository
func NewSnowballPotRepository(games *GameRepository, states *GameStateRepository) *SnowballPotRepository {
	return &SnowballPotRepository{
		pots:   make(map[string]*domain.SnowballPot),
		games:  games,
		states: states,
	}
}

func (r *SnowballPotRepository) GetByID(ctx context.Context, potID string) (*domain.SnowballPot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pot, ok := r.pots[potID]
	if !ok {
		return nil, domain.ErrPotNotFound
	}
	c := *pot
	return &c, nil
}

func (r *SnowballPotRepository) Save(ctx context.Context, pot *domain.SnowballPot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *pot
	r.pots[pot.ID] = &c
	return nil
}

func (r *SnowballPotRepository) InUse(ctx context.Context, potID string) (bool, error) {
	for _, game := range r.games.All() {
		if game.SnowballPotID != potID {
			continue
		}
		state, err := r.states.GetByGameID(ctx, game.ID)
		if err != nil {
			continue
		}
		if state.Status == domain.GameInProgress {
			return true, nil
		}
	}
	return false, nil
}

// PotHistoryRepository implements domain.PotHistoryRepository in memory
type PotHistoryRepository struct {
	entries []*domain.SnowballPotHistory
	mu      sync.RWMutex
}

// NewPotHistoryRepository creates a new memory pot history repository
func NewPotHistoryRepository() *PotHistoryRepository {
	return &PotHistoryRepository{}
}

func (r *PotHistoryRepository) Append(ctx context.Context, entry *domain.SnowballPotHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *entry
	r.entries = append(r.entries, &c)
	return nil
}

func (r *PotHistoryRepository) ListByPot(ctx context.Context, potID string) ([]*domain.SnowballPotHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.SnowballPotHistory, 0)
	for _, e := range r.entries {
		if e.SnowballPotID == potID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}
