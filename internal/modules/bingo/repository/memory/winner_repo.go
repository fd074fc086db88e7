package memory

import (
	"context"
	"sync"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

// WinnerRepository implements domain.WinnerRepository in memory
type WinnerRepository struct {
	winners []*domain.Winner
	mu      sync.RWMutex
}

// NewWinnerRepository creates a new memory winner repository
func NewWinnerRepository() *WinnerRepository {
	return &WinnerRepository{}
}

func (r *WinnerRepository) Create(ctx context.Context, winner *domain.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *winner
	r.winners = append(r.winners, &c)
	return nil
}

func (r *WinnerRepository) ListByGame(ctx context.Context, gameID string) ([]*domain.Winner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Winner, 0)
	for _, w := range r.winners {
		if w.GameID == gameID {
			c := *w
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *WinnerRepository) CountAtCall(ctx context.Context, gameID string, callCount int) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, w := range r.winners {
		if w.GameID == gameID && w.CallCountAtWin == callCount {
			count++
		}
	}
	return count, nil
}

func (r *WinnerRepository) CountJackpot(ctx context.Context, gameID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, w := range r.winners {
		if w.GameID == gameID && w.IsSnowballJackpot {
			count++
		}
	}
	return count, nil
}

func (r *WinnerRepository) SetPrizeGiven(ctx context.Context, winnerID string, given bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.winners {
		if w.ID == winnerID {
			w.PrizeGiven = given
			return nil
		}
	}
	return domain.ErrWinnerNotFound
}

func (r *WinnerRepository) SetVoid(ctx context.Context, winnerID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.winners {
		if w.ID == winnerID {
			w.IsVoid = true
			w.VoidReason = reason
			return nil
		}
	}
	return domain.ErrWinnerNotFound
}
