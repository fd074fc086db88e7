package memory

import (
	"context"
	"sync"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

// SessionRepository implements domain.SessionRepository in memory
type SessionRepository struct {
	sessions map[string]*domain.Session
	mu       sync.RWMutex
}

// NewSessionRepository creates a new memory session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	c := *session
	return &c, nil
}

func (r *SessionRepository) SetActiveGame(ctx context.Context, sessionID, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Status = domain.SessionRunning
	session.ActiveGameID = gameID
	return nil
}

// Put seeds a session record (test setup helper)
func (r *SessionRepository) Put(session *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *session
	r.sessions[session.ID] = &c
}
