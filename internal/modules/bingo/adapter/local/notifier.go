// Package local provides in-process adapters for the bingo module.
package local

import (
	"context"
	"encoding/json"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/gateway/ws"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// WSNotifier pushes the viewer-facing state projection to every
// WebSocket connection watching the game. It implements domain.Notifier.
type WSNotifier struct {
	stateRepo domain.GameStateRepository
	manager   *ws.Manager
}

func NewWSNotifier(stateRepo domain.GameStateRepository, manager *ws.Manager) *WSNotifier {
	return &WSNotifier{stateRepo: stateRepo, manager: manager}
}

// GameStateChanged re-reads the state and broadcasts it. Failures are
// logged and swallowed; a missed push only delays viewers until their
// next poll.
func (n *WSNotifier) GameStateChanged(ctx context.Context, gameID string) {
	state, err := n.stateRepo.GetByGameID(ctx, gameID)
	if err != nil {
		logger.Warn(ctx).
			Str("game_id", gameID).
			Err(err).
			Msg("notify: load game state failed")
		return
	}

	msg, err := json.Marshal(map[string]interface{}{
		"game":    "bingo",
		"command": "game_state_changed",
		"data":    state.Public(),
	})
	if err != nil {
		logger.Warn(ctx).Str("game_id", gameID).Err(err).Msg("notify: marshal failed")
		return
	}

	n.manager.BroadcastToGame(gameID, msg)
}
