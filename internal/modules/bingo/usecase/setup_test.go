package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/bingo/repository/memory"
	"github.com/frankieli/bingo_live/internal/modules/bingo/usecase"
	"github.com/frankieli/bingo_live/pkg/logger"
)

func init() {
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

var (
	hostA  = domain.Identity{HostID: "host-a", Role: domain.RoleHost}
	hostB  = domain.Identity{HostID: "host-b", Role: domain.RoleHost}
	admin  = domain.Identity{HostID: "admin-1", Role: domain.RoleAdmin}
	nobody = domain.Identity{}
)

// fakeClock drives lease expiry and timestamps deterministically
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingNotifier counts state-changed pushes per game
type recordingNotifier struct {
	mu     sync.Mutex
	pushes map[string]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{pushes: make(map[string]int)}
}

func (n *recordingNotifier) GameStateChanged(ctx context.Context, gameID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes[gameID]++
}

func (n *recordingNotifier) Count(gameID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pushes[gameID]
}

// env wires the use cases against memory repositories with a fake clock
type env struct {
	states   *memory.GameStateRepository
	games    *memory.GameRepository
	sessions *memory.SessionRepository
	winners  *memory.WinnerRepository
	pots     *memory.SnowballPotRepository
	history  *memory.PotHistoryRepository

	control *usecase.ControlUseCase
	game    *usecase.GameUseCase
	call    *usecase.CallUseCase
	stage   *usecase.StageUseCase
	pot     *usecase.PotUseCase

	notifier *recordingNotifier
	clock    *fakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	e := &env{
		states:   memory.NewGameStateRepository(),
		games:    memory.NewGameRepository(),
		sessions: memory.NewSessionRepository(),
		winners:  memory.NewWinnerRepository(),
		history:  memory.NewPotHistoryRepository(),
		notifier: newRecordingNotifier(),
		clock:    newFakeClock(),
	}
	e.pots = memory.NewSnowballPotRepository(e.games, e.states)

	e.control = usecase.NewControlUseCase(e.states, e.notifier)
	e.control.Now = e.clock.Now

	e.pot = usecase.NewPotUseCase(e.sessions, e.games, e.winners, e.pots, e.history, node)
	e.pot.Now = e.clock.Now

	e.game = usecase.NewGameUseCase(e.states, e.games, e.sessions, e.control, e.pot, e.notifier, node)
	e.game.Now = e.clock.Now

	e.call = usecase.NewCallUseCase(e.states, e.winners, e.control, e.notifier)
	e.call.Now = e.clock.Now

	e.stage = usecase.NewStageUseCase(e.states, e.games, e.winners, e.pots, e.control, e.pot, e.notifier, node)
	e.stage.Now = e.clock.Now

	return e
}

func (e *env) seedSession(id string, test bool) {
	e.sessions.Put(&domain.Session{
		ID:            id,
		Name:          "Friday Night",
		Status:        domain.SessionReady,
		IsTestSession: test,
	})
}

func (e *env) seedGame(id, sessionID string) {
	e.games.Put(&domain.Game{
		ID:        id,
		SessionID: sessionID,
		GameIndex: 1,
		Name:      "Game One",
		Type:      domain.GameTypeStandard,
	})
}

func (e *env) seedSnowballGame(id, sessionID, potID string) {
	e.games.Put(&domain.Game{
		ID:            id,
		SessionID:     sessionID,
		GameIndex:     2,
		Name:          "Snowball Finale",
		Type:          domain.GameTypeSnowball,
		SnowballPotID: potID,
	})
}

func (e *env) seedPot(id string, baseCalls, currentCalls int, baseAmount, currentAmount float64) {
	_ = e.pots.Save(context.Background(), &domain.SnowballPot{
		ID:                   id,
		Name:                 "House Pot",
		BaseMaxCalls:         baseCalls,
		BaseJackpotAmount:    baseAmount,
		CallsIncrement:       1,
		JackpotIncrement:     50,
		CurrentMaxCalls:      currentCalls,
		CurrentJackpotAmount: currentAmount,
	})
}

// startGame seeds a session and standard game and starts it as hostA
func (e *env) startGame(t *testing.T, sessionID, gameID string) {
	t.Helper()
	e.seedSession(sessionID, false)
	e.seedGame(gameID, sessionID)
	if err := e.game.StartGame(context.Background(), hostA, sessionID, gameID); err != nil {
		t.Fatalf("start game: %v", err)
	}
}

func (e *env) state(t *testing.T, gameID string) *domain.GameState {
	t.Helper()
	state, err := e.states.GetByGameID(context.Background(), gameID)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	return state
}
