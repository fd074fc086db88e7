package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

func TestStartGameFresh(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	state := e.state(t, "game-1")
	if state.Status != domain.GameInProgress {
		t.Errorf("status = %q, want in_progress", state.Status)
	}
	if len(state.NumberSequence) != domain.MaxNumber {
		t.Errorf("sequence len = %d, want %d", len(state.NumberSequence), domain.MaxNumber)
	}
	if state.NumbersCalledCount != 0 || len(state.CalledNumbers) != 0 {
		t.Error("fresh start carries call progress")
	}
	if state.ControllingHostID != hostA.HostID {
		t.Errorf("lease holder = %q, want starter", state.ControllingHostID)
	}
	if state.StartedAt == nil || state.CallDelaySeconds != domain.DefaultCallDelaySeconds {
		t.Error("start metadata not set")
	}

	session, err := e.sessions.GetByID(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if session.Status != domain.SessionRunning || session.ActiveGameID != "game-1" {
		t.Errorf("session = %q/%q, want running/game-1", session.Status, session.ActiveGameID)
	}
}

func TestStartGameSequenceIsPermutation(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	seen := make(map[int]bool)
	for _, n := range e.state(t, "game-1").NumberSequence {
		if n < 1 || n > domain.MaxNumber {
			t.Fatalf("number %d out of range", n)
		}
		if seen[n] {
			t.Fatalf("number %d repeated", n)
		}
		seen[n] = true
	}
	if len(seen) != domain.MaxNumber {
		t.Fatalf("%d distinct numbers, want %d", len(seen), domain.MaxNumber)
	}
}

func TestRestartInProgressKeepsSequence(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	callN(t, e, "game-1", 7)
	seq := e.state(t, "game-1").NumberSequence

	if err := e.game.StartGame(ctx, hostA, "sess-1", "game-1"); err != nil {
		t.Fatalf("restart: %v", err)
	}

	state := e.state(t, "game-1")
	if state.NumbersCalledCount != 0 || len(state.CalledNumbers) != 0 {
		t.Error("restart kept call progress")
	}
	if len(state.NumberSequence) != len(seq) {
		t.Fatal("restart replaced the sequence")
	}
	for i := range seq {
		if state.NumberSequence[i] != seq[i] {
			t.Fatal("restart replaced the sequence")
		}
	}
}

func TestReopenCompletedGamePreservesProgress(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	callN(t, e, "game-1", 15)
	if err := e.stage.AdvanceToNextStage(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := e.game.EndGame(ctx, hostA, "sess-1", "game-1"); err != nil {
		t.Fatalf("end: %v", err)
	}

	// A different host reopens to fix a late mistake
	if err := e.game.StartGame(ctx, hostB, "sess-1", "game-1"); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	state := e.state(t, "game-1")
	if state.Status != domain.GameInProgress {
		t.Errorf("status = %q, want in_progress", state.Status)
	}
	if state.NumbersCalledCount != 15 || len(state.CalledNumbers) != 15 {
		t.Errorf("reopen lost call history: %d calls", state.NumbersCalledCount)
	}
	if state.CurrentStageIndex != 1 {
		t.Errorf("reopen lost stage index: %d", state.CurrentStageIndex)
	}
	if state.EndedAt != nil {
		t.Error("reopen kept ended timestamp")
	}
	if state.ControllingHostID != hostB.HostID {
		t.Errorf("lease holder = %q, want reopener", state.ControllingHostID)
	}
}

func TestStartGameUnknownGame(t *testing.T) {
	e := newEnv(t)
	e.seedSession("sess-1", false)

	err := e.game.StartGame(context.Background(), hostA, "sess-1", "missing")
	if !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("err = %v, want ErrGameNotFound", err)
	}
}

func TestEndGameRequiresController(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	err := e.game.EndGame(context.Background(), hostB, "sess-1", "game-1")
	if !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("err = %v, want ErrNotController", err)
	}
}

func TestEndGameTwiceRejected(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	if err := e.game.EndGame(ctx, hostA, "sess-1", "game-1"); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := e.game.EndGame(ctx, hostA, "sess-1", "game-1"); !errors.Is(err, domain.ErrGameNotCallable) {
		t.Fatalf("err = %v, want ErrGameNotCallable on second end", err)
	}
}

func TestEndGameSettlesSnowballPot(t *testing.T) {
	e := newEnv(t)
	e.seedSession("sess-1", false)
	e.seedPot("pot-1", 40, 43, 100, 250)
	e.seedSnowballGame("game-sb", "sess-1", "pot-1")
	ctx := context.Background()

	if err := e.game.StartGame(ctx, hostA, "sess-1", "game-sb"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.game.EndGame(ctx, hostA, "sess-1", "game-sb"); err != nil {
		t.Fatalf("end: %v", err)
	}

	pot, _ := e.pots.GetByID(ctx, "pot-1")
	if pot.CurrentMaxCalls != 44 || pot.CurrentJackpotAmount != 300 {
		t.Errorf("pot = %d/%.0f, want rollover to 44/300", pot.CurrentMaxCalls, pot.CurrentJackpotAmount)
	}
}

func TestTestSessionNeverTouchesPot(t *testing.T) {
	e := newEnv(t)
	e.seedSession("sess-test", true)
	e.seedPot("pot-1", 40, 43, 100, 250)
	e.seedSnowballGame("game-sb", "sess-test", "pot-1")
	ctx := context.Background()

	if err := e.game.StartGame(ctx, hostA, "sess-test", "game-sb"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.game.EndGame(ctx, hostA, "sess-test", "game-sb"); err != nil {
		t.Fatalf("end: %v", err)
	}

	pot, _ := e.pots.GetByID(ctx, "pot-1")
	if pot.CurrentMaxCalls != 43 || pot.CurrentJackpotAmount != 250 {
		t.Errorf("test session moved the pot: %d/%.0f", pot.CurrentMaxCalls, pot.CurrentJackpotAmount)
	}
}

func TestSnapshotNeedsNoIdentity(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	state, err := e.game.Snapshot(context.Background(), "game-1")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if state.GameID != "game-1" {
		t.Errorf("game id = %q", state.GameID)
	}
}

func TestMutationsEmitStateChanged(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	before := e.notifier.Count("game-1")
	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if e.notifier.Count("game-1") != before+1 {
		t.Error("call did not emit a state-changed push")
	}

	// Heartbeats are invisible to viewers
	before = e.notifier.Count("game-1")
	if err := e.control.Heartbeat(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if e.notifier.Count("game-1") != before {
		t.Error("heartbeat emitted a state-changed push")
	}
}
