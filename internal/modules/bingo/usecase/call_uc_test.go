package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
)

func TestCallNextNumberFollowsSequence(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	seq := e.state(t, "game-1").NumberSequence

	for i := 0; i < 5; i++ {
		n, err := e.call.CallNextNumber(ctx, hostA, "game-1")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if n != seq[i] {
			t.Errorf("call %d = %d, want sequence value %d", i, n, seq[i])
		}
	}

	state := e.state(t, "game-1")
	if state.NumbersCalledCount != 5 {
		t.Errorf("count = %d, want 5", state.NumbersCalledCount)
	}
	if len(state.CalledNumbers) != 5 {
		t.Errorf("called numbers len = %d, want 5", len(state.CalledNumbers))
	}
	if state.LastCallAt == nil {
		t.Error("last call timestamp not set")
	}
}

func TestCallNextNumberExhaustsSequence(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	for i := 0; i < domain.MaxNumber; i++ {
		if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); !errors.Is(err, domain.ErrNoMoreNumbers) {
		t.Fatalf("err = %v, want ErrNoMoreNumbers", err)
	}
}

func TestCallBlockedOnBreakAndPause(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	if err := e.call.ToggleBreak(ctx, hostA, "game-1", true); err != nil {
		t.Fatalf("enter break: %v", err)
	}
	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); !errors.Is(err, domain.ErrGameNotCallable) {
		t.Fatalf("err = %v, want ErrGameNotCallable on break", err)
	}
	if err := e.call.ToggleBreak(ctx, hostA, "game-1", false); err != nil {
		t.Fatalf("leave break: %v", err)
	}

	if err := e.stage.PauseForValidation(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); !errors.Is(err, domain.ErrGameNotCallable) {
		t.Fatalf("err = %v, want ErrGameNotCallable while paused", err)
	}
	if err := e.stage.ResumeGame(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("resume: %v", err)
	}

	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("call after resume: %v", err)
	}
}

func TestVoidLastNumber(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	first, _ := e.call.CallNextNumber(ctx, hostA, "game-1")
	second, _ := e.call.CallNextNumber(ctx, hostA, "game-1")

	lastCallBefore := e.state(t, "game-1").LastCallAt

	if err := e.call.VoidLastNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("void: %v", err)
	}

	state := e.state(t, "game-1")
	if state.NumbersCalledCount != 1 {
		t.Errorf("count = %d, want 1", state.NumbersCalledCount)
	}
	if len(state.CalledNumbers) != 1 || state.CalledNumbers[0] != first {
		t.Errorf("called numbers = %v, want [%d]", state.CalledNumbers, first)
	}
	// A void must not restart the viewer reveal animation
	if !state.LastCallAt.Equal(*lastCallBefore) {
		t.Error("void changed last call timestamp")
	}

	// The voided number comes straight back on the next call
	n, err := e.call.CallNextNumber(ctx, hostA, "game-1")
	if err != nil {
		t.Fatalf("re-call: %v", err)
	}
	if n != second {
		t.Errorf("re-call = %d, want voided %d", n, second)
	}
}

func TestVoidWithNothingCalled(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	err := e.call.VoidLastNumber(context.Background(), hostA, "game-1")
	if !errors.Is(err, domain.ErrNothingToVoid) {
		t.Fatalf("err = %v, want ErrNothingToVoid", err)
	}
}

func TestVoidBlockedByRecordedWinner(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
			t.Fatalf("call: %v", err)
		}
	}

	recordWinner(t, e, "game-1", domain.StageLine, 3)

	if err := e.call.VoidLastNumber(ctx, hostA, "game-1"); !errors.Is(err, domain.ErrWinnerExistsAtCall) {
		t.Fatalf("err = %v, want ErrWinnerExistsAtCall", err)
	}

	// An earlier call with no winner at the current count still cannot be
	// voided while the winner sits at that count; but after one more call
	// the newest call is clean and voids fine
	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if err := e.call.VoidLastNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("void clean call: %v", err)
	}
}

func TestValidateClaim(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	var called []int
	for i := 0; i < 10; i++ {
		n, err := e.call.CallNextNumber(ctx, hostA, "game-1")
		if err != nil {
			t.Fatalf("call: %v", err)
		}
		called = append(called, n)
	}

	res, err := e.call.ValidateClaim(ctx, hostA, "game-1", called[:5])
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Valid {
		t.Errorf("claim of called numbers rejected: %+v", res)
	}

	uncalled := e.state(t, "game-1").NumberSequence[10]
	res, err = e.call.ValidateClaim(ctx, hostA, "game-1", []int{called[0], uncalled})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Valid {
		t.Error("claim containing uncalled number accepted")
	}
	if len(res.InvalidNumbers) != 1 || res.InvalidNumbers[0] != uncalled {
		t.Errorf("invalid numbers = %v, want [%d]", res.InvalidNumbers, uncalled)
	}
}

func TestValidateClaimRequiresController(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	_, err := e.call.ValidateClaim(context.Background(), hostB, "game-1", []int{1})
	if !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("err = %v, want ErrNotController", err)
	}
}

func TestToggleBreakClearsWinDisplay(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	if err := e.stage.AnnounceWin(ctx, hostA, "game-1", domain.StageLine, false); err != nil {
		t.Fatalf("announce: %v", err)
	}

	if err := e.call.ToggleBreak(ctx, hostA, "game-1", true); err != nil {
		t.Fatalf("break: %v", err)
	}

	state := e.state(t, "game-1")
	if !state.OnBreak {
		t.Error("not on break")
	}
	if state.PausedForValidation {
		t.Error("validation pause survived break")
	}
	if state.DisplayWinType != "" || state.DisplayWinText != "" {
		t.Error("win banner survived break")
	}
}
