package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/bingo/usecase"
)

func TestTakeControlOnFreeLease(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	// StartGame already gave hostA the lease; clear it to simulate a game
	// whose controller row is empty
	state := e.state(t, "game-1")
	state.ControllingHostID = ""
	state.ControllerLastSeenAt = nil
	if err := e.states.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := e.control.TakeControl(ctx, hostB, "game-1"); err != nil {
		t.Fatalf("take control of free lease: %v", err)
	}

	state = e.state(t, "game-1")
	if state.ControllingHostID != hostB.HostID {
		t.Errorf("lease holder = %q, want %q", state.ControllingHostID, hostB.HostID)
	}
	if state.ControllerLastSeenAt == nil || !state.ControllerLastSeenAt.Equal(e.clock.Now()) {
		t.Errorf("last seen not stamped with current clock")
	}
}

func TestTakeControlRejectedWhileLeaseLive(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	e.clock.Advance(usecase.LeaseTimeout - time.Second)

	err := e.control.TakeControl(ctx, hostB, "game-1")
	if !errors.Is(err, domain.ErrLeaseHeldByOther) {
		t.Fatalf("err = %v, want ErrLeaseHeldByOther", err)
	}

	if got := e.state(t, "game-1").ControllingHostID; got != hostA.HostID {
		t.Errorf("lease holder = %q, want unchanged %q", got, hostA.HostID)
	}
}

func TestTakeControlStealsStaleLease(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	e.clock.Advance(usecase.LeaseTimeout)

	if err := e.control.TakeControl(ctx, hostB, "game-1"); err != nil {
		t.Fatalf("steal stale lease: %v", err)
	}
	if got := e.state(t, "game-1").ControllingHostID; got != hostB.HostID {
		t.Errorf("lease holder = %q, want %q", got, hostB.HostID)
	}
}

func TestTakeControlIdempotentForHolder(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	e.clock.Advance(5 * time.Second)
	if err := e.control.TakeControl(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("holder re-take: %v", err)
	}

	state := e.state(t, "game-1")
	if !state.ControllerLastSeenAt.Equal(e.clock.Now()) {
		t.Errorf("re-take did not refresh last seen")
	}
}

func TestHeartbeatRenewsLease(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	// Heartbeats every 10s keep the lease alive far past the bare timeout
	for i := 0; i < 6; i++ {
		e.clock.Advance(usecase.HeartbeatInterval)
		if err := e.control.Heartbeat(ctx, hostA, "game-1"); err != nil {
			t.Fatalf("heartbeat %d: %v", i, err)
		}
	}

	e.clock.Advance(usecase.LeaseTimeout - time.Second)
	if err := e.control.TakeControl(ctx, hostB, "game-1"); !errors.Is(err, domain.ErrLeaseHeldByOther) {
		t.Fatalf("err = %v, want ErrLeaseHeldByOther after renewed lease", err)
	}
}

func TestHeartbeatFromNonHolderFails(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	err := e.control.Heartbeat(context.Background(), hostB, "game-1")
	if !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("err = %v, want ErrNotController", err)
	}
}

// A stale lease blocks its holder's commands until someone (possibly the
// holder) explicitly takes control again; expiry alone never transfers.
func TestStaleHolderStillControllerUntilTakeover(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")
	ctx := context.Background()

	e.clock.Advance(10 * usecase.LeaseTimeout)

	if _, err := e.call.CallNextNumber(ctx, hostA, "game-1"); err != nil {
		t.Fatalf("holder with stale lease should still command: %v", err)
	}
	if _, err := e.call.CallNextNumber(ctx, hostB, "game-1"); !errors.Is(err, domain.ErrNotController) {
		t.Fatalf("err = %v, want ErrNotController for non-holder", err)
	}
}

func TestControlRequiresAuthentication(t *testing.T) {
	e := newEnv(t)
	e.startGame(t, "sess-1", "game-1")

	err := e.control.TakeControl(context.Background(), nobody, "game-1")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
