package domain

import "errors"

// Error taxonomy for the host-facing operations. Callers branch on these
// with errors.Is; the HTTP adapter maps them to response codes.
var (
	// ErrUnauthorized means the caller lacks the host/admin role. Fatal, no retry.
	ErrUnauthorized = errors.New("unauthorized: host or admin access required")

	// ErrNotController means the caller does not hold the controller lease.
	// Surfaced to the host UI as a "take control" prompt.
	ErrNotController = errors.New("another host is currently controlling this game")

	// ErrLeaseHeldByOther means TakeControl found a live lease held elsewhere
	ErrLeaseHeldByOther = errors.New("another host is currently controlling this game")

	// ErrGameNotCallable means the game is not in a state that accepts calls
	ErrGameNotCallable = errors.New("game is not accepting calls")

	// ErrNoMoreNumbers means the 1..90 sequence is exhausted
	ErrNoMoreNumbers = errors.New("no more numbers to call")

	// ErrNothingToVoid means no numbers have been called yet
	ErrNothingToVoid = errors.New("no numbers have been called to void")

	// ErrWinnerExistsAtCall blocks voiding the call that produced a recorded win
	ErrWinnerExistsAtCall = errors.New("a winner was recorded on this number; delete the winner record first")

	// ErrPotInUse blocks manual pot resets while a game referencing it is live
	ErrPotInUse = errors.New("snowball pot is in use by an active game")

	// Not-found errors from the repositories
	ErrGameNotFound      = errors.New("game not found")
	ErrGameStateNotFound = errors.New("game state not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrWinnerNotFound    = errors.New("winner not found")
	ErrPotNotFound       = errors.New("snowball pot not found")
)
