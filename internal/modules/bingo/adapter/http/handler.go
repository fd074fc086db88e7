// Package http exposes the bingo module over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/frankieli/bingo_live/internal/modules/bingo/domain"
	"github.com/frankieli/bingo_live/internal/modules/bingo/usecase"
	"github.com/frankieli/bingo_live/internal/modules/gateway/auth"
	"github.com/frankieli/bingo_live/pkg/logger"
)

// Handler handles HTTP requests for the bingo module
type Handler struct {
	game    *usecase.GameUseCase
	control *usecase.ControlUseCase
	call    *usecase.CallUseCase
	stage   *usecase.StageUseCase
	pot     *usecase.PotUseCase

	// snapshots collapses concurrent viewer reads for the same game into
	// one repository hit; every state-changed push triggers a stampede of
	// identical GETs
	snapshots singleflight.Group
}

// NewHandler creates a new HTTP handler
func NewHandler(
	game *usecase.GameUseCase,
	control *usecase.ControlUseCase,
	call *usecase.CallUseCase,
	stage *usecase.StageUseCase,
	pot *usecase.PotUseCase,
) *Handler {
	return &Handler{
		game:    game,
		control: control,
		call:    call,
		stage:   stage,
		pot:     pot,
	}
}

// RegisterHostRoutes registers the authenticated host console routes
func (h *Handler) RegisterHostRoutes(router *gin.RouterGroup) {
	router.POST("/games/:gameID/control/take", h.TakeControl)
	router.POST("/games/:gameID/control/heartbeat", h.Heartbeat)
	router.POST("/games/:gameID/start", h.StartGame)
	router.POST("/games/:gameID/end", h.EndGame)
	router.GET("/games/:gameID/state", h.GetGameState)
	router.POST("/games/:gameID/calls/next", h.CallNextNumber)
	router.DELETE("/games/:gameID/calls/last", h.VoidLastNumber)
	router.POST("/games/:gameID/break", h.ToggleBreak)
	router.POST("/games/:gameID/claims/validate", h.ValidateClaim)
	router.POST("/games/:gameID/pause", h.PauseForValidation)
	router.POST("/games/:gameID/resume", h.ResumeGame)
	router.POST("/games/:gameID/announce", h.AnnounceWin)
	router.POST("/games/:gameID/winners", h.RecordWinner)
	router.GET("/games/:gameID/winners", h.ListWinners)
	router.PATCH("/games/:gameID/winners/:winnerID/prize", h.ToggleWinnerPrizeGiven)
	router.POST("/games/:gameID/stage/advance", h.AdvanceToNextStage)
	router.POST("/games/:gameID/stage/skip", h.SkipStage)
	router.POST("/winners/:winnerID/void", h.VoidWinner)
	router.POST("/pots/:potID/reset", h.ResetPot)
	router.GET("/pots/:potID/in-use", h.PotInUse)
	router.GET("/pots/:potID/history", h.PotHistory)
}

// RegisterViewerRoutes registers the unauthenticated viewer routes
func (h *Handler) RegisterViewerRoutes(router *gin.RouterGroup) {
	router.GET("/games/:gameID/snapshot", h.Snapshot)
}

// DTOs

type startGameRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type endGameRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type toggleBreakRequest struct {
	On bool `json:"on"`
}

type validateClaimRequest struct {
	Numbers []int `json:"numbers" binding:"required"`
}

type announceWinRequest struct {
	Stage   string `json:"stage" binding:"required"`
	Jackpot bool   `json:"jackpot"`
}

type recordWinnerRequest struct {
	Stage            string `json:"stage" binding:"required"`
	WinnerName       string `json:"winner_name" binding:"required"`
	PrizeDescription string `json:"prize_description"`
	CallCountAtWin   int    `json:"call_count_at_win" binding:"required"`
	PrizeGiven       bool   `json:"prize_given"`
}

type skipStageRequest struct {
	CurrentIndex int `json:"current_index"`
	TotalStages  int `json:"total_stages" binding:"required"`
}

type togglePrizeRequest struct {
	Given bool `json:"given"`
}

type voidWinnerRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func identity(c *gin.Context) domain.Identity {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id
}

// writeError maps domain sentinel errors to HTTP statuses with the
// standard {"success": false, "error": ...} body
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotController), errors.Is(err, domain.ErrLeaseHeldByOther):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrGameNotCallable),
		errors.Is(err, domain.ErrNoMoreNumbers),
		errors.Is(err, domain.ErrNothingToVoid),
		errors.Is(err, domain.ErrWinnerExistsAtCall),
		errors.Is(err, domain.ErrPotInUse):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrGameStateNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrWinnerNotFound),
		errors.Is(err, domain.ErrPotNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func ok(c *gin.Context, data interface{}) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// TakeControl acquires the controller lease
func (h *Handler) TakeControl(c *gin.Context) {
	if err := h.control.TakeControl(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// Heartbeat renews the controller lease
func (h *Handler) Heartbeat(c *gin.Context) {
	if err := h.control.Heartbeat(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// StartGame starts or reopens a game
func (h *Handler) StartGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.game.StartGame(c.Request.Context(), identity(c), req.SessionID, c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// EndGame completes a game and settles its pot
func (h *Handler) EndGame(c *gin.Context) {
	var req endGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.game.EndGame(c.Request.Context(), identity(c), req.SessionID, c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// GetGameState returns the full state row for the host console
func (h *Handler) GetGameState(c *gin.Context) {
	state, err := h.game.GetGameState(c.Request.Context(), identity(c), c.Param("gameID"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, state)
}

// CallNextNumber draws the next number
func (h *Handler) CallNextNumber(c *gin.Context) {
	number, err := h.call.CallNextNumber(c.Request.Context(), identity(c), c.Param("gameID"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"number": number})
}

// VoidLastNumber undoes the most recent call
func (h *Handler) VoidLastNumber(c *gin.Context) {
	if err := h.call.VoidLastNumber(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// ToggleBreak puts the game on break or takes it off
func (h *Handler) ToggleBreak(c *gin.Context) {
	var req toggleBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.call.ToggleBreak(c.Request.Context(), identity(c), c.Param("gameID"), req.On); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// ValidateClaim checks a claimed card against the called numbers
func (h *Handler) ValidateClaim(c *gin.Context) {
	var req validateClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	result, err := h.call.ValidateClaim(c.Request.Context(), identity(c), c.Param("gameID"), req.Numbers)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, result)
}

// PauseForValidation freezes the display while a claim is checked
func (h *Handler) PauseForValidation(c *gin.Context) {
	if err := h.stage.PauseForValidation(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// ResumeGame lifts the validation pause
func (h *Handler) ResumeGame(c *gin.Context) {
	if err := h.stage.ResumeGame(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// AnnounceWin puts the win banner up
func (h *Handler) AnnounceWin(c *gin.Context) {
	var req announceWinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	err := h.stage.AnnounceWin(c.Request.Context(), identity(c), c.Param("gameID"), domain.WinStage(req.Stage), req.Jackpot)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// RecordWinner inserts a winner row
func (h *Handler) RecordWinner(c *gin.Context) {
	var req recordWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	winner, err := h.stage.RecordWinner(c.Request.Context(), identity(c), c.Param("gameID"), usecase.RecordWinnerRequest{
		Stage:            domain.WinStage(req.Stage),
		WinnerName:       req.WinnerName,
		PrizeDescription: req.PrizeDescription,
		CallCountAtWin:   req.CallCountAtWin,
		PrizeGiven:       req.PrizeGiven,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, winner)
}

// ListWinners returns all winner rows for a game
func (h *Handler) ListWinners(c *gin.Context) {
	winners, err := h.stage.ListWinners(c.Request.Context(), identity(c), c.Param("gameID"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, winners)
}

// ToggleWinnerPrizeGiven flips the prize-given flag on a winner
func (h *Handler) ToggleWinnerPrizeGiven(c *gin.Context) {
	var req togglePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	err := h.stage.ToggleWinnerPrizeGiven(c.Request.Context(), identity(c), c.Param("gameID"), c.Param("winnerID"), req.Given)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// AdvanceToNextStage moves the game to its next win stage
func (h *Handler) AdvanceToNextStage(c *gin.Context) {
	if err := h.stage.AdvanceToNextStage(c.Request.Context(), identity(c), c.Param("gameID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// SkipStage moves past a stage with no winner
func (h *Handler) SkipStage(c *gin.Context) {
	var req skipStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	err := h.stage.SkipStage(c.Request.Context(), identity(c), c.Param("gameID"), req.CurrentIndex, req.TotalStages)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// VoidWinner marks a winner record void (admin only)
func (h *Handler) VoidWinner(c *gin.Context) {
	var req voidWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := h.stage.VoidWinner(c.Request.Context(), identity(c), c.Param("winnerID"), req.Reason); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// ResetPot manually resets a pot to base (admin only)
func (h *Handler) ResetPot(c *gin.Context) {
	if err := h.pot.ResetPot(c.Request.Context(), identity(c), c.Param("potID")); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// PotInUse reports whether any in-progress game references the pot
func (h *Handler) PotInUse(c *gin.Context) {
	inUse, err := h.pot.PotInUse(c.Request.Context(), c.Param("potID"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"in_use": inUse})
}

// PotHistory returns the audit trail for a pot
func (h *Handler) PotHistory(c *gin.Context) {
	entries, err := h.pot.History(c.Request.Context(), identity(c), c.Param("potID"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, entries)
}

// Snapshot returns the viewer-facing state projection. No auth; this is
// the endpoint viewers hit after every state-changed push.
func (h *Handler) Snapshot(c *gin.Context) {
	gameID := c.Param("gameID")
	v, err, _ := h.snapshots.Do(gameID, func() (interface{}, error) {
		state, err := h.game.Snapshot(c.Request.Context(), gameID)
		if err != nil {
			return nil, err
		}
		return state.Public(), nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, v)
}
