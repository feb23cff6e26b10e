package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calvinwijaya/solitaire-be/internal/game"
	"github.com/calvinwijaya/solitaire-be/internal/leaderboard"
	"github.com/calvinwijaya/solitaire-be/internal/store"
	"github.com/gorilla/mux"
)

var (
	errNotWon         = errors.New("game is not won yet")
	errScoreSubmitted = errors.New("score already submitted")
)

// Handlers contains all the API handlers
type Handlers struct {
	store  store.Store
	board  *leaderboard.Leaderboard
	hub    *Hub
	logger *slog.Logger
	newRNG func() game.RNG
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(store store.Store, board *leaderboard.Leaderboard, hub *Hub, logger *slog.Logger) *Handlers {
	h := &Handlers{
		store:  store,
		board:  board,
		hub:    hub,
		logger: logger,
		newRNG: game.NewRNG,
	}

	if hub != nil {
		hub.SetActionHandler(h.handleSocketAction)
	}

	return h
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")

	// Game endpoints
	r.HandleFunc("/api/games", h.ListGames).Methods("GET")
	r.HandleFunc("/api/game/new", h.NewGame).Methods("POST")
	r.HandleFunc("/api/game/{id}", h.GetGame).Methods("GET")
	r.HandleFunc("/api/game/{id}", h.DeleteGame).Methods("DELETE")
	r.HandleFunc("/api/game/{id}/draw", h.Draw).Methods("POST")
	r.HandleFunc("/api/game/{id}/flip", h.Flip).Methods("POST")
	r.HandleFunc("/api/game/{id}/move", h.Move).Methods("POST")
	r.HandleFunc("/api/game/{id}/restart", h.Restart).Methods("POST")
	r.HandleFunc("/api/game/{id}/score", h.SubmitScore).Methods("POST")

	// Leaderboard endpoints
	r.HandleFunc("/api/leaderboard", h.GetLeaderboard).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws", h.WebSocket)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// Healthz reports that the server is up
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	response(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewGame deals a new solitaire game
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	g := game.NewSolitaireGame(h.newRNG())

	if err := h.store.SaveGame(g); err != nil {
		h.logger.Error("save game", "game_id", g.ID, "error", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to save game")
		return
	}

	h.logger.Info("game created", "game_id", g.ID)
	response(w, http.StatusCreated, g.GetGameState())
}

// GetGame returns the current state of a game
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	g, err := h.store.GetGame(gameID)
	if err != nil {
		h.storeError(w, gameID, err)
		return
	}

	response(w, http.StatusOK, g.GetGameState())
}

// GameSummary is the listing view of a stored game
type GameSummary struct {
	ID             string          `json:"id"`
	Status         game.GameStatus `json:"status"`
	Elapsed        int             `json:"elapsed"`
	ScoreSubmitted bool            `json:"scoreSubmitted"`
}

// ListGames returns a summary of every stored game
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.GetAllGames()
	if err != nil {
		h.logger.Error("list games", "error", err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving games")
		return
	}

	summaries := make([]GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, GameSummary{
			ID:             g.ID,
			Status:         g.Status,
			Elapsed:        g.ElapsedSeconds(),
			ScoreSubmitted: g.ScoreSubmitted,
		})
	}

	response(w, http.StatusOK, summaries)
}

// DeleteGame removes a game and disconnects everyone watching it
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := h.store.DeleteGame(gameID); err != nil {
		h.storeError(w, gameID, err)
		return
	}

	if h.hub != nil {
		h.hub.CloseGame(gameID)
	}

	h.logger.Info("game deleted", "game_id", gameID)
	w.WriteHeader(http.StatusNoContent)
}

// Draw turns over the next stock card, or recycles the waste
func (h *Handlers) Draw(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, Action{Type: ActionDraw})
}

// Flip turns over the face-down top card of a tableau pile
func (h *Handlers) Flip(w http.ResponseWriter, r *http.Request) {
	var a Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	a.Type = ActionFlip

	h.act(w, r, a)
}

// Move drops a card (and the cards above it) onto another pile
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	var a Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	a.Type = ActionMove

	h.act(w, r, a)
}

// Restart deals a fresh game under the same ID
func (h *Handlers) Restart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, Action{Type: ActionRestart})
}

func (h *Handlers) act(w http.ResponseWriter, r *http.Request, a Action) {
	gameID := mux.Vars(r)["id"]

	result, g, err := h.applyAction(gameID, a)
	if err != nil {
		h.storeError(w, gameID, err)
		return
	}

	response(w, http.StatusOK, map[string]interface{}{
		"accepted": result.Accepted,
		"game":     g.GetGameState(),
	})
}

// SubmitScore puts the completion time of a won game on the leaderboard
func (h *Handlers) SubmitScore(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errorResponse(w, http.StatusBadRequest, "Player name is required")
		return
	}

	// The board is only written once the submitted mark is saved
	var elapsed int
	_, err := h.store.UpdateGame(gameID, func(g *game.SolitaireGame) error {
		if g.Status != game.Won {
			return errNotWon
		}
		if g.ScoreSubmitted {
			return errScoreSubmitted
		}

		elapsed = g.ElapsedSeconds()
		g.ScoreSubmitted = true
		return nil
	})

	switch {
	case errors.Is(err, errNotWon), errors.Is(err, errScoreSubmitted):
		errorResponse(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.storeError(w, gameID, err)
		return
	}

	entries, err := h.board.Record(r.Context(), name, elapsed)
	if err != nil {
		h.logger.Error("record score", "game_id", gameID, "error", err)

		// Let the player try again
		if _, uerr := h.store.UpdateGame(gameID, func(g *game.SolitaireGame) error {
			g.ScoreSubmitted = false
			return nil
		}); uerr != nil {
			h.logger.Error("reset score flag", "game_id", gameID, "error", uerr)
		}

		errorResponse(w, http.StatusInternalServerError, "Failed to record score")
		return
	}

	h.logger.Info("score recorded", "game_id", gameID, "name", name, "elapsed_s", elapsed)
	response(w, http.StatusCreated, entries)
}

// GetLeaderboard returns the fastest completion times
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.List(r.Context())
	if err != nil {
		h.logger.Error("read leaderboard", "error", err)
		errorResponse(w, http.StatusInternalServerError, "Error retrieving leaderboard")
		return
	}

	response(w, http.StatusOK, entries)
}

// storeError maps a store failure to an HTTP status
func (h *Handlers) storeError(w http.ResponseWriter, gameID string, err error) {
	switch {
	case errors.Is(err, store.ErrGameNotFound):
		errorResponse(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, errUnknownAction):
		errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("game store", "game_id", gameID, "error", err)
		errorResponse(w, http.StatusInternalServerError, "Failed to update game")
	}
}
