package api

import (
	"context"
	"time"

	"github.com/calvinwijaya/solitaire-be/internal/game"
)

// RunTimer pushes the elapsed time of every watched, unfinished game at each
// interval until ctx is done. It only reads game state.
func (h *Handlers) RunTimer(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.broadcastTicks()
		}
	}
}

func (h *Handlers) broadcastTicks() {
	if h.hub == nil {
		return
	}

	for _, gameID := range h.hub.ActiveGames() {
		g, err := h.store.GetGame(gameID)
		if err != nil || g.Status != game.InProgress {
			continue
		}

		h.hub.BroadcastToGame(gameID, Message{
			Type:   "tick",
			GameID: gameID,
			Data:   map[string]int{"elapsed": g.ElapsedSeconds()},
		})
	}
}
