package api

import (
	"errors"
	"fmt"

	"github.com/calvinwijaya/solitaire-be/internal/game"
)

const (
	ActionDraw    = "draw"
	ActionFlip    = "flip"
	ActionMove    = "move"
	ActionRestart = "restart"
)

var errUnknownAction = errors.New("unknown action")

// Action is a player gesture translated into a game transition. The same
// shape arrives as an HTTP body or as a WebSocket message.
type Action struct {
	Type         string       `json:"type"`
	PileIndex    int          `json:"pileIndex"`
	CardPosition int          `json:"cardPosition"`
	From         game.PileRef `json:"from"`
	To           game.PileRef `json:"to"`
}

// applyAction runs the action against the stored game and broadcasts the new
// state when it was accepted.
func (h *Handlers) applyAction(gameID string, a Action) (game.MoveResult, *game.SolitaireGame, error) {
	var (
		result  game.MoveResult
		wasOver bool
	)

	g, err := h.store.UpdateGame(gameID, func(g *game.SolitaireGame) error {
		wasOver = g.Status == game.Won

		switch a.Type {
		case ActionDraw:
			result = g.DrawFromStock()
		case ActionFlip:
			result = g.Flip(a.PileIndex, a.CardPosition)
		case ActionMove:
			result = g.Move(a.From, a.CardPosition, a.To)
		case ActionRestart:
			result = g.Restart(h.newRNG())
		default:
			return fmt.Errorf("%w %q", errUnknownAction, a.Type)
		}
		return nil
	})
	if err != nil {
		return game.MoveResult{}, nil, err
	}

	if !result.Accepted {
		h.logger.Debug("action rejected", "game_id", gameID, "action", a.Type)
		return result, g, nil
	}

	if !wasOver && g.Status == game.Won {
		h.logger.Info("game won", "game_id", gameID, "elapsed_s", g.ElapsedSeconds())
	}

	if h.hub != nil {
		h.hub.BroadcastGameUpdate(g)
	}

	return result, g, nil
}
