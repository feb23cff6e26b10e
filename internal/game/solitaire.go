package game

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	InProgress GameStatus = "inProgress" // Cards still outside the foundations
	Won        GameStatus = "won"        // All 52 cards on the foundations
)

// MoveResult tells the caller whether a transition was applied. A rejected
// transition leaves the game untouched.
type MoveResult struct {
	Accepted bool `json:"accepted"`
}

var (
	accepted = MoveResult{Accepted: true}
	rejected = MoveResult{Accepted: false}
)

type SolitaireGame struct {
	ID             string                `json:"id"`
	Tableau        [TableauPiles]Pile    `json:"tableau"`
	Stock          Pile                  `json:"stock"`
	Waste          Pile                  `json:"waste"`
	Foundations    [FoundationPiles]Pile `json:"foundations"`
	Status         GameStatus            `json:"status"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	StartedAt      time.Time             `json:"startedAt"`
	CompletedAt    *time.Time            `json:"completedAt,omitempty"`
	ScoreSubmitted bool                  `json:"scoreSubmitted"`

	clock func() time.Time
}

// NewSolitaireGame creates a game with a freshly shuffled deck already dealt
func NewSolitaireGame(rng RNG) *SolitaireGame {
	now := time.Now()

	g := &SolitaireGame{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	g.Deal(NewDeck().Shuffle(rng))

	return g
}

// SetClock replaces the time source used for timestamps and the timer
func (g *SolitaireGame) SetClock(clock func() time.Time) {
	g.clock = clock
}

func (g *SolitaireGame) now() time.Time {
	if g.clock != nil {
		return g.clock()
	}
	return time.Now()
}

// Deal resets the board and deals the deck: tableau pile i gets i+1 cards with
// only the last one face up, and the rest of the deck becomes the stock.
// The deck must hold exactly the 52 distinct cards; it is emptied on success.
func (g *SolitaireGame) Deal(deck *Deck) MoveResult {
	if deck == nil || !isFullDeck(deck.Cards) {
		return rejected
	}

	g.reset()

	for col := 0; col < TableauPiles; col++ {
		for row := 0; row <= col; row++ {
			card, _ := deck.DrawCard()
			card.FaceUp = row == col
			g.Tableau[col] = append(g.Tableau[col], card)
		}
	}

	g.Stock = make(Pile, 0, deck.RemainingCards())
	for _, card := range deck.Cards {
		card.FaceUp = false
		g.Stock = append(g.Stock, card)
	}
	deck.Cards = nil

	return accepted
}

// Restart throws away the current board and deals a new shuffled deck
func (g *SolitaireGame) Restart(rng RNG) MoveResult {
	return g.Deal(NewDeck().Shuffle(rng))
}

func (g *SolitaireGame) reset() {
	now := g.now()

	for i := range g.Tableau {
		g.Tableau[i] = Pile{}
	}
	for i := range g.Foundations {
		g.Foundations[i] = Pile{}
	}
	g.Stock = Pile{}
	g.Waste = Pile{}

	g.Status = InProgress
	g.StartedAt = now
	g.UpdatedAt = now
	g.CompletedAt = nil
	g.ScoreSubmitted = false
}

// DrawFromStock turns the top stock card onto the waste. With an empty stock
// the waste is turned back over to become the stock again.
func (g *SolitaireGame) DrawFromStock() MoveResult {
	if g.Status != InProgress {
		return rejected
	}

	switch {
	case len(g.Stock) > 0:
		card := g.Stock[len(g.Stock)-1]
		g.Stock = g.Stock[:len(g.Stock)-1]
		card.FaceUp = true
		g.Waste = append(g.Waste, card)

	case len(g.Waste) > 0:
		stock := make(Pile, 0, len(g.Waste))
		for i := len(g.Waste) - 1; i >= 0; i-- {
			card := g.Waste[i]
			card.FaceUp = false
			stock = append(stock, card)
		}
		g.Stock = stock
		g.Waste = Pile{}

	default:
		return rejected
	}

	return g.commit()
}

// Flip turns over the face-down top card of a tableau pile
func (g *SolitaireGame) Flip(pileIndex, cardPosition int) MoveResult {
	if g.Status != InProgress || pileIndex < 0 || pileIndex >= TableauPiles {
		return rejected
	}

	pile := g.Tableau[pileIndex]
	if len(pile) == 0 || cardPosition != len(pile)-1 || pile[cardPosition].FaceUp {
		return rejected
	}

	g.Tableau[pileIndex][cardPosition].FaceUp = true
	return g.commit()
}

// MoveToTableau moves the card at cardPosition of the source pile, together
// with every card above it, onto tableau pile destIndex.
func (g *SolitaireGame) MoveToTableau(from PileRef, cardPosition, destIndex int) MoveResult {
	if g.Status != InProgress || destIndex < 0 || destIndex >= TableauPiles {
		return rejected
	}
	if from.Kind == TableauPile && from.Index == destIndex {
		return rejected
	}

	source := g.pile(from)
	if source == nil || !movable(from.Kind, *source, cardPosition) {
		return rejected
	}

	var target *Card
	if top, ok := g.Tableau[destIndex].Top(); ok {
		if !top.FaceUp {
			return rejected
		}
		target = &top
	}

	if !CanMoveTo((*source)[cardPosition], target) {
		return rejected
	}

	stack := make(Pile, len(*source)-cardPosition)
	copy(stack, (*source)[cardPosition:])
	*source = (*source)[:cardPosition]
	g.Tableau[destIndex] = append(g.Tableau[destIndex], stack...)

	return g.commit()
}

// MoveToFoundation moves the single top card of the waste or of a tableau
// pile onto foundation foundationIndex.
func (g *SolitaireGame) MoveToFoundation(from PileRef, foundationIndex int) MoveResult {
	if g.Status != InProgress || foundationIndex < 0 || foundationIndex >= FoundationPiles {
		return rejected
	}
	if from.Kind != WastePile && from.Kind != TableauPile {
		return rejected
	}

	source := g.pile(from)
	if source == nil {
		return rejected
	}

	card, ok := source.Top()
	if !ok || !card.FaceUp || !CanMoveToFoundation(card, g.Foundations[foundationIndex]) {
		return rejected
	}

	*source = (*source)[:len(*source)-1]
	g.Foundations[foundationIndex] = append(g.Foundations[foundationIndex], card)

	return g.commit()
}

// Move routes a drag-and-drop of the card at cardPosition onto the target
// pile. Only the top card can go to a foundation.
func (g *SolitaireGame) Move(from PileRef, cardPosition int, to PileRef) MoveResult {
	switch to.Kind {
	case TableauPile:
		return g.MoveToTableau(from, cardPosition, to.Index)
	case FoundationPile:
		source := g.pile(from)
		if source == nil || cardPosition != len(*source)-1 {
			return rejected
		}
		return g.MoveToFoundation(from, to.Index)
	default:
		return rejected
	}
}

// IsWon reports whether all cards are on the foundations
func (g *SolitaireGame) IsWon() bool {
	return IsWon(g.Foundations)
}

// ElapsedSeconds returns whole seconds since the deal, frozen once the game is won
func (g *SolitaireGame) ElapsedSeconds() int {
	end := g.now()
	if g.CompletedAt != nil {
		end = *g.CompletedAt
	}

	elapsed := int(end.Sub(g.StartedAt) / time.Second)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// commit stamps an accepted transition and stops the timer on the first win.
func (g *SolitaireGame) commit() MoveResult {
	now := g.now()
	g.UpdatedAt = now

	if g.Status == InProgress && g.IsWon() {
		g.Status = Won
		g.CompletedAt = &now
	}

	return accepted
}

func (g *SolitaireGame) pile(ref PileRef) *Pile {
	switch ref.Kind {
	case WastePile:
		return &g.Waste
	case TableauPile:
		if ref.Index >= 0 && ref.Index < TableauPiles {
			return &g.Tableau[ref.Index]
		}
	case FoundationPile:
		if ref.Index >= 0 && ref.Index < FoundationPiles {
			return &g.Foundations[ref.Index]
		}
	}
	return nil
}

// movable reports whether the card at position can be picked up from a pile
// of the given kind.
func movable(kind PileKind, pile Pile, position int) bool {
	if position < 0 || position >= len(pile) || !pile[position].FaceUp {
		return false
	}

	switch kind {
	case WastePile, FoundationPile:
		return position == len(pile)-1
	case TableauPile:
		return position >= pile.faceUpStart()
	default:
		return false
	}
}

func isFullDeck(cards []Card) bool {
	if len(cards) != DeckSize {
		return false
	}

	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		c.FaceUp = false
		if c.Rank.Index() < 0 || c.Suit.Symbol() == "?" || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// Clone returns a deep copy that shares no piles with the original
func (g *SolitaireGame) Clone() *SolitaireGame {
	out := *g

	for i := range g.Tableau {
		out.Tableau[i] = g.Tableau[i].clone()
	}
	for i := range g.Foundations {
		out.Foundations[i] = g.Foundations[i].clone()
	}
	out.Stock = g.Stock.clone()
	out.Waste = g.Waste.clone()

	if g.CompletedAt != nil {
		completed := *g.CompletedAt
		out.CompletedAt = &completed
	}

	return &out
}

// GetGameState returns the view sent to the client. Face-down cards are
// masked and the stock is reported only by size.
func (g *SolitaireGame) GetGameState() map[string]interface{} {
	tableau := make([]Pile, TableauPiles)
	for i, pile := range g.Tableau {
		tableau[i] = maskFaceDown(pile)
	}

	foundations := make([]Pile, FoundationPiles)
	for i, pile := range g.Foundations {
		foundations[i] = pile.clone()
	}

	return map[string]interface{}{
		"id":             g.ID,
		"status":         g.Status,
		"tableau":        tableau,
		"waste":          g.Waste.clone(),
		"stockCount":     len(g.Stock),
		"foundations":    foundations,
		"elapsed":        g.ElapsedSeconds(),
		"scoreSubmitted": g.ScoreSubmitted,
		"updatedAt":      g.UpdatedAt,
	}
}

func maskFaceDown(pile Pile) Pile {
	out := make(Pile, len(pile))
	for i, c := range pile {
		if c.FaceUp {
			out[i] = c
		}
	}
	return out
}
