package game

type PileKind string

const (
	StockPile      PileKind = "stock"
	WastePile      PileKind = "waste"
	TableauPile    PileKind = "tableau"
	FoundationPile PileKind = "foundation"
)

const (
	TableauPiles    = 7
	FoundationPiles = 4
)

// PileRef identifies one pile on the board. Index is only meaningful for
// tableau and foundation piles.
type PileRef struct {
	Kind  PileKind `json:"kind"`
	Index int      `json:"index"`
}

// Pile is an ordered run of cards; the top is the last element.
type Pile []Card

// Top returns the most recently placed card
func (p Pile) Top() (Card, bool) {
	if len(p) == 0 {
		return Card{}, false
	}
	return p[len(p)-1], true
}

// faceUpStart returns the index where the face-up suffix begins.
func (p Pile) faceUpStart() int {
	i := len(p)
	for i > 0 && p[i-1].FaceUp {
		i--
	}
	return i
}

func (p Pile) clone() Pile {
	if p == nil {
		return Pile{}
	}
	out := make(Pile, len(p))
	copy(out, p)
	return out
}
