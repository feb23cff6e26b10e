package game

import (
	"math/rand/v2"
)

// RNG is the random source used for shuffling. *rand.Rand satisfies it.
type RNG interface {
	IntN(n int) int
}

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

type Deck struct {
	Cards []Card
}

// NewRNG returns an auto-seeded random source
func NewRNG() RNG {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRNG returns a deterministic random source for replays and tests
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed))
}

// NewDeck creates a new standard 52-card deck, all cards face down
func NewDeck() *Deck {
	deck := &Deck{Cards: make([]Card, 0, DeckSize)}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck.Cards = append(deck.Cards, Card{
				Suit:   suit,
				Rank:   rank,
				FaceUp: false,
			})
		}
	}

	return deck
}

// Shuffle randomizes the order of cards in place and returns the same deck
func (d *Deck) Shuffle(rng RNG) *Deck {
	// Fisher-Yates shuffle algorithm
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
	return d
}

// DrawCard removes and returns the top (last) card from the deck
func (d *Deck) DrawCard() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}

	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card, true
}

// RemainingCards returns the number of cards left in the deck
func (d *Deck) RemainingCards() int {
	return len(d.Cards)
}
