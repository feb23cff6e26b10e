package game

import (
	"strings"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()

	if got := deck.RemainingCards(); got != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, got)
	}

	seen := make(map[string]bool)
	for i, c := range deck.Cards {
		if c.FaceUp {
			t.Errorf("card %d (%s) should be face down", i, c)
		}
		if seen[c.String()] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c.String()] = true
	}

	if first := deck.Cards[0]; first.Suit != Spades || first.Rank != Ace {
		t.Errorf("expected deck to start with A♠, got %s", first)
	}
	if last := deck.Cards[DeckSize-1]; last.Suit != Clubs || last.Rank != King {
		t.Errorf("expected deck to end with K♣, got %s", last)
	}
}

func TestShuffle_SameSeedSameOrder(t *testing.T) {
	a := NewDeck().Shuffle(NewSeededRNG(42))
	b := NewDeck().Shuffle(NewSeededRNG(42))

	for i := range a.Cards {
		if a.Cards[i] != b.Cards[i] {
			t.Fatalf("decks differ at %d: %s vs %s", i, a.Cards[i], b.Cards[i])
		}
	}
}

func TestShuffle_ReturnsSameDeck(t *testing.T) {
	deck := NewDeck()
	if got := deck.Shuffle(NewSeededRNG(1)); got != deck {
		t.Fatal("expected Shuffle to return the receiver")
	}
	if !isFullDeck(deck.Cards) {
		t.Fatal("shuffled deck is no longer a full deck")
	}
}

func TestShuffle_Uniform(t *testing.T) {
	rng := NewSeededRNG(7)
	counts := make(map[string]int)
	const trials = 60000

	for i := 0; i < trials; i++ {
		deck := &Deck{Cards: []Card{
			{Suit: Spades, Rank: Ace},
			{Suit: Spades, Rank: Two},
			{Suit: Spades, Rank: Three},
		}}
		deck.Shuffle(rng)

		var b strings.Builder
		for _, c := range deck.Cards {
			b.WriteString(string(c.Rank))
		}
		counts[b.String()]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, saw %d", len(counts))
	}

	expected := trials / 6
	for perm, n := range counts {
		if n < expected*9/10 || n > expected*11/10 {
			t.Errorf("permutation %s drawn %d times, expected about %d", perm, n, expected)
		}
	}
}

func TestDrawCard(t *testing.T) {
	deck := &Deck{Cards: []Card{{Suit: Hearts, Rank: Ace}, {Suit: Clubs, Rank: King}}}

	card, ok := deck.DrawCard()
	if !ok || card.Rank != King {
		t.Fatalf("expected to draw K♣ from the top, got %s (ok=%v)", card, ok)
	}

	deck.DrawCard()
	if _, ok := deck.DrawCard(); ok {
		t.Fatal("expected draw from empty deck to fail")
	}
}
