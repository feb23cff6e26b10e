package game

// CanMoveTo reports whether card may be placed on a tableau pile whose top is
// target. A nil target means the pile is empty and only a King may go there.
func CanMoveTo(card Card, target *Card) bool {
	if target == nil {
		return card.Rank == King
	}

	cardIndex := card.Rank.Index()
	targetIndex := target.Rank.Index()
	if cardIndex < 0 || targetIndex < 0 {
		return false
	}

	return card.Suit.IsRed() != target.Suit.IsRed() && cardIndex == targetIndex-1
}

// CanMoveToFoundation reports whether card may be placed on the foundation.
// An empty foundation takes any Ace; after that it follows the Ace's suit.
func CanMoveToFoundation(card Card, foundation Pile) bool {
	top, ok := foundation.Top()
	if !ok {
		return card.Rank == Ace
	}

	cardIndex := card.Rank.Index()
	if cardIndex < 0 {
		return false
	}

	return card.Suit == top.Suit && cardIndex == top.Rank.Index()+1
}

// IsWon reports whether every card has reached a foundation
func IsWon(foundations [FoundationPiles]Pile) bool {
	total := 0
	for _, pile := range foundations {
		total += len(pile)
	}
	return total == DeckSize
}
