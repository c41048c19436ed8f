package game

import (
	"strings"

	"github.com/cardtable/blackjack/internal/deck"
)

// HandStatus represents the lifecycle state of a single hand
type HandStatus int

const (
	// StatusBetting marks a fresh hand that has no wager on it yet
	StatusBetting HandStatus = iota
	// StatusPlaying marks a hand that can still take actions
	StatusPlaying
	StatusStand
	StatusBusted
	StatusWin
	StatusLose
	StatusPush
)

// String returns the string representation of a hand status
func (hs HandStatus) String() string {
	switch hs {
	case StatusBetting:
		return "betting"
	case StatusPlaying:
		return "playing"
	case StatusStand:
		return "stand"
	case StatusBusted:
		return "busted"
	case StatusWin:
		return "win"
	case StatusLose:
		return "lose"
	case StatusPush:
		return "push"
	default:
		return "unknown"
	}
}

// Final reports whether the hand can take no further actions this round.
func (hs HandStatus) Final() bool {
	return hs != StatusBetting && hs != StatusPlaying
}

// Hand is an ordered sequence of cards plus a status tag. Card order is deal
// order, which matters for display and for two-card checks (double, split).
type Hand struct {
	Cards  []deck.Card
	Status HandStatus
}

// NewHand creates an empty hand ready to play
func NewHand() *Hand {
	return &Hand{Status: StatusPlaying}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// Value computes the hand's blackjack value. Aces count 11 until the total
// exceeds 21, then soften to 1 one at a time. Derived, never stored.
func (h *Hand) Value() int {
	value := 0
	aces := 0
	for _, c := range h.Cards {
		if c.IsAce() {
			aces++
		}
		value += c.Value
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBlackjack reports a natural: exactly two cards totalling 21. A 21
// reached by hitting or after a split is not a blackjack.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Value() == 21
}

// HasAce reports whether any card in the hand is an ace
func (h *Hand) HasAce() bool {
	for _, c := range h.Cards {
		if c.IsAce() {
			return true
		}
	}
	return false
}

// IsSoft reports whether the hand's value counts an ace as 11
func (h *Hand) IsSoft() bool {
	value := 0
	aces := 0
	for _, c := range h.Cards {
		if c.IsAce() {
			aces++
		}
		value += c.Value
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return aces > 0
}

// String returns the hand's cards separated by spaces, e.g. "A♠ 10♥"
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
