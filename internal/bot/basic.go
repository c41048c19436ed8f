package bot

import (
	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
)

// BasicStrategy plays the standard single-split basic strategy chart:
// pair decisions first, then soft totals, then hard totals keyed on the
// dealer's up card.
type BasicStrategy struct{}

// NewBasicStrategy creates a basic strategy player
func NewBasicStrategy() *BasicStrategy {
	return &BasicStrategy{}
}

// Name returns the strategy name
func (s *BasicStrategy) Name() string { return "basic" }

// Decide picks the chart action for the current hand
func (s *BasicStrategy) Decide(hand *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) game.Action {
	up := dealerUp.Value // 2..11, ace counts 11

	if canSplit {
		if action, ok := s.pairAction(hand.Cards[0], up); ok {
			return action
		}
	}

	value := hand.Value()
	if hand.IsSoft() {
		return s.softAction(value, up, canDouble)
	}
	return s.hardAction(value, up, canDouble)
}

// pairAction handles splittable pairs. Returns false to fall through to the
// total-based tables.
func (s *BasicStrategy) pairAction(c deck.Card, up int) (game.Action, bool) {
	switch {
	case c.IsAce(), c.Rank == deck.Eight:
		// Aces and eights always split.
		return game.Split, true
	case c.Rank == deck.Nine:
		if up <= 9 && up != 7 {
			return game.Split, true
		}
		return game.Stand, true
	case c.Rank == deck.Seven, c.Rank == deck.Two, c.Rank == deck.Three:
		if up <= 7 {
			return game.Split, true
		}
		return game.Hit, true
	case c.Rank == deck.Six:
		if up <= 6 {
			return game.Split, true
		}
		return game.Hit, true
	case c.Rank == deck.Four:
		if up == 5 || up == 6 {
			return game.Split, true
		}
		return game.Hit, true
	default:
		// Tens stand, fives play as a hard ten.
		return 0, false
	}
}

func (s *BasicStrategy) softAction(value, up int, canDouble bool) game.Action {
	switch {
	case value >= 19:
		return game.Stand
	case value == 18:
		if up >= 9 {
			return game.Hit
		}
		if canDouble && up >= 3 && up <= 6 {
			return game.DoubleDown
		}
		return game.Stand
	default: // soft 13-17
		if canDouble && up >= 4 && up <= 6 {
			return game.DoubleDown
		}
		return game.Hit
	}
}

func (s *BasicStrategy) hardAction(value, up int, canDouble bool) game.Action {
	switch {
	case value >= 17:
		return game.Stand
	case value >= 13:
		if up <= 6 {
			return game.Stand
		}
		return game.Hit
	case value == 12:
		if up >= 4 && up <= 6 {
			return game.Stand
		}
		return game.Hit
	case value == 11:
		if canDouble {
			return game.DoubleDown
		}
		return game.Hit
	case value == 10:
		if canDouble && up <= 9 {
			return game.DoubleDown
		}
		return game.Hit
	case value == 9:
		if canDouble && up >= 3 && up <= 6 {
			return game.DoubleDown
		}
		return game.Hit
	default:
		return game.Hit
	}
}
