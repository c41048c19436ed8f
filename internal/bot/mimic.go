package bot

import (
	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
)

// MimicDealer plays by dealer rules: hit below 17, stand at 17 or more,
// never double or split. A useful baseline for the simulator.
type MimicDealer struct{}

// NewMimicDealer creates a dealer-mimic player
func NewMimicDealer() *MimicDealer {
	return &MimicDealer{}
}

// Name returns the strategy name
func (s *MimicDealer) Name() string { return "mimic" }

// Decide hits below 17, stands otherwise
func (s *MimicDealer) Decide(hand *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) game.Action {
	if hand.Value() < 17 {
		return game.Hit
	}
	return game.Stand
}

// NeverBust stands as soon as another card could bust the hand.
type NeverBust struct{}

// NewNeverBust creates a never-bust player
func NewNeverBust() *NeverBust {
	return &NeverBust{}
}

// Name returns the strategy name
func (s *NeverBust) Name() string { return "never-bust" }

// Decide hits only while no card can bust the hand
func (s *NeverBust) Decide(hand *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) game.Action {
	if hand.Value() <= 11 {
		return game.Hit
	}
	return game.Stand
}
