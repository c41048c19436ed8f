// Package bot provides automated playing strategies for the simulator.
package bot

import (
	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
)

// Strategy decides the next action for a hand against the dealer's up card.
// canDouble and canSplit tell the strategy which of the situational actions
// the hand is currently allowed (two cards, matching ranks, balance cover);
// a Strategy must not return an action it was told is unavailable.
type Strategy interface {
	Name() string
	Decide(hand *game.Hand, dealerUp deck.Card, canDouble, canSplit bool) game.Action
}

// ForName returns the strategy registered under the given name
func ForName(name string) (Strategy, bool) {
	switch name {
	case "basic":
		return NewBasicStrategy(), true
	case "mimic":
		return NewMimicDealer(), true
	case "never-bust":
		return NewNeverBust(), true
	default:
		return nil, false
	}
}

// Names lists the available strategy names
func Names() []string {
	return []string{"basic", "mimic", "never-bust"}
}
