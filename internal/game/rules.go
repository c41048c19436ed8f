package game

import "fmt"

// Rules holds the static table configuration consumed by every operation.
// Immutable for the lifetime of a session.
type Rules struct {
	// BlackjackPayout is the payout multiplier for a natural (1.5 = 3:2).
	// Winnings are truncated toward zero to whole currency units.
	BlackjackPayout float64
	// DealerHitsSoft17 makes the dealer draw one more card on a soft 17
	DealerHitsSoft17 bool
	MinBet           int
	MaxBet           int
	NumDecks         int
	// ReshufflePenetration is the fraction of the shoe consumed before the
	// next round start forces a rebuild.
	ReshufflePenetration float64
}

// DefaultRules returns the standard table configuration
func DefaultRules() Rules {
	return Rules{
		BlackjackPayout:      1.5,
		DealerHitsSoft17:     true,
		MinBet:               10,
		MaxBet:               100,
		NumDecks:             6,
		ReshufflePenetration: 0.75,
	}
}

// Validate checks the rules for configuration errors
func (r Rules) Validate() error {
	if r.NumDecks < 1 {
		return fmt.Errorf("num decks must be at least 1, got %d", r.NumDecks)
	}
	if r.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive, got %d", r.MinBet)
	}
	if r.MaxBet < r.MinBet {
		return fmt.Errorf("max bet %d must be at least min bet %d", r.MaxBet, r.MinBet)
	}
	if r.BlackjackPayout < 0 {
		return fmt.Errorf("blackjack payout must not be negative, got %f", r.BlackjackPayout)
	}
	if r.ReshufflePenetration <= 0 || r.ReshufflePenetration > 1 {
		return fmt.Errorf("reshuffle penetration must be in (0, 1], got %f", r.ReshufflePenetration)
	}
	return nil
}
