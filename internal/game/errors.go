package game

import "errors"

// Operation failures are local, recoverable conditions. Drivers are expected
// to match with errors.Is, surface a message, and re-prompt; none are fatal.
var (
	// ErrNotBetting is returned when bets are placed outside the betting state
	ErrNotBetting = errors.New("can only place bets in betting state")
	// ErrNotPlayerTurn is returned when a player acts outside the player turn
	ErrNotPlayerTurn = errors.New("not the player's turn")
	// ErrNotDealerTurn is returned when the dealer plays outside the dealer turn
	ErrNotDealerTurn = errors.New("not the dealer's turn")
	// ErrNotRoundOver is returned when outcomes are determined before the round ends
	ErrNotRoundOver = errors.New("round is not over")

	// ErrInvalidBet is returned for a zero or negative bet amount
	ErrInvalidBet = errors.New("bet amount must be positive")
	// ErrBetOutOfRange is returned for a bet outside the table limits
	ErrBetOutOfRange = errors.New("bet is not within the table limits")
	// ErrInsufficientBalance is returned when a bet, double down or split
	// would take the balance negative
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidHandSize is returned for a double down or split on a hand
	// without exactly two cards
	ErrInvalidHandSize = errors.New("hand must have exactly two cards")
	// ErrRankMismatch is returned for a split of two cards of different rank
	ErrRankMismatch = errors.New("cards must be of the same rank to split")
	// ErrInvalidAction is returned for an unrecognised player action
	ErrInvalidAction = errors.New("invalid action")
	// ErrIndexOutOfRange is returned for an invalid hand cursor index
	ErrIndexOutOfRange = errors.New("hand index out of bounds")
)
