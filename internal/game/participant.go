package game

import "fmt"

// Role distinguishes wagering participants from the dealer. The dealer holds
// hands like any participant but has a fixed zero balance and never wagers.
type Role int

const (
	RolePlayer Role = iota
	RoleDealer
)

// String returns the string representation of a role
func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleDealer:
		return "dealer"
	default:
		return "unknown"
	}
}

// Participant owns a balance, one or more hands (post-split), a parallel
// slice of bet amounts, and a cursor for the hand currently being played.
// len(Hands) == len(Bets) at all times.
type Participant struct {
	Name    string
	Role    Role
	Balance int
	Hands   []*Hand
	Bets    []int

	currentHand int
}

// NewPlayer creates a wagering participant with a starting balance and one
// empty hand.
func NewPlayer(name string, balance int) *Participant {
	return &Participant{
		Name:    name,
		Role:    RolePlayer,
		Balance: balance,
		Hands:   []*Hand{NewHand()},
		Bets:    []int{0},
	}
}

// NewDealer creates the dealer: zero balance, never wagers.
func NewDealer() *Participant {
	return &Participant{
		Name:  "Dealer",
		Role:  RoleDealer,
		Hands: []*Hand{NewHand()},
		Bets:  []int{0},
	}
}

// PlaceBet wagers amount on the hand at handIndex, deducting from the
// balance and marking the hand as playing. All-or-nothing: on error neither
// balance nor hand status changes.
func (p *Participant) PlaceBet(amount int, handIndex int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBet, amount)
	}
	if amount > p.Balance {
		return ErrInsufficientBalance
	}

	for len(p.Bets) <= handIndex {
		p.Bets = append(p.Bets, 0)
	}

	p.Bets[handIndex] = amount
	p.Balance -= amount
	if handIndex < len(p.Hands) {
		p.Hands[handIndex].Status = StatusPlaying
	}
	return nil
}

// CurrentHand returns the hand the cursor points at
func (p *Participant) CurrentHand() *Hand {
	return p.Hands[p.currentHand]
}

// CurrentBet returns the bet on the current hand
func (p *Participant) CurrentBet() int {
	return p.Bets[p.currentHand]
}

// CurrentHandIndex returns the cursor position
func (p *Participant) CurrentHandIndex() int {
	return p.currentHand
}

// SetCurrentHandIndex moves the cursor, failing if the index does not refer
// to an existing hand.
func (p *Participant) SetCurrentHandIndex(i int) error {
	if i < 0 || i >= len(p.Hands) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	p.currentHand = i
	return nil
}

// AddHand appends a new hand/bet pair. Used by split.
func (p *Participant) AddHand(hand *Hand, bet int) {
	p.Hands = append(p.Hands, hand)
	p.Bets = append(p.Bets, bet)
}

// AllHandsPlayed reports whether no hand is still playing
func (p *Participant) AllHandsPlayed() bool {
	for _, h := range p.Hands {
		if h.Status == StatusPlaying {
			return false
		}
	}
	return true
}

// OverallStatus aggregates hand statuses into a headline status. Priority:
// any playing, else all busted, else any win, else any push, else stand.
// A split that mixes a win and a non-busted loss reports "win"; per-hand
// statuses remain available through the snapshot for finer messaging.
func (p *Participant) OverallStatus() HandStatus {
	anyWin, anyPush, allBusted := false, false, true
	for _, h := range p.Hands {
		switch h.Status {
		case StatusPlaying:
			return StatusPlaying
		case StatusWin:
			anyWin = true
		case StatusPush:
			anyPush = true
		}
		if h.Status != StatusBusted {
			allBusted = false
		}
	}
	switch {
	case allBusted:
		return StatusBusted
	case anyWin:
		return StatusWin
	case anyPush:
		return StatusPush
	default:
		return StatusStand
	}
}

// ClearHands resets the participant for a new round: one fresh hand awaiting
// a bet, bets back to a single zero, cursor to the first hand.
func (p *Participant) ClearHands() {
	fresh := NewHand()
	fresh.Status = StatusBetting
	p.Hands = []*Hand{fresh}
	p.Bets = []int{0}
	p.currentHand = 0
}
