package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardtable/blackjack/internal/deck"
)

// State represents the round lifecycle state
type State int

const (
	StateBetting State = iota
	StatePlayerTurn
	StateDealerTurn
	StateRoundOver
)

// String returns the string representation of a round state
func (s State) String() string {
	switch s {
	case StateBetting:
		return "betting"
	case StatePlayerTurn:
		return "playerTurn"
	case StateDealerTurn:
		return "dealerTurn"
	case StateRoundOver:
		return "roundOver"
	default:
		return "unknown"
	}
}

// Action represents a player decision during their turn
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
	Split
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case DoubleDown:
		return "doubleDown"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// ParseAction converts an action token (e.g. from the wire protocol) into an
// Action, failing with ErrInvalidAction for unrecognised tokens.
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "doubleDown", "double":
		return DoubleDown, nil
	case "split":
		return Split, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// Round is the table state machine: players, dealer, shoe, rules and the
// current lifecycle state. Operations mutate the round in place and fail
// with typed errors without partial effect. A Round is single-threaded;
// concurrent drivers must serialise access per instance.
type Round struct {
	Players []*Participant
	Dealer  *Participant
	Shoe    *deck.Shoe
	Rules   Rules

	state  State
	logger *log.Logger
	bus    EventBus
}

// Option configures a Round
type Option func(*Round)

// WithShoe supplies a pre-built shoe, typically rigged for tests
func WithShoe(s *deck.Shoe) Option {
	return func(r *Round) { r.Shoe = s }
}

// WithLogger supplies the round's logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Round) { r.logger = logger }
}

// WithEventBus supplies a shared event bus
func WithEventBus(bus EventBus) Option {
	return func(r *Round) { r.bus = bus }
}

// NewRound creates a table session with the given rules and players. The
// dealer and shoe are owned by the round; the initial state is betting.
func NewRound(rules Rules, players []*Participant, opts ...Option) *Round {
	r := &Round{
		Players: players,
		Dealer:  NewDealer(),
		Rules:   rules,
		state:   StateBetting,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Shoe == nil {
		r.Shoe = deck.NewShoe(rules.NumDecks, nil)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.bus == nil {
		r.bus = NewEventBus()
	}
	// Fresh participants start a round unwagered.
	for _, p := range r.Players {
		p.ClearHands()
	}
	r.Dealer.ClearHands()
	return r
}

// State returns the current round state
func (r *Round) State() State {
	return r.state
}

// Events returns the round's event bus for subscribing
func (r *Round) Events() EventBus {
	return r.bus
}

// PlaceBets validates and places each player's wager for the coming round.
// Fails with ErrNotBetting outside the betting state and ErrBetOutOfRange
// for amounts outside the table limits. Placement is all-or-nothing per
// player; an error aborts before touching later players.
func (r *Round) PlaceBets(bets map[*Participant]int) error {
	if r.state != StateBetting {
		return ErrNotBetting
	}
	for p, amount := range bets {
		if amount < r.Rules.MinBet || amount > r.Rules.MaxBet {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrBetOutOfRange, amount, r.Rules.MinBet, r.Rules.MaxBet)
		}
		if err := p.PlaceBet(amount, 0); err != nil {
			return err
		}
		r.logger.Debug("bet placed", "player", p.Name, "amount", amount, "balance", p.Balance)
	}
	return nil
}

// StartRound deals the opening cards and moves to the player turn. If the
// shoe's penetration has reached the reshuffle threshold the shoe is rebuilt
// first. Deal order is interleaved: each player's first hand, then the
// dealer, twice over.
func (r *Round) StartRound() {
	if pen := r.Shoe.Penetration(); pen >= r.Rules.ReshufflePenetration {
		r.logger.Info("reshuffling shoe", "penetration", fmt.Sprintf("%.2f", pen))
		r.Shoe.Rebuild()
		r.bus.Publish(ShoeRebuiltEvent{Penetration: pen, timestamp: time.Now()})
	}

	for pass := 0; pass < 2; pass++ {
		for _, p := range r.Players {
			p.Hands[0].AddCard(r.Shoe.Deal())
		}
		r.Dealer.Hands[0].AddCard(r.Shoe.Deal())
	}

	r.state = StatePlayerTurn
	r.logger.Debug("round started", "players", len(r.Players), "remaining", r.Shoe.Remaining())
	r.bus.Publish(RoundStartEvent{Players: len(r.Players), timestamp: time.Now()})
}

// PlayerAction applies one player decision to their current hand. Fails
// with ErrNotPlayerTurn outside the player turn. After the action, if the
// hand is no longer playing, the cursor advances to the player's next live
// hand (or back to the first hand when none remain).
func (r *Round) PlayerAction(p *Participant, action Action) error {
	if r.state != StatePlayerTurn {
		return ErrNotPlayerTurn
	}

	hand := p.CurrentHand()
	handIndex := p.CurrentHandIndex()

	var err error
	switch action {
	case Hit:
		r.hit(hand)
	case Stand:
		hand.Status = StatusStand
	case DoubleDown:
		err = r.doubleDown(p, hand)
	case Split:
		err = r.split(p, hand)
	default:
		err = fmt.Errorf("%w: %v", ErrInvalidAction, action)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("player action",
		"player", p.Name,
		"action", action,
		"hand", hand.String(),
		"value", hand.Value(),
		"status", hand.Status)
	r.bus.Publish(PlayerActionEvent{
		Player:    p,
		Action:    action,
		HandIndex: handIndex,
		HandValue: hand.Value(),
		Status:    hand.Status,
		timestamp: time.Now(),
	})

	if hand.Status != StatusPlaying {
		r.advanceToNextActiveHand(p)
	}
	return nil
}

func (r *Round) hit(hand *Hand) {
	hand.AddCard(r.Shoe.Deal())
	if hand.Value() > 21 {
		hand.Status = StatusBusted
	}
}

func (r *Round) doubleDown(p *Participant, hand *Hand) error {
	bet := p.CurrentBet()
	if p.Balance < bet {
		return fmt.Errorf("%w to double down", ErrInsufficientBalance)
	}
	if len(hand.Cards) != 2 {
		return fmt.Errorf("%w: double down", ErrInvalidHandSize)
	}

	p.Balance -= bet
	p.Bets[p.CurrentHandIndex()] = bet * 2
	hand.AddCard(r.Shoe.Deal())
	if hand.Value() > 21 {
		hand.Status = StatusBusted
	} else {
		hand.Status = StatusStand
	}
	return nil
}

func (r *Round) split(p *Participant, hand *Hand) error {
	bet := p.CurrentBet()
	if len(hand.Cards) != 2 {
		return fmt.Errorf("%w: split", ErrInvalidHandSize)
	}
	if hand.Cards[0].Rank != hand.Cards[1].Rank {
		return ErrRankMismatch
	}
	if p.Balance < bet {
		return fmt.Errorf("%w to split", ErrInsufficientBalance)
	}

	p.Balance -= bet

	// Second card moves out to a sibling hand, then each hand draws one.
	sibling := NewHand()
	sibling.AddCard(hand.Cards[len(hand.Cards)-1])
	hand.Cards = hand.Cards[:len(hand.Cards)-1]
	p.AddHand(sibling, bet)

	hand.AddCard(r.Shoe.Deal())
	sibling.AddCard(r.Shoe.Deal())
	return nil
}

// advanceToNextActiveHand moves the cursor to the player's next playing
// hand: first strictly after the current index, then wrapping from the
// start, finally resetting to 0 when every hand is finished.
func (r *Round) advanceToNextActiveHand(p *Participant) {
	for i := p.CurrentHandIndex() + 1; i < len(p.Hands); i++ {
		if p.Hands[i].Status == StatusPlaying {
			_ = p.SetCurrentHandIndex(i)
			return
		}
	}
	for i := range p.Hands {
		if p.Hands[i].Status == StatusPlaying {
			_ = p.SetCurrentHandIndex(i)
			return
		}
	}
	_ = p.SetCurrentHandIndex(0)
}

// AllPlayersDone reports whether every player has finished all their hands
func (r *Round) AllPlayersDone() bool {
	for _, p := range r.Players {
		if !p.AllHandsPlayed() {
			return false
		}
	}
	return true
}

// BeginDealerTurn hands control to the dealer once the players are done.
// Fails with ErrNotPlayerTurn outside the player turn.
func (r *Round) BeginDealerTurn() error {
	if r.state != StatePlayerTurn {
		return ErrNotPlayerTurn
	}
	r.state = StateDealerTurn
	return nil
}

// DealerPlays runs the dealer's fixed drawing rules: hit below 17, then one
// extra card on a soft 17 when the table plays it that way. Ends the hand
// busted or standing and moves the round to roundOver.
func (r *Round) DealerPlays() error {
	if r.state != StateDealerTurn {
		return ErrNotDealerTurn
	}

	hand := r.Dealer.Hands[0]
	for hand.Value() < 17 {
		hand.AddCard(r.Shoe.Deal())
	}

	// Soft 17 at the boundary draws exactly one more card, not re-looped.
	if hand.Value() == 17 && hand.HasAce() && r.Rules.DealerHitsSoft17 {
		hand.AddCard(r.Shoe.Deal())
	}

	if hand.Value() > 21 {
		hand.Status = StatusBusted
	} else {
		hand.Status = StatusStand
	}

	r.state = StateRoundOver
	r.logger.Debug("dealer played", "hand", hand.String(), "value", hand.Value(), "status", hand.Status)
	r.bus.Publish(DealerPlayEvent{Value: hand.Value(), Status: hand.Status, timestamp: time.Now()})
	return nil
}

// DetermineOutcome settles every non-busted player hand against the dealer
// and credits balances. Busted hands are skipped: the bet was already taken
// when placed. The round stays in roundOver; call ResetRound for the next
// round.
func (r *Round) DetermineOutcome() error {
	if r.state != StateRoundOver {
		return ErrNotRoundOver
	}

	dealerHand := r.Dealer.Hands[0]
	dealerValue := dealerHand.Value()
	dealerBusted := dealerHand.Status == StatusBusted
	dealerBlackjack := dealerHand.IsBlackjack()

	var results []HandResult
	for _, p := range r.Players {
		for i, hand := range p.Hands {
			bet := p.Bets[i]

			if hand.Status == StatusBusted {
				results = append(results, HandResult{Player: p.Name, HandIndex: i, Status: StatusBusted, Bet: bet})
				continue
			}

			delta := r.settle(hand, bet, dealerValue, dealerBusted, dealerBlackjack)
			p.Balance += delta
			results = append(results, HandResult{Player: p.Name, HandIndex: i, Status: hand.Status, Bet: bet, Delta: delta})

			r.logger.Debug("hand settled",
				"player", p.Name,
				"hand", i,
				"status", hand.Status,
				"delta", delta,
				"balance", p.Balance)
		}
	}

	r.bus.Publish(RoundSettledEvent{Results: results, timestamp: time.Now()})
	return nil
}

// settle applies the payout table to one non-busted hand, setting its final
// status and returning the balance credit. Precedence: dealer bust and
// player blackjack before plain value comparison; blackjack pays the
// configured ratio truncated to whole units.
func (r *Round) settle(hand *Hand, bet, dealerValue int, dealerBusted, dealerBlackjack bool) int {
	value := hand.Value()
	blackjack := hand.IsBlackjack()

	switch {
	case dealerBusted && blackjack:
		hand.Status = StatusWin
		return bet + int(float64(bet)*r.Rules.BlackjackPayout)
	case dealerBusted:
		hand.Status = StatusWin
		return bet * 2
	case blackjack && !dealerBlackjack:
		hand.Status = StatusWin
		return bet + int(float64(bet)*r.Rules.BlackjackPayout)
	case value > dealerValue:
		hand.Status = StatusWin
		return bet * 2
	case value < dealerValue:
		hand.Status = StatusLose
		return 0
	default:
		hand.Status = StatusPush
		return bet
	}
}

// ResetRound clears every participant and returns to the betting state.
// Independent of DetermineOutcome; the driver decides when to reset.
func (r *Round) ResetRound() {
	for _, p := range r.Players {
		p.ClearHands()
	}
	r.Dealer.ClearHands()
	r.state = StateBetting
}
