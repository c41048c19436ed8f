package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/game"
)

// Table wraps one Round behind a mutex so that concurrent connections drive
// the single-threaded engine one operation at a time. It also orchestrates
// the round flow the clients see: the deal fires once every seat has bet,
// and the dealer plays out automatically once every player is done.
type Table struct {
	ID   uuid.UUID
	Name string

	cfg     config.TableConfig
	round   *game.Round
	seats   map[string]*game.Participant // playerID -> seat
	leaving map[string]bool              // seats vacated mid-round

	mu      sync.Mutex
	logger  *log.Logger
	clock   quartz.Clock
	timeout time.Duration
	timer   *quartz.Timer

	// notify broadcasts a message to every connection at this table
	notify func(*Message)
}

// NewTable creates a table from its configuration
func NewTable(cfg config.TableConfig, logger *log.Logger, clock quartz.Clock, timeout time.Duration) *Table {
	t := &Table{
		ID:      uuid.New(),
		Name:    cfg.Name,
		cfg:     cfg,
		seats:   make(map[string]*game.Participant),
		leaving: make(map[string]bool),
		logger:  logger.WithPrefix("table").With("table", cfg.Name),
		clock:   clock,
		timeout: timeout,
		notify:  func(*Message) {},
	}
	t.round = game.NewRound(cfg.Rules(), nil, game.WithLogger(t.logger))
	return t
}

// SetNotify installs the broadcast callback used after state changes
func (t *Table) SetNotify(notify func(*Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if notify != nil {
		t.notify = notify
	}
}

var (
	errTableFull    = errors.New("table is full")
	errRoundRunning = errors.New("cannot join mid-round")
	errNotSeated    = errors.New("player is not seated at this table")
	errBetPlaced    = errors.New("bet already placed for this round")
)

// Join seats a new player. Seats can only be taken between rounds.
func (t *Table) Join(playerID, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.seats) >= t.cfg.Seats {
		return errTableFull
	}
	if t.round.State() != game.StateBetting {
		return errRoundRunning
	}

	p := game.NewPlayer(name, t.cfg.StartingBalance)
	p.ClearHands()
	t.seats[playerID] = p
	t.round.Players = append(t.round.Players, p)

	t.logger.Info("player joined", "player", name, "seats", len(t.seats))
	t.broadcastStateLocked()
	return nil
}

// Leave vacates a seat. Mid-round the seat stays in play until the round
// resets; its remaining hands are stood so the round can finish.
func (t *Table) Leave(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.seats[playerID]
	if !ok {
		return errNotSeated
	}

	if t.round.State() == game.StateBetting {
		t.removeSeatLocked(playerID, p)
		// the departed seat may have been the only one holding up the deal
		if t.allBetsPlacedLocked() {
			t.round.StartRound()
			t.armTimerLocked()
		}
	} else {
		t.leaving[playerID] = true
		if t.round.State() == game.StatePlayerTurn {
			for !p.AllHandsPlayed() {
				if err := t.round.PlayerAction(p, game.Stand); err != nil {
					break
				}
			}
			t.maybeFinishRoundLocked()
		}
		t.sweepIfAbandonedLocked()
	}

	t.logger.Info("player left", "player", p.Name)
	t.broadcastStateLocked()
	return nil
}

// sweepIfAbandonedLocked resets the table when every remaining seat has left
// mid-round. Without this nobody is left to call NextRound and joins are
// refused until the round resets, wedging the table forever.
func (t *Table) sweepIfAbandonedLocked() {
	if t.round.State() != game.StateRoundOver {
		return
	}
	if len(t.leaving) == 0 || len(t.leaving) != len(t.seats) {
		return
	}

	t.logger.Info("all seats departed, resetting table")
	for id := range t.leaving {
		if seat, ok := t.seats[id]; ok {
			t.removeSeatLocked(id, seat)
		}
	}
	t.round.ResetRound()
}

func (t *Table) removeSeatLocked(playerID string, p *game.Participant) {
	delete(t.seats, playerID)
	delete(t.leaving, playerID)
	for i, rp := range t.round.Players {
		if rp == p {
			t.round.Players = append(t.round.Players[:i], t.round.Players[i+1:]...)
			break
		}
	}
}

// PlaceBet wagers for the player's seat. Once every seat has a live bet
// the opening cards are dealt.
func (t *Table) PlaceBet(playerID string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.seats[playerID]
	if !ok {
		return errNotSeated
	}
	// a second wager while waiting for the rest of the table would escrow
	// the first bet with no way back
	if p.Hands[0].Status != game.StatusBetting {
		return errBetPlaced
	}

	if err := t.round.PlaceBets(map[*game.Participant]int{p: amount}); err != nil {
		return err
	}

	if t.allBetsPlacedLocked() {
		t.round.StartRound()
		t.armTimerLocked()
	}

	t.broadcastStateLocked()
	return nil
}

func (t *Table) allBetsPlacedLocked() bool {
	if len(t.round.Players) == 0 {
		return false
	}
	for _, p := range t.round.Players {
		if p.Hands[0].Status == game.StatusBetting {
			return false
		}
	}
	return true
}

// Action applies one player action token (hit, stand, double, split)
func (t *Table) Action(playerID, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.seats[playerID]
	if !ok {
		return errNotSeated
	}

	action, err := game.ParseAction(token)
	if err != nil {
		return err
	}

	if err := t.round.PlayerAction(p, action); err != nil {
		return err
	}

	t.armTimerLocked()
	t.maybeFinishRoundLocked()
	t.broadcastStateLocked()
	return nil
}

// NextRound clears the finished round so betting can start again
func (t *Table) NextRound(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seats[playerID]; !ok {
		return errNotSeated
	}
	if t.round.State() != game.StateRoundOver {
		return game.ErrNotRoundOver
	}

	for id := range t.leaving {
		if seat, ok := t.seats[id]; ok {
			t.removeSeatLocked(id, seat)
		}
	}
	t.round.ResetRound()
	t.broadcastStateLocked()
	return nil
}

// maybeFinishRoundLocked runs the dealer and settlement once every player
// has finished their hands.
func (t *Table) maybeFinishRoundLocked() {
	if t.round.State() != game.StatePlayerTurn || !t.round.AllPlayersDone() {
		return
	}
	t.stopTimerLocked()

	if err := t.round.BeginDealerTurn(); err != nil {
		t.logger.Error("failed to begin dealer turn", "error", err)
		return
	}
	if err := t.round.DealerPlays(); err != nil {
		t.logger.Error("dealer play failed", "error", err)
		return
	}
	if err := t.round.DetermineOutcome(); err != nil {
		t.logger.Error("settlement failed", "error", err)
	}
}

// armTimerLocked (re)starts the action timeout while players are acting
func (t *Table) armTimerLocked() {
	t.stopTimerLocked()
	if t.round.State() != game.StatePlayerTurn || t.timeout <= 0 {
		return
	}
	t.timer = t.clock.AfterFunc(t.timeout, t.onActionTimeout)
}

func (t *Table) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// onActionTimeout stands every remaining hand so the round can finish
// without the stalled players.
func (t *Table) onActionTimeout() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.round.State() != game.StatePlayerTurn {
		return
	}
	t.logger.Warn("action timeout, standing remaining hands")

	for _, p := range t.round.Players {
		for !p.AllHandsPlayed() {
			if err := t.round.PlayerAction(p, game.Stand); err != nil {
				t.logger.Error("failed to stand out hand", "player", p.Name, "error", err)
				return
			}
		}
	}
	t.maybeFinishRoundLocked()

	if msg, err := NewMessage(MessageTypePlayerTimeout, PlayerTimeoutData{
		Table:          t.Name,
		TimeoutSeconds: int(t.timeout / time.Second),
	}); err == nil {
		t.notify(msg)
	}
	t.broadcastStateLocked()
}

// Snapshot returns the table's current projection
func (t *Table) Snapshot() game.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round.Snapshot()
}

// Info summarises the table for listings
func (t *Table) Info() TableInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TableInfo{
		Name:        t.Name,
		PlayerCount: len(t.seats),
		Seats:       t.cfg.Seats,
		MinBet:      t.cfg.MinBet,
		MaxBet:      t.cfg.MaxBet,
		State:       t.round.State().String(),
	}
}

func (t *Table) broadcastStateLocked() {
	msg, err := NewMessage(MessageTypeTableState, TableStateData{
		Table:    t.Name,
		Snapshot: t.round.Snapshot(),
	})
	if err != nil {
		t.logger.Error("failed to build state message", "error", err)
		return
	}
	t.notify(msg)
}

// errorCode maps engine failures to protocol error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotBetting):
		return "not_betting"
	case errors.Is(err, game.ErrNotPlayerTurn):
		return "not_player_turn"
	case errors.Is(err, game.ErrNotDealerTurn):
		return "not_dealer_turn"
	case errors.Is(err, game.ErrNotRoundOver):
		return "not_round_over"
	case errors.Is(err, game.ErrBetOutOfRange):
		return "bet_out_of_range"
	case errors.Is(err, game.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, game.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, game.ErrInvalidHandSize):
		return "invalid_hand_size"
	case errors.Is(err, game.ErrRankMismatch):
		return "rank_mismatch"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, errTableFull):
		return "table_full"
	case errors.Is(err, errRoundRunning):
		return "round_running"
	case errors.Is(err, errNotSeated):
		return "not_seated"
	case errors.Is(err, errBetPlaced):
		return "bet_already_placed"
	default:
		return "internal"
	}
}
