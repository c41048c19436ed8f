// Package simulator plays automated blackjack rounds to measure strategy
// performance against the house rules.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"
	"golang.org/x/sync/errgroup"

	"github.com/cardtable/blackjack/internal/bot"
	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
	"github.com/cardtable/blackjack/internal/randutil"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds          int
	Tables          int
	Strategy        string
	Seed            int64
	Bet             int
	StartingBalance int
	Rules           game.Rules
	Verbose         bool
	Logger          *log.Logger
}

// Results aggregates outcomes across all simulated rounds
type Results struct {
	Rounds      int
	Hands       int
	Wins        int
	Losses      int
	Pushes      int
	Busts       int
	Blackjacks  int
	Splits      int
	Doubles     int
	Net         int
	Wagered     int
	Elapsed     time.Duration
	RoundsPerSe float64
}

// EdgePercent returns the player's net result as a percentage of the total
// amount wagered. Negative means the house wins.
func (r Results) EdgePercent() float64 {
	if r.Wagered == 0 {
		return 0
	}
	return float64(r.Net) / float64(r.Wagered) * 100
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}
	if config.Tables < 1 {
		config.Tables = 1
	}
	return &Simulator{config: config, logger: logger.WithPrefix("sim")}
}

// Run executes the simulation across the configured number of tables, each
// table playing its share of rounds on its own goroutine. Tables are
// independent; each has its own shoe and player, so no locking is needed
// inside a table.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	strategy, ok := bot.ForName(s.config.Strategy)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", s.config.Strategy)
	}

	start := time.Now()
	total := &Results{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	perTable := s.config.Rounds / s.config.Tables
	remainder := s.config.Rounds % s.config.Tables

	for i := 0; i < s.config.Tables; i++ {
		rounds := perTable
		if i < remainder {
			rounds++
		}
		if rounds == 0 {
			continue
		}
		seed := s.config.Seed + int64(i)

		g.Go(func() error {
			partial, err := s.runTable(ctx, strategy, rounds, seed)
			if err != nil {
				return err
			}
			mu.Lock()
			total.merge(partial)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total.Elapsed = time.Since(start)
	if total.Elapsed > 0 {
		total.RoundsPerSe = float64(total.Rounds) / total.Elapsed.Seconds()
	}
	return total, nil
}

// runTable plays rounds at one independent table
func (s *Simulator) runTable(ctx context.Context, strategy bot.Strategy, rounds int, seed int64) (*Results, error) {
	results := &Results{}
	player := game.NewPlayer("sim", s.config.StartingBalance)
	shoe := deck.NewShoe(s.config.Rules.NumDecks, randutil.New(seed))
	round := game.NewRound(s.config.Rules, []*game.Participant{player},
		game.WithShoe(shoe),
		game.WithLogger(s.logger))

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// A busted bankroll gets topped back up; we are measuring the
		// strategy's edge, not simulating ruin.
		if player.Balance < s.config.Bet {
			player.Balance = s.config.StartingBalance
		}
		before := player.Balance

		if err := s.playRound(round, player, strategy, results); err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}

		results.Rounds++
		results.Net += player.Balance - before

		if s.config.Verbose && i < 5 {
			s.logger.Debug("round state", "dump", litter.Sdump(round.Snapshot()))
		}

		round.ResetRound()
	}

	return results, nil
}

func (s *Simulator) playRound(round *game.Round, player *game.Participant, strategy bot.Strategy, results *Results) error {
	if err := round.PlaceBets(map[*game.Participant]int{player: s.config.Bet}); err != nil {
		return err
	}
	round.StartRound()

	dealerUp := round.Dealer.Hands[0].Cards[0]

	for !player.AllHandsPlayed() {
		hand := player.CurrentHand()
		bet := player.CurrentBet()

		canDouble := len(hand.Cards) == 2 && player.Balance >= bet
		canSplit := len(hand.Cards) == 2 &&
			hand.Cards[0].Rank == hand.Cards[1].Rank &&
			player.Balance >= bet &&
			len(player.Hands) == 1 // one split per hand

		action := strategy.Decide(hand, dealerUp, canDouble, canSplit)
		if err := round.PlayerAction(player, action); err != nil {
			return err
		}

		switch action {
		case game.Split:
			results.Splits++
		case game.DoubleDown:
			results.Doubles++
		}
	}

	if err := round.BeginDealerTurn(); err != nil {
		return err
	}
	if err := round.DealerPlays(); err != nil {
		return err
	}
	if err := round.DetermineOutcome(); err != nil {
		return err
	}

	for i, hand := range player.Hands {
		results.Hands++
		results.Wagered += player.Bets[i]
		switch hand.Status {
		case game.StatusWin:
			results.Wins++
			if hand.IsBlackjack() {
				results.Blackjacks++
			}
		case game.StatusLose:
			results.Losses++
		case game.StatusPush:
			results.Pushes++
		case game.StatusBusted:
			results.Busts++
		}
	}
	return nil
}

func (r *Results) merge(other *Results) {
	r.Rounds += other.Rounds
	r.Hands += other.Hands
	r.Wins += other.Wins
	r.Losses += other.Losses
	r.Pushes += other.Pushes
	r.Busts += other.Busts
	r.Blackjacks += other.Blackjacks
	r.Splits += other.Splits
	r.Doubles += other.Doubles
	r.Net += other.Net
	r.Wagered += other.Wagered
}

// Summary returns a human-readable report
func (r Results) Summary() string {
	return fmt.Sprintf(
		"rounds=%d hands=%d wins=%d losses=%d pushes=%d busts=%d blackjacks=%d splits=%d doubles=%d net=%+d (%.2f%%) in %s",
		r.Rounds, r.Hands, r.Wins, r.Losses, r.Pushes, r.Busts, r.Blackjacks,
		r.Splits, r.Doubles, r.Net, r.EdgePercent(), r.Elapsed.Round(time.Millisecond))
}
