package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardtable/blackjack/cmd/blackjack/shared"
	"github.com/cardtable/blackjack/internal/bot"
	"github.com/cardtable/blackjack/internal/game"
	"github.com/cardtable/blackjack/internal/simulator"
)

// SimulateCmd plays automated strategies against the house
type SimulateCmd struct {
	Rounds      int     `kong:"default='100000',help='Number of rounds to simulate'"`
	Tables      int     `kong:"default='4',help='Number of tables running in parallel'"`
	Strategy    string  `kong:"default='basic',help='Strategy to play (basic, mimic, never-bust)'"`
	Bet         int     `kong:"default='10',help='Flat bet per round'"`
	Balance     int     `kong:"default='1000',help='Starting bankroll per table'"`
	Decks       int     `kong:"default='6',help='Number of decks in the shoe'"`
	Payout      float64 `kong:"default='1.5',help='Blackjack payout multiplier'"`
	StandSoft17 bool    `kong:"help='Dealer stands on soft 17 instead of hitting'"`
	Seed        *int64  `kong:"help='Deterministic RNG seed (optional)'"`
	Verbose     bool    `kong:"help='Dump round state for the first few rounds'"`
	Debug       bool    `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	}

	rules := game.DefaultRules()
	rules.NumDecks = c.Decks
	rules.BlackjackPayout = c.Payout
	rules.DealerHitsSoft17 = !c.StandSoft17
	// widen the table limits so any flat bet is playable
	rules.MinBet = min(rules.MinBet, c.Bet)
	rules.MaxBet = max(rules.MaxBet, c.Bet)
	if err := rules.Validate(); err != nil {
		return err
	}

	logger.Info("Starting simulation",
		"rounds", c.Rounds,
		"tables", c.Tables,
		"strategy", c.Strategy,
		"decks", c.Decks,
		"hits_soft_17", rules.DealerHitsSoft17)

	sim := simulator.New(simulator.Config{
		Rounds:          c.Rounds,
		Tables:          c.Tables,
		Strategy:        c.Strategy,
		Seed:            seed,
		Bet:             c.Bet,
		StartingBalance: c.Balance,
		Rules:           rules,
		Verbose:         c.Verbose,
		Logger:          logger,
	})

	ctx := shared.SetupSignalHandler(logger)
	results, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed (strategies: %s): %w", strings.Join(bot.Names(), ", "), err)
	}

	fmt.Println(results.Summary())
	return nil
}
