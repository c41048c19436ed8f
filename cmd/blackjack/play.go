package main

import (
	"fmt"

	"github.com/cardtable/blackjack/cmd/blackjack/shared"
	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/tui"
)

// PlayCmd runs an interactive table against the house
type PlayCmd struct {
	Name    string `kong:"default='Player',help='Player name at the table'"`
	Config  string `kong:"default='blackjack.hcl',help='Path to a table configuration file'"`
	Table   string `kong:"help='Table to use from the configuration (defaults to the first)'"`
	Balance int    `kong:"help='Starting balance, overrides the table configuration'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tc := &cfg.Tables[0]
	if c.Table != "" {
		if tc = cfg.GetTableByName(c.Table); tc == nil {
			return fmt.Errorf("no table named %q in %s", c.Table, c.Config)
		}
	}

	balance := tc.StartingBalance
	if c.Balance > 0 {
		balance = c.Balance
	}

	logger.Debug("Starting local table", "table", tc.Name, "balance", balance)
	return tui.Run(tc.Rules(), c.Name, balance, logger)
}
