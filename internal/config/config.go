// Package config loads table and server configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardtable/blackjack/internal/game"
)

// Config represents the complete configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address              string `hcl:"address,optional"`
	Port                 int    `hcl:"port,optional"`
	LogLevel             string `hcl:"log_level,optional"`
	ActionTimeoutSeconds int    `hcl:"action_timeout_seconds,optional"`
}

// TableConfig defines one blackjack table
type TableConfig struct {
	Name                 string   `hcl:"name,label"`
	Seats                int      `hcl:"seats,optional"`
	StartingBalance      int      `hcl:"starting_balance,optional"`
	MinBet               int      `hcl:"min_bet,optional"`
	MaxBet               int      `hcl:"max_bet,optional"`
	NumDecks             int      `hcl:"num_decks,optional"`
	BlackjackPayout      *float64 `hcl:"blackjack_payout,optional"`
	DealerHitsSoft17     *bool    `hcl:"dealer_hits_soft_17,optional"`
	ReshufflePenetration float64  `hcl:"reshuffle_penetration,optional"`
}

// Default returns the default configuration: one table with standard rules
func Default() *Config {
	cfg := &Config{
		Server: ServerSettings{
			Address:              "localhost",
			Port:                 8080,
			LogLevel:             "info",
			ActionTimeoutSeconds: 30,
		},
		Tables: []TableConfig{{Name: "main"}},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Server.ActionTimeoutSeconds == 0 {
		cfg.Server.ActionTimeoutSeconds = 30
	}

	if len(cfg.Tables) == 0 {
		cfg.Tables = []TableConfig{{Name: "main"}}
	}

	defaults := game.DefaultRules()
	for i := range cfg.Tables {
		t := &cfg.Tables[i]
		if t.Seats == 0 {
			t.Seats = 5
		}
		if t.StartingBalance == 0 {
			t.StartingBalance = 1000
		}
		if t.MinBet == 0 {
			t.MinBet = defaults.MinBet
		}
		if t.MaxBet == 0 {
			t.MaxBet = defaults.MaxBet
		}
		if t.NumDecks == 0 {
			t.NumDecks = defaults.NumDecks
		}
		if t.ReshufflePenetration == 0 {
			t.ReshufflePenetration = defaults.ReshufflePenetration
		}
	}
}

// Rules converts a table configuration into the engine's rules
func (t TableConfig) Rules() game.Rules {
	hitsSoft17 := game.DefaultRules().DealerHitsSoft17
	if t.DealerHitsSoft17 != nil {
		hitsSoft17 = *t.DealerHitsSoft17
	}
	// zero is a legal payout, so nil alone means "use the default"
	payout := game.DefaultRules().BlackjackPayout
	if t.BlackjackPayout != nil {
		payout = *t.BlackjackPayout
	}
	return game.Rules{
		BlackjackPayout:      payout,
		DealerHitsSoft17:     hitsSoft17,
		MinBet:               t.MinBet,
		MaxBet:               t.MaxBet,
		NumDecks:             t.NumDecks,
		ReshufflePenetration: t.ReshufflePenetration,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		seen[t.Name] = true

		if t.Seats < 1 || t.Seats > 7 {
			return fmt.Errorf("table %s: seats must be between 1 and 7", t.Name)
		}
		if t.StartingBalance <= 0 {
			return fmt.Errorf("table %s: starting balance must be positive", t.Name)
		}
		if err := t.Rules().Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetTableByName returns a table configuration by name
func (c *Config) GetTableByName(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}
