package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/blackjack.hcl")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.Len(t, cfg.Tables, 1)
	assert.Equal(t, "main", cfg.Tables[0].Name)
	assert.Equal(t, 6, cfg.Tables[0].NumDecks)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server {
  address = "0.0.0.0"
  port    = 9090
}

table "high-roller" {
  min_bet          = 100
  max_bet          = 5000
  num_decks        = 8
  starting_balance = 10000
  blackjack_payout = 1.2
  dealer_hits_soft_17 = false
}

table "penny" {
  min_bet = 1
  max_bet = 10
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddress())
	require.Len(t, cfg.Tables, 2)

	hr := cfg.GetTableByName("high-roller")
	require.NotNil(t, hr)
	rules := hr.Rules()
	assert.Equal(t, 100, rules.MinBet)
	assert.Equal(t, 5000, rules.MaxBet)
	assert.Equal(t, 8, rules.NumDecks)
	assert.Equal(t, 1.2, rules.BlackjackPayout)
	assert.False(t, rules.DealerHitsSoft17)

	penny := cfg.GetTableByName("penny")
	require.NotNil(t, penny)
	// Unset fields pick up defaults.
	assert.Equal(t, 6, penny.NumDecks)
	assert.Equal(t, 1.5, penny.Rules().BlackjackPayout)
	assert.True(t, penny.Rules().DealerHitsSoft17)
	assert.Equal(t, 1000, penny.StartingBalance)

	assert.Nil(t, cfg.GetTableByName("missing"))
}

func TestLoadZeroPayout(t *testing.T) {
	path := writeConfig(t, `
table "even-money" {
  blackjack_payout = 0
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	// An explicit zero is a real setting, not a request for the default.
	tbl := cfg.GetTableByName("even-money")
	require.NotNil(t, tbl)
	assert.Equal(t, 0.0, tbl.Rules().BlackjackPayout)
}

func TestLoadInvalidHCL(t *testing.T) {
	path := writeConfig(t, `table "x" { min_bet = `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tables[0].Seats = 12
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tables = append(cfg.Tables, cfg.Tables[0])
	assert.Error(t, cfg.Validate(), "duplicate names rejected")

	cfg = Default()
	cfg.Tables[0].MinBet = 50
	cfg.Tables[0].MaxBet = 10
	assert.Error(t, cfg.Validate())
}
