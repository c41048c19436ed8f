package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
)

func testModel(t *testing.T, ranks ...deck.Rank) *Model {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	m := New(game.DefaultRules(), "Alice", 100, logger)

	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.NewCard(deck.Spades, r)
	}
	m.round.Shoe.Stack(cards...)
	return m
}

func TestModelRoundFlow(t *testing.T) {
	// Alice 19 vs dealer 17
	m := testModel(t, deck.Ten, deck.King, deck.Nine, deck.Seven)
	assert.Equal(t, game.StateBetting, m.round.State())

	m.betInput.SetValue("10")
	m.placeBet()
	require.Empty(t, m.errMsg)
	assert.Equal(t, game.StatePlayerTurn, m.round.State())

	m.applyAction(game.Stand)
	require.Empty(t, m.errMsg)
	assert.Equal(t, game.StateRoundOver, m.round.State())
	assert.Equal(t, 110, m.player.Balance)

	m.nextRound()
	assert.Equal(t, game.StateBetting, m.round.State())
	assert.False(t, m.quitting)
}

func TestModelBetValidation(t *testing.T) {
	m := testModel(t)

	m.betInput.SetValue("nope")
	m.placeBet()
	assert.Equal(t, "bet must be a number", m.errMsg)
	assert.Equal(t, game.StateBetting, m.round.State())

	m.betInput.SetValue("5")
	m.placeBet()
	assert.Contains(t, m.errMsg, "table limits")
	assert.Equal(t, game.StateBetting, m.round.State())
}

func TestModelEventLog(t *testing.T) {
	m := testModel(t, deck.Ten, deck.King, deck.Nine, deck.Seven)

	m.betInput.SetValue("10")
	m.placeBet()
	m.applyAction(game.Stand)

	joined := strings.Join(m.gameLog, "\n")
	assert.Contains(t, joined, "Cards dealt")
	assert.Contains(t, joined, "Alice")
	assert.Contains(t, joined, "Dealer finishes at 17")
}

func TestModelQuitsWhenBroke(t *testing.T) {
	// lose the whole bankroll in one doubled hand is overkill; just drain it
	m := testModel(t, deck.Ten, deck.King, deck.Six, deck.Seven)
	m.player.Balance = 10

	m.betInput.SetValue("10")
	m.placeBet()
	m.applyAction(game.Stand) // 16 vs dealer 17, lose

	require.Equal(t, game.StateRoundOver, m.round.State())
	assert.Equal(t, 0, m.player.Balance)

	m.nextRound()
	assert.True(t, m.quitting)
}

func TestModelView(t *testing.T) {
	m := testModel(t, deck.Ten, deck.King, deck.Nine, deck.Seven)
	m.width = 80
	m.height = 24

	view := m.View()
	assert.Contains(t, view, "Dealer")
	assert.Contains(t, view, "Alice")

	m.betInput.SetValue("10")
	m.placeBet()

	view = m.View()
	assert.Contains(t, view, "??", "hole card stays hidden during the player turn")
	assert.NotContains(t, view, "7♠")
}

func TestModelUpdateKeys(t *testing.T) {
	m := testModel(t, deck.Ten, deck.King, deck.Nine, deck.Seven)
	m.width = 80
	m.height = 24

	m.betInput.SetValue("10")
	m.placeBet()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Equal(t, game.StateRoundOver, m.round.State())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}
