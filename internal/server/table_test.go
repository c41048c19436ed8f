package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/deck"
	"github.com/cardtable/blackjack/internal/game"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testTableConfig() config.TableConfig {
	cfg := config.Default()
	tc := cfg.Tables[0]
	tc.Seats = 2
	tc.StartingBalance = 100
	return tc
}

func newTestTable(t *testing.T, clock quartz.Clock) *Table {
	t.Helper()
	return NewTable(testTableConfig(), testLogger(), clock, 30*time.Second)
}

// stack rigs the table's shoe so the next cards deal in the given order
func stack(tbl *Table, ranks ...deck.Rank) {
	cards := make([]deck.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = deck.NewCard(deck.Spades, r)
	}
	tbl.round.Shoe.Stack(cards...)
}

func TestTableSingleSeatRound(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))

	var states []string
	tbl.SetNotify(func(msg *Message) {
		states = append(states, string(msg.Type))
	})

	require.NoError(t, tbl.Join("p1", "Alice"))
	assert.Equal(t, game.StateBetting, tbl.round.State())

	// Alice 19 vs dealer 17
	stack(tbl, deck.Ten, deck.King, deck.Nine, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())

	require.NoError(t, tbl.Action("p1", "stand"))
	assert.Equal(t, game.StateRoundOver, tbl.round.State())
	assert.Equal(t, 110, tbl.seats["p1"].Balance)

	require.NoError(t, tbl.NextRound("p1"))
	assert.Equal(t, game.StateBetting, tbl.round.State())

	assert.NotEmpty(t, states)
	assert.Equal(t, string(MessageTypeTableState), states[len(states)-1])
}

func TestTableWaitsForAllBets(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))

	require.NoError(t, tbl.Join("p1", "Alice"))
	require.NoError(t, tbl.Join("p2", "Bob"))

	require.NoError(t, tbl.PlaceBet("p1", 10))
	assert.Equal(t, game.StateBetting, tbl.round.State(), "deal must wait for the second bet")

	require.NoError(t, tbl.PlaceBet("p2", 20))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())
}

func TestTableJoinErrors(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))

	require.NoError(t, tbl.Join("p1", "Alice"))
	require.NoError(t, tbl.Join("p2", "Bob"))
	assert.ErrorIs(t, tbl.Join("p3", "Carol"), errTableFull)

	require.NoError(t, tbl.Leave("p2"))
	require.NoError(t, tbl.PlaceBet("p1", 10))
	assert.ErrorIs(t, tbl.Join("p3", "Carol"), errRoundRunning)

	assert.ErrorIs(t, tbl.PlaceBet("ghost", 10), errNotSeated)
	assert.ErrorIs(t, tbl.Leave("ghost"), errNotSeated)
}

func TestTableRejectsSecondBet(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))
	require.NoError(t, tbl.Join("p2", "Bob"))

	require.NoError(t, tbl.PlaceBet("p1", 10))
	require.Equal(t, game.StateBetting, tbl.round.State())

	// a re-bet while waiting for Bob must not escrow a second wager
	assert.ErrorIs(t, tbl.PlaceBet("p1", 20), errBetPlaced)
	assert.Equal(t, 90, tbl.seats["p1"].Balance)
	assert.Equal(t, []int{10}, tbl.seats["p1"].Bets)

	require.NoError(t, tbl.PlaceBet("p2", 10))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())
	assert.ErrorIs(t, tbl.PlaceBet("p1", 20), errBetPlaced)
}

func TestTableResetsWhenAllSeatsLeave(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))

	stack(tbl, deck.Ten, deck.King, deck.Nine, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	require.Equal(t, game.StatePlayerTurn, tbl.round.State())

	// the only client disconnects mid-round; the table must not wedge
	require.NoError(t, tbl.Leave("p1"))
	assert.Equal(t, game.StateBetting, tbl.round.State())
	assert.Empty(t, tbl.seats)
	assert.Empty(t, tbl.round.Players)

	require.NoError(t, tbl.Join("p2", "Bob"))
	require.NoError(t, tbl.PlaceBet("p2", 10))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())
}

func TestTableResetsAfterLastSeatLeavesSettledRound(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))

	stack(tbl, deck.Ten, deck.King, deck.Nine, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	require.NoError(t, tbl.Action("p1", "stand"))
	require.Equal(t, game.StateRoundOver, tbl.round.State())

	require.NoError(t, tbl.Leave("p1"))
	assert.Equal(t, game.StateBetting, tbl.round.State())
	assert.Empty(t, tbl.seats)

	require.NoError(t, tbl.Join("p2", "Bob"))
}

func TestTableActionErrors(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))

	assert.ErrorIs(t, tbl.Action("p1", "hit"), game.ErrNotPlayerTurn)
	assert.ErrorIs(t, tbl.NextRound("p1"), game.ErrNotRoundOver)

	stack(tbl, deck.Ten, deck.King, deck.Nine, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	assert.ErrorIs(t, tbl.Action("p1", "moon"), game.ErrInvalidAction)
}

func TestTableLeaveMidRoundStandsHands(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))
	require.NoError(t, tbl.Join("p2", "Bob"))

	// Alice 19, Bob 13, dealer 20
	stack(tbl, deck.Ten, deck.Six, deck.King, deck.Nine, deck.Seven, deck.Queen)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	require.NoError(t, tbl.PlaceBet("p2", 10))
	require.NoError(t, tbl.Action("p1", "stand"))

	// Bob walks away with a live hand, the round settles without him
	require.NoError(t, tbl.Leave("p2"))
	assert.Equal(t, game.StateRoundOver, tbl.round.State())
	assert.Equal(t, 2, len(tbl.round.Players))

	// his seat is reclaimed once the next round starts
	require.NoError(t, tbl.NextRound("p1"))
	assert.Equal(t, 1, len(tbl.round.Players))
	assert.Equal(t, 1, len(tbl.seats))
}

func TestTableActionTimeout(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)
	tbl := newTestTable(t, mockClock)

	var timedOut bool
	tbl.SetNotify(func(msg *Message) {
		if msg.Type == MessageTypePlayerTimeout {
			timedOut = true
		}
	})

	require.NoError(t, tbl.Join("p1", "Alice"))
	stack(tbl, deck.Ten, deck.King, deck.Nine, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())

	mockClock.Advance(30 * time.Second).MustWait(ctx)

	assert.True(t, timedOut)
	assert.Equal(t, game.StateRoundOver, tbl.round.State())
	assert.Equal(t, 110, tbl.seats["p1"].Balance, "stood hand still wins 19 vs 17")
}

func TestTableActionResetsTimeout(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)
	tbl := newTestTable(t, mockClock)

	require.NoError(t, tbl.Join("p1", "Alice"))
	// Alice 12 then hits to 19, dealer 17
	stack(tbl, deck.Ten, deck.King, deck.Two, deck.Seven, deck.Seven)
	require.NoError(t, tbl.PlaceBet("p1", 10))

	mockClock.Advance(20 * time.Second).MustWait(ctx)
	require.NoError(t, tbl.Action("p1", "hit"))
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())

	// the old deadline passes without firing
	mockClock.Advance(20 * time.Second).MustWait(ctx)
	assert.Equal(t, game.StatePlayerTurn, tbl.round.State())

	mockClock.Advance(10 * time.Second).MustWait(ctx)
	assert.Equal(t, game.StateRoundOver, tbl.round.State())
}

func TestTableInfo(t *testing.T) {
	tbl := newTestTable(t, quartz.NewMock(t))
	require.NoError(t, tbl.Join("p1", "Alice"))

	info := tbl.Info()
	assert.Equal(t, "main", info.Name)
	assert.Equal(t, 1, info.PlayerCount)
	assert.Equal(t, 2, info.Seats)
	assert.Equal(t, "betting", info.State)
}
