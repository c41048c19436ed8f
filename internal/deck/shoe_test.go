package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/randutil"
)

func TestShoeCapacity(t *testing.T) {
	s := NewShoe(6, randutil.New(1))
	assert.Equal(t, 312, s.Capacity())
	assert.Equal(t, 312, s.Remaining())
	assert.Equal(t, 0, s.Discarded())
}

func TestShoeComposition(t *testing.T) {
	s := NewShoe(2, randutil.New(1))

	// Deal the whole shoe and count multiplicities.
	counts := make(map[Card]int)
	for i := 0; i < s.Capacity(); i++ {
		c := s.Deal()
		counts[Card{Suit: c.Suit, Rank: c.Rank, Value: c.Value}]++
	}

	require.Len(t, counts, 52)
	for card, n := range counts {
		assert.Equal(t, 2, n, "card %s should appear once per deck", card)
	}
}

func TestShoeConservation(t *testing.T) {
	s := NewShoe(4, randutil.New(42))
	for i := 0; i < 100; i++ {
		s.Deal()
		assert.Equal(t, s.Capacity(), s.Remaining()+s.Discarded())
	}
}

func TestShoeRebuild(t *testing.T) {
	s := NewShoe(1, randutil.New(7))
	for i := 0; i < 20; i++ {
		s.Deal()
	}
	s.Rebuild()
	assert.Equal(t, 52, s.Remaining())
	assert.Equal(t, 0, s.Discarded())
}

func TestShoePenetration(t *testing.T) {
	s := NewShoe(1, randutil.New(3))
	assert.Equal(t, 0.0, s.Penetration())

	for i := 0; i < 13; i++ {
		s.Deal()
	}
	assert.InDelta(t, 0.25, s.Penetration(), 1e-9)

	for i := 0; i < 26; i++ {
		s.Deal()
	}
	assert.InDelta(t, 0.75, s.Penetration(), 1e-9)
}

func TestShoeAutoRebuildOnEmpty(t *testing.T) {
	s := NewShoe(1, randutil.New(9))
	for i := 0; i < 52; i++ {
		s.Deal()
	}
	require.Equal(t, 0, s.Remaining())

	// Dealing against an empty draw pile rebuilds instead of failing.
	c := s.Deal()
	assert.NotZero(t, c.Value)
	assert.Equal(t, 51, s.Remaining())
	assert.Equal(t, 1, s.Discarded())
}

func TestShoeDeterministicWithSeed(t *testing.T) {
	a := NewShoe(1, randutil.New(99))
	b := NewShoe(1, randutil.New(99))
	for i := 0; i < 52; i++ {
		require.Equal(t, a.Deal(), b.Deal())
	}
}

func TestShoeStack(t *testing.T) {
	s := NewShoe(1, randutil.New(5))
	five := NewCard(Hearts, Five)
	king := NewCard(Spades, King)
	s.Stack(five, king)

	assert.Equal(t, five, s.Deal())
	assert.Equal(t, king, s.Deal())
}
