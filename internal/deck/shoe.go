package deck

import (
	rand "math/rand/v2"
	"time"

	"github.com/cardtable/blackjack/internal/randutil"
)

// Shoe is the working card supply for a table: one or more shuffled 52-card
// decks plus a discard pile. Dealt cards move to the discard pile so that
// draw + discard always account for the full numDecks*52 set between rebuilds.
type Shoe struct {
	draw     []Card
	discard  []Card
	numDecks int
	rng      *rand.Rand
}

// NewShoe creates a shuffled shoe of numDecks standard decks. A nil rng
// seeds from the wall clock.
func NewShoe(numDecks int, rng *rand.Rand) *Shoe {
	if rng == nil {
		rng = randutil.New(time.Now().UnixNano())
	}
	s := &Shoe{numDecks: numDecks, rng: rng}
	s.Rebuild()
	return s
}

// Rebuild replaces the draw pile with a freshly shuffled full set of cards
// and empties the discard pile.
func (s *Shoe) Rebuild() {
	s.draw = make([]Card, 0, s.Capacity())
	s.discard = s.discard[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.draw = append(s.draw, NewCard(suit, rank))
			}
		}
	}
	s.shuffle()
}

func (s *Shoe) shuffle() {
	s.rng.Shuffle(len(s.draw), func(i, j int) {
		s.draw[i], s.draw[j] = s.draw[j], s.draw[i]
	})
}

// Deal removes the top card of the draw pile and moves it to the discard
// pile. An empty draw pile triggers a defensive rebuild first; the round
// engine normally reshuffles at round start before the pile can run dry.
func (s *Shoe) Deal() Card {
	if len(s.draw) == 0 {
		s.Rebuild()
	}
	card := s.draw[len(s.draw)-1]
	s.draw = s.draw[:len(s.draw)-1]
	s.discard = append(s.discard, card)
	return card
}

// Penetration returns the fraction of the shoe's capacity dealt since the
// last rebuild.
func (s *Shoe) Penetration() float64 {
	return 1.0 - float64(len(s.draw))/float64(s.Capacity())
}

// Remaining returns the number of cards left in the draw pile.
func (s *Shoe) Remaining() int {
	return len(s.draw)
}

// Discarded returns the number of cards in the discard pile.
func (s *Shoe) Discarded() int {
	return len(s.discard)
}

// Capacity returns the total number of cards in a full shoe.
func (s *Shoe) Capacity() int {
	return s.numDecks * 52
}

// NumDecks returns the number of decks the shoe was built from.
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Stack places cards on top of the draw pile so they deal in the given
// order. Used by tests to rig deterministic deals.
func (s *Shoe) Stack(next ...Card) {
	for i := len(next) - 1; i >= 0; i-- {
		s.draw = append(s.draw, next[i])
	}
}
