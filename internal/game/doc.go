// Package game implements the core blackjack table logic.
//
// The main type is Round, which manages one table session through the
// betting, player turn, dealer turn and round-over states, together with
// the participants, their hands and the shoe.
//
// # Basic Usage
//
// Create a round and drive it through one deal:
//
//	player := game.NewPlayer("Alice", 1000)
//	r := game.NewRound(game.DefaultRules(), []*game.Participant{player})
//	err := r.PlaceBets(map[*game.Participant]int{player: 25})
//	r.StartRound()
//	err = r.PlayerAction(player, game.Hit)
//	// ... until player.AllHandsPlayed()
//	err = r.BeginDealerTurn()
//	err = r.DealerPlays()
//	err = r.DetermineOutcome()
//	r.ResetRound()
//
// # Deterministic Testing
//
// For deterministic play, supply a rigged shoe:
//
//	s := deck.NewShoe(1, randutil.New(42))
//	s.Stack(deck.NewCard(deck.Spades, deck.Ace))
//	r := game.NewRound(rules, players, game.WithShoe(s))
//
// # Architecture
//
// Round delegates to specialized components:
//   - Participant: balance, bets, hands and the current-hand cursor
//   - Hand: card sequence, soft-ace valuation, blackjack detection
//   - deck.Shoe: the multi-deck draw/discard supply with penetration
//
// Operations validate their own preconditions and fail with the typed
// errors in errors.go without partial mutation. A Round is single-threaded;
// drivers hosting one behind concurrent handlers must serialise operations
// per instance.
package game
