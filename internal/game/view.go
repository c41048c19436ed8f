package game

// HiddenCard is the placeholder rank/suit for the dealer's hole card while
// the players are still acting.
const HiddenCard = "hidden"

// CardView is a UI-agnostic card representation
type CardView struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
	Red  bool   `json:"red"`
}

// HandView projects one hand: cards in deal order, derived value, wager and
// status tag.
type HandView struct {
	Cards  []CardView `json:"cards"`
	Value  int        `json:"value"`
	Bet    int        `json:"bet"`
	Status string     `json:"status"`
}

// PlayerView projects one player's hands plus their balance and cursor
type PlayerView struct {
	Name        string     `json:"name"`
	Balance     int        `json:"balance"`
	Hands       []HandView `json:"hands"`
	CurrentHand int        `json:"currentHand"`
	Overall     string     `json:"overall"`
}

// DealerView projects the dealer's hand. During the player turn the hole
// card is redacted and the value covers the up card only.
type DealerView struct {
	Cards  []CardView `json:"cards"`
	Value  int        `json:"value"`
	Status string     `json:"status"`
}

// Snapshot is the read-only projection consumed by every rendering layer.
// It is derived from the round on each call and exposes no mutable state;
// two calls without an intervening operation yield identical output.
type Snapshot struct {
	State   string       `json:"state"`
	Dealer  DealerView   `json:"dealer"`
	Players []PlayerView `json:"players"`
}

// Snapshot projects the current round state
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		State:   r.state.String(),
		Players: make([]PlayerView, 0, len(r.Players)),
	}

	for _, p := range r.Players {
		pv := PlayerView{
			Name:        p.Name,
			Balance:     p.Balance,
			Hands:       make([]HandView, 0, len(p.Hands)),
			CurrentHand: p.CurrentHandIndex(),
			Overall:     p.OverallStatus().String(),
		}
		for i, h := range p.Hands {
			pv.Hands = append(pv.Hands, HandView{
				Cards:  cardViews(h),
				Value:  h.Value(),
				Bet:    p.Bets[i],
				Status: h.Status.String(),
			})
		}
		snap.Players = append(snap.Players, pv)
	}

	dealerHand := r.Dealer.Hands[0]
	dv := DealerView{Status: dealerHand.Status.String()}
	if r.state == StatePlayerTurn && len(dealerHand.Cards) == 2 {
		up := dealerHand.Cards[0]
		dv.Cards = []CardView{
			{Rank: up.Rank.String(), Suit: up.Suit.String(), Red: up.IsRed()},
			{Rank: HiddenCard, Suit: HiddenCard},
		}
		dv.Value = up.Value
	} else {
		dv.Cards = cardViews(dealerHand)
		dv.Value = dealerHand.Value()
	}
	snap.Dealer = dv

	return snap
}

func cardViews(h *Hand) []CardView {
	views := make([]CardView, 0, len(h.Cards))
	for _, c := range h.Cards {
		views = append(views, CardView{
			Rank: c.Rank.String(),
			Suit: c.Suit.String(),
			Red:  c.IsRed(),
		})
	}
	return views
}
