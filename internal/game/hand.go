package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// Hand names used at the table.
const (
	MainHandName   = "Hand"
	SplitHandName  = "Split Hand"
	DealerHandName = "Dealer"
)

// Hand is an ordered set of cards with a lazily computed total. The same type
// serves the dealer (hidden hole card, no bet) and players (bet, playable).
type Hand struct {
	name  string
	cards []deck.Card

	total       int
	dirty       bool
	established bool

	bet      Chips
	playable bool
	hideHole bool
}

// NewHand creates an empty, playable hand.
func NewHand(name string) *Hand {
	return &Hand{name: name, playable: true}
}

// NewPlayerHand creates an empty hand carrying a bet.
func NewPlayerHand(name string, bet Chips) *Hand {
	h := NewHand(name)
	h.bet = bet
	return h
}

// NewDealerHand creates an empty hand that hides its second card from
// display until Reveal is called.
func NewDealerHand() *Hand {
	h := NewHand(DealerHandName)
	h.hideHole = true
	return h
}

// Name returns the display name of the hand.
func (h *Hand) Name() string { return h.name }

// Bet returns the amount wagered on this hand.
func (h *Hand) Bet() Chips { return h.bet }

// Playable reports whether the hand may still take cards.
func (h *Hand) Playable() bool { return h.playable }

// Hidden reports whether the hole card is hidden from display.
func (h *Hand) Hidden() bool { return h.hideHole }

// Reveal shows the hole card.
func (h *Hand) Reveal() { h.hideHole = false }

// Len returns the number of cards in the hand.
func (h *Hand) Len() int { return len(h.cards) }

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []deck.Card {
	return append([]deck.Card(nil), h.cards...)
}

// AddCard appends a card and invalidates the cached total.
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
	h.dirty = true
}

// Draw takes the next card from d into the hand.
func (h *Hand) Draw(d deck.Deck) (deck.Card, error) {
	card, err := d.Draw()
	if err != nil {
		return deck.Card{}, err
	}
	h.AddCard(card)
	return card, nil
}

// Value returns the hand total, recomputing it only after cards were added.
//
// Aces are resolved in one of two ways. The first time a total is
// established, the first Ace counts 11 and every further Ace counts 1. On
// later recomputations each Ace counts 11 unless that would push the running
// total past 21. Both paths count every Ace as 1 when the other cards alone
// are already past 21.
func (h *Hand) Value() int {
	if h.established && !h.dirty {
		return h.total
	}

	nonAces, aces := 0, 0
	for _, c := range h.cards {
		if c.IsAce() {
			aces++
			continue
		}
		nonAces += c.Value()
	}

	total := nonAces
	switch {
	case aces == 0:
	case nonAces > deck.Blackjack:
		total += aces
	case !h.established:
		total += 11 + (aces - 1)
	default:
		for _, c := range h.cards {
			if c.IsAce() {
				total += c.ValueIn(total)
			}
		}
	}

	h.total = total
	h.dirty = false
	h.established = len(h.cards) > 0
	return total
}

// IsSoft reports whether an Ace is currently counted as 11.
func (h *Hand) IsSoft() bool {
	hard := 0
	for _, c := range h.cards {
		if c.IsAce() {
			hard++
		} else {
			hard += c.Value()
		}
	}
	v := h.Value()
	return v > hard && v <= deck.Blackjack
}

// IsBusted reports whether the total is over 21.
func (h *Hand) IsBusted() bool {
	return h.Value() > deck.Blackjack
}

// IsNatural reports whether the first two cards make 21 on their own. Later
// draws do not change the answer.
func (h *Hand) IsNatural() bool {
	if len(h.cards) < 2 {
		return false
	}
	return h.cards[0].Value()+h.cards[1].Value() == deck.Blackjack
}

// CanSplitPair reports whether the hand is exactly two identical cards. Cards
// must match on suit as well as rank.
func (h *Hand) CanSplitPair() bool {
	return len(h.cards) == 2 && h.cards[0].Equal(h.cards[1])
}

// CanDoubleDown reports whether the hand is two cards totalling 9, 10 or 11.
func (h *Hand) CanDoubleDown() bool {
	if len(h.cards) != 2 {
		return false
	}
	v := h.Value()
	return v >= 9 && v <= 11
}

// Split moves the second card of a pair into a new hand with the same bet.
// The receiver keeps the first card.
func (h *Hand) Split(name string) (*Hand, error) {
	if !h.CanSplitPair() {
		return nil, ErrCannotSplit
	}

	split := &Hand{
		name:        name,
		cards:       []deck.Card{h.cards[1]},
		dirty:       true,
		established: h.established,
		bet:         h.bet,
		playable:    true,
	}
	h.cards = h.cards[:1]
	h.dirty = true
	return split, nil
}

// doubleBet doubles the wager and returns the extra amount staked.
func (h *Hand) doubleBet() Chips {
	extra := h.bet
	h.bet += extra
	return extra
}

func (h *Hand) finish() { h.playable = false }

// Snapshot returns an immutable view of the hand. While the hole card is
// hidden the view carries only the up card and its value.
func (h *Hand) Snapshot() HandSnapshot {
	s := HandSnapshot{
		Name:     h.name,
		Bet:      h.bet,
		Playable: h.playable,
	}
	if h.hideHole && len(h.cards) > 1 {
		up := h.cards[0]
		s.Cards = []deck.Card{up}
		s.Value = up.Value()
		s.HiddenCards = len(h.cards) - 1
		return s
	}
	s.Cards = h.Cards()
	s.Value = h.Value()
	s.Soft = h.IsSoft()
	s.Natural = h.IsNatural()
	s.Busted = h.IsBusted()
	return s
}

// HandSnapshot is a read-only copy of a hand for agents and displays.
type HandSnapshot struct {
	Name        string
	Cards       []deck.Card
	HiddenCards int
	Value       int
	Soft        bool
	Natural     bool
	Busted      bool
	Bet         Chips
	Playable    bool
}

// UpCard returns the first visible card, if any.
func (s HandSnapshot) UpCard() (deck.Card, bool) {
	if len(s.Cards) == 0 {
		return deck.Card{}, false
	}
	return s.Cards[0], true
}
