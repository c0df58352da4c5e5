package game

import "github.com/lox/blackjack/internal/deck"

// DealerStandsOn is the total at which the dealer stops drawing. Soft and
// hard totals are treated alike.
const DealerStandsOn = 17

// ShouldDraw is the dealer's fixed drawing rule.
func ShouldDraw(value int) bool {
	return value < DealerStandsOn && value <= deck.Blackjack
}

// Dealer plays the house hand.
type Dealer struct {
	hand *Hand
}

// NewDealer creates a dealer with no hand.
func NewDealer() *Dealer {
	return &Dealer{}
}

// Hand returns the current dealer hand, or nil between rounds.
func (d *Dealer) Hand() *Hand { return d.hand }

// Deal starts a new dealer hand with two cards, the second one hidden.
func (d *Dealer) Deal(dk deck.Deck) error {
	d.hand = NewDealerHand()
	for i := 0; i < 2; i++ {
		if _, err := d.hand.Draw(dk); err != nil {
			return err
		}
	}
	return nil
}

// Reveal turns over the hole card.
func (d *Dealer) Reveal() {
	if d.hand != nil {
		d.hand.Reveal()
	}
}

// Play draws until ShouldDraw says stop and returns the cards drawn.
func (d *Dealer) Play(dk deck.Deck) ([]deck.Card, error) {
	var drawn []deck.Card
	for ShouldDraw(d.hand.Value()) {
		card, err := d.hand.Draw(dk)
		if err != nil {
			return drawn, err
		}
		drawn = append(drawn, card)
	}
	d.hand.finish()
	return drawn, nil
}

// clearHand drops the hand and returns its cards for the discard pile.
func (d *Dealer) clearHand() []deck.Card {
	if d.hand == nil {
		return nil
	}
	cards := d.hand.Cards()
	d.hand = nil
	return cards
}
