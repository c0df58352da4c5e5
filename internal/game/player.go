package game

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Player is a seat at the table with a chip balance and up to two hands.
type Player struct {
	name  string
	seat  int
	chips Chips
	agent Agent

	hand      *Hand
	splitHand *Hand
}

// NewPlayer seats a player with a starting balance.
func NewPlayer(name string, seat int, chips Chips, agent Agent) *Player {
	return &Player{
		name:  name,
		seat:  seat,
		chips: chips,
		agent: agent,
	}
}

// DefaultPlayerName is the name given to players configured without one.
func DefaultPlayerName(seat int) string {
	return fmt.Sprintf("Player %d", seat)
}

func (p *Player) Name() string { return p.name }
func (p *Player) Seat() int { return p.seat }
func (p *Player) Chips() Chips { return p.chips }
func (p *Player) Agent() Agent { return p.agent }
func (p *Player) Hand() *Hand { return p.hand }
func (p *Player) SplitHand() *Hand { return p.splitHand }
func (p *Player) String() string { return p.name }

// Hands returns the player's live hands, main hand first.
func (p *Player) Hands() []*Hand {
	hands := make([]*Hand, 0, 2)
	if p.hand != nil {
		hands = append(hands, p.hand)
	}
	if p.splitHand != nil {
		hands = append(hands, p.splitHand)
	}
	return hands
}

// Staked is the total currently wagered across the player's hands.
func (p *Player) Staked() Chips {
	var total Chips
	for _, h := range p.Hands() {
		total += h.Bet()
	}
	return total
}

// PlaceBet takes amount from the balance and opens a new main hand.
func (p *Player) PlaceBet(amount Chips) error {
	if amount <= 0 {
		return fmt.Errorf("bet %s: %w", amount, ErrInvalidDecision)
	}
	if amount > p.chips {
		return fmt.Errorf("bet %s with %s: %w", amount, p.chips, ErrInsufficientFunds)
	}
	p.chips -= amount
	p.hand = NewPlayerHand(MainHandName, amount)
	p.splitHand = nil
	return nil
}

// Split turns a pair in the main hand into two hands, charging a matching
// bet and drawing one replacement card into each.
func (p *Player) Split(d deck.Deck) error {
	if p.hand == nil || !p.hand.CanSplitPair() {
		return ErrCannotSplit
	}
	if p.splitHand != nil {
		return fmt.Errorf("already split: %w", ErrCannotSplit)
	}
	bet := p.hand.Bet()
	if p.chips < bet {
		return fmt.Errorf("split %s with %s: %w", bet, p.chips, ErrInsufficientFunds)
	}

	split, err := p.hand.Split(SplitHandName)
	if err != nil {
		return err
	}
	p.chips -= bet
	p.splitHand = split

	if _, err := p.hand.Draw(d); err != nil {
		return err
	}
	if _, err := p.splitHand.Draw(d); err != nil {
		return err
	}
	return nil
}

// DoubleDown doubles the bet on h, draws exactly one card and closes the
// hand. It does nothing when h is no longer playable.
func (p *Player) DoubleDown(h *Hand, d deck.Deck) (deck.Card, error) {
	if h == nil || !h.Playable() {
		return deck.Card{}, nil
	}
	if !h.CanDoubleDown() {
		return deck.Card{}, ErrCannotDouble
	}
	if p.chips < h.Bet() {
		return deck.Card{}, fmt.Errorf("double %s with %s: %w", h.Bet(), p.chips, ErrInsufficientFunds)
	}

	p.chips -= h.doubleBet()
	card, err := h.Draw(d)
	if err != nil {
		return deck.Card{}, err
	}
	h.finish()
	return card, nil
}

// Hit draws a card into h and closes the hand once it reaches 21 or more.
// It reports false without drawing when h is no longer playable.
func (p *Player) Hit(h *Hand, d deck.Deck) (deck.Card, bool, error) {
	if h == nil || !h.Playable() {
		return deck.Card{}, false, nil
	}
	card, err := h.Draw(d)
	if err != nil {
		return deck.Card{}, false, err
	}
	if h.Value() >= deck.Blackjack {
		h.finish()
	}
	return card, true, nil
}

// Stand closes h.
func (p *Player) Stand(h *Hand) {
	if h != nil {
		h.finish()
	}
}

// Turn carries what a player needs from the table to play its hands.
type Turn struct {
	Round  int
	Deck   deck.Deck
	Dealer HandSnapshot
	// Notify, when set, is called after every change to one of the
	// player's hands.
	Notify func(action HandAction, hand *Hand, card *deck.Card)
}

func (t Turn) notify(action HandAction, h *Hand, card *deck.Card) {
	if t.Notify != nil {
		t.Notify(action, h, card)
	}
}

func (p *Player) view(t Turn, h *Hand) TurnView {
	return TurnView{
		Player: p.name,
		Round:  t.Round,
		Chips:  p.chips,
		Hand:   h.Snapshot(),
		Dealer: t.Dealer,
	}
}

// Play runs the player's decisions for one round: nothing on a natural,
// then the split offer, double down offers for each hand, and finally the
// hit or stand loop for every hand still playable.
func (p *Player) Play(ctx context.Context, t Turn) error {
	if p.hand == nil {
		return nil
	}
	if p.hand.IsNatural() {
		p.hand.finish()
		return nil
	}

	if p.hand.CanSplitPair() {
		ok, err := p.agent.Split(ctx, p.view(t, p.hand))
		if err != nil {
			return fmt.Errorf("split decision: %w", err)
		}
		if ok {
			if err := p.Split(t.Deck); err != nil {
				return err
			}
			t.notify(ActionSplit, p.hand, nil)
			t.notify(ActionSplit, p.splitHand, nil)
		}
	}

	for _, h := range p.Hands() {
		if !h.CanDoubleDown() || !h.Playable() {
			continue
		}
		ok, err := p.agent.DoubleDown(ctx, p.view(t, h))
		if err != nil {
			return fmt.Errorf("double down decision: %w", err)
		}
		if !ok {
			continue
		}
		card, err := p.DoubleDown(h, t.Deck)
		if err != nil {
			return err
		}
		t.notify(ActionDouble, h, &card)
	}

	for _, h := range p.Hands() {
		if err := p.playHand(ctx, t, h); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) playHand(ctx context.Context, t Turn, h *Hand) error {
	for h.Playable() {
		if err := ctx.Err(); err != nil {
			return err
		}
		hit, err := p.agent.Hit(ctx, p.view(t, h))
		if err != nil {
			return fmt.Errorf("hit decision: %w", err)
		}
		if !hit {
			p.Stand(h)
			t.notify(ActionStand, h, nil)
			return nil
		}

		card, _, err := p.Hit(h, t.Deck)
		if err != nil {
			return err
		}
		t.notify(ActionHit, h, &card)
		if h.IsBusted() {
			t.notify(ActionBust, h, nil)
		}
	}
	return nil
}

// settle pays out h against the dealer and returns the outcome and amount
// credited.
func (p *Player) settle(dealer, h *Hand) (Outcome, Chips) {
	outcome := Compare(dealer, h)
	payout := outcome.Payout(h.Bet())
	p.chips += payout
	return outcome, payout
}

// clearHands drops both hands and returns their cards for the discard pile.
func (p *Player) clearHands() []deck.Card {
	var cards []deck.Card
	for _, h := range p.Hands() {
		cards = append(cards, h.Cards()...)
	}
	p.hand = nil
	p.splitHand = nil
	return cards
}
