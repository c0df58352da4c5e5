package bot

import (
	rand "math/rand/v2"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// upCardValue is the value of the dealer's visible card, Ace as 11.
func upCardValue(v game.TurnView) int {
	up, ok := v.Dealer.UpCard()
	if !ok {
		return 10
	}
	return up.Value()
}

// BasicStrategy plays the textbook chart against the dealer's up card.
type BasicStrategy struct{}

func (BasicStrategy) Name() string { return "basic" }

func (BasicStrategy) Split(v game.TurnView, _ *rand.Rand) bool {
	if len(v.Hand.Cards) != 2 {
		return false
	}
	up := upCardValue(v)
	switch v.Hand.Cards[0].Rank {
	case deck.Ace, deck.Eight:
		return true
	case deck.Nine:
		return up <= 9 && up != 7
	case deck.Seven, deck.Two, deck.Three:
		return up <= 7
	case deck.Six:
		return up <= 6
	case deck.Four:
		return up == 5 || up == 6
	default:
		return false
	}
}

func (BasicStrategy) DoubleDown(v game.TurnView, _ *rand.Rand) bool {
	up := upCardValue(v)
	switch v.Hand.Value {
	case 11:
		return up <= 10
	case 10:
		return up <= 9
	case 9:
		return up >= 3 && up <= 6
	default:
		return false
	}
}

func (BasicStrategy) Hit(v game.TurnView, _ *rand.Rand) bool {
	total := v.Hand.Value
	up := upCardValue(v)
	if v.Hand.Soft {
		switch {
		case total <= 17:
			return true
		case total == 18:
			return up >= 9
		default:
			return false
		}
	}
	switch {
	case total <= 11:
		return true
	case total == 12:
		return up < 4 || up > 6
	case total <= 16:
		return up > 6
	default:
		return false
	}
}

// DealerStrategy copies the house: hit below 17, never split or double.
type DealerStrategy struct{}

func (DealerStrategy) Name() string { return "dealer" }
func (DealerStrategy) Split(game.TurnView, *rand.Rand) bool { return false }
func (DealerStrategy) DoubleDown(game.TurnView, *rand.Rand) bool { return false }

func (DealerStrategy) Hit(v game.TurnView, _ *rand.Rand) bool {
	return game.ShouldDraw(v.Hand.Value)
}

// CautiousStrategy never takes a card that could bust the hand.
type CautiousStrategy struct{}

func (CautiousStrategy) Name() string { return "cautious" }
func (CautiousStrategy) Split(game.TurnView, *rand.Rand) bool { return false }

func (CautiousStrategy) DoubleDown(v game.TurnView, _ *rand.Rand) bool {
	return v.Hand.Value == 11
}

func (CautiousStrategy) Hit(v game.TurnView, _ *rand.Rand) bool {
	return v.Hand.Value <= 11 || (v.Hand.Soft && v.Hand.Value < 18)
}

// RandomStrategy flips a coin for every decision.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) Split(_ game.TurnView, rng *rand.Rand) bool {
	return rng.IntN(2) == 0
}

func (RandomStrategy) DoubleDown(_ game.TurnView, rng *rand.Rand) bool {
	return rng.IntN(2) == 0
}

func (RandomStrategy) Hit(v game.TurnView, rng *rand.Rand) bool {
	return v.Hand.Value < deck.Blackjack && rng.IntN(2) == 0
}
