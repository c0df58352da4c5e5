package game

import "github.com/lox/blackjack/internal/deck"

// Outcome is the result of one player hand against the dealer.
type Outcome int

const (
	DealerWins Outcome = iota
	Draw
	PlayerWins
	PlayerNatural
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case DealerWins:
		return "dealer wins"
	case Draw:
		return "draw"
	case PlayerWins:
		return "player wins"
	case PlayerNatural:
		return "player natural"
	default:
		return "unknown"
	}
}

// Payout returns the amount credited back to the player for a hand that
// staked bet. The bet itself was taken when it was placed, so a loss pays
// nothing and a draw returns the stake.
func (o Outcome) Payout(bet Chips) Chips {
	switch o {
	case Draw:
		return bet
	case PlayerWins:
		return bet.Mul(2, 1)
	case PlayerNatural:
		return bet.Mul(5, 2)
	default:
		return 0
	}
}

// Compare resolves a finished player hand against a finished dealer hand.
func Compare(dealer, player *Hand) Outcome {
	if dealer.IsNatural() {
		if player.IsNatural() {
			return Draw
		}
		return DealerWins
	}
	if player.IsNatural() {
		return PlayerNatural
	}

	playerValue := player.Value()
	dealerValue := dealer.Value()
	switch {
	case playerValue > deck.Blackjack:
		return DealerWins
	case dealerValue > deck.Blackjack:
		return PlayerWins
	case playerValue > dealerValue:
		return PlayerWins
	case playerValue < dealerValue:
		return DealerWins
	default:
		return Draw
	}
}
