package game

import "context"

// BetView is the read-only state an agent sees when asked for a bet.
type BetView struct {
	Player string
	Round  int
	Chips  Chips
	MinBet Chips
	MaxBet Chips
}

// MaxAllowed is the largest bet the player may place this round.
func (v BetView) MaxAllowed() Chips {
	if v.Chips < v.MaxBet {
		return v.Chips
	}
	return v.MaxBet
}

// Valid reports whether amount is an acceptable bet.
func (v BetView) Valid(amount Chips) bool {
	return amount >= v.MinBet && amount <= v.MaxAllowed()
}

// TurnView is the read-only state an agent sees while playing a hand. Dealer
// only carries the up card while the hole card is hidden.
type TurnView struct {
	Player string
	Round  int
	Chips  Chips
	Hand   HandSnapshot
	Dealer HandSnapshot
}

// CanAfford reports whether the player can match the current hand's bet, as
// a split or double down requires.
func (v TurnView) CanAfford() bool {
	return v.Chips >= v.Hand.Bet
}

// PlayerView is the read-only state an agent sees between rounds.
type PlayerView struct {
	Player string
	Round  int
	Chips  Chips
	MinBet Chips
}

// Agent makes decisions for a player. Each call blocks the table until it
// returns; an error removes the player from the table.
//
// Agents receive immutable views and never touch engine state directly.
type Agent interface {
	// PlaceBet returns the wager for the next round, within
	// [MinBet, MaxAllowed()].
	PlaceBet(ctx context.Context, view BetView) (Chips, error)
	// Split is asked when the main hand is a pair.
	Split(ctx context.Context, view TurnView) (bool, error)
	// DoubleDown is asked once for each hand totalling 9 to 11 on two cards.
	DoubleDown(ctx context.Context, view TurnView) (bool, error)
	// Hit is asked until the player stands or the hand reaches 21.
	Hit(ctx context.Context, view TurnView) (bool, error)
	// PlayAgain is asked after settlement when the player can still cover
	// the table minimum.
	PlayAgain(ctx context.Context, view PlayerView) (bool, error)
}
