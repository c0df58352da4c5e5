package game

import "errors"

var (
	// ErrInsufficientFunds is returned when a player tries to bet, split or
	// double with fewer chips than required.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidDecision is returned when an agent hands the engine a value
	// outside the allowed range, such as a bet above the table maximum.
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrCannotSplit is returned when splitting a hand that is not a pair.
	ErrCannotSplit = errors.New("hand cannot be split")

	// ErrCannotDouble is returned when doubling a hand outside 9 to 11.
	ErrCannotDouble = errors.New("hand cannot be doubled")

	// ErrChipConservation signals that the chip ledger no longer balances.
	ErrChipConservation = errors.New("chip conservation violated")
)
